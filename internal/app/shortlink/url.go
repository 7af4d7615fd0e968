package shortlink

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const apiSegment = "api"

// CanonicalURL is the absolute API address of a recipe, the value stored with its link.
func CanonicalURL(baseURL string, recipeID uint) string {
	return strings.TrimRight(baseURL, "/") + "/api/recipes/" + strconv.FormatUint(uint64(recipeID), 10) + "/"
}

// ShortURL is the public address a token is shared under.
func ShortURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/s/" + token + "/"
}

// RedirectTarget turns a stored canonical URL into the page address a visitor is sent to:
// a leading "api" path segment is dropped along with the trailing slash.
func RedirectTarget(canonical string) (string, error) {
	u, err := url.Parse(canonical)
	if err != nil {
		return "", fmt.Errorf("parse canonical url: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 0 && segments[0] == apiSegment {
		segments = segments[1:]
	}
	path := strings.Join(segments, "/")
	if path == "" {
		u.Path = "/"
	} else {
		u.Path = "/" + path
	}
	u.RawPath = ""
	return u.String(), nil
}
