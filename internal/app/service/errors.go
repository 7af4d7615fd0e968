package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrForbidden           = errors.New("you do not have permission to perform this action")
	ErrUnknownRecipe       = errors.New("recipe not found")
	ErrAlreadyInList       = errors.New("recipe is already in the list")
	ErrNotInList           = errors.New("recipe is not in the list")
	ErrTokenSpaceExhausted = errors.New("could not allocate a unique short link token")
	ErrInvalidCredentials  = errors.New("unable to log in with provided credentials")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrUserExists          = errors.New("a user with that email or username already exists")
	ErrSelfSubscription    = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed   = errors.New("you are already subscribed to this author")
	ErrNotSubscribed       = errors.New("you are not subscribed to this author")
)

// ValidationError reports rejected input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
