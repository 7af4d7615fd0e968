package util

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Offset is the number of rows before the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// PageResponse is the paginated list envelope.
type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// ParsePage reads ?page and ?limit, falling back to page 1 and DefaultPageSize.
func ParsePage(c *fiber.Ctx) Page {
	page := Page{Number: 1, Limit: DefaultPageSize}
	if n := c.QueryInt("page"); n > 0 {
		page.Number = n
	}
	if n := c.QueryInt("limit"); n > 0 {
		page.Limit = min(n, MaxPageSize)
	}
	return page
}

// NewPageResponse wraps results with count and absolute next/previous links.
func NewPageResponse(c *fiber.Ctx, page Page, total int64, results interface{}) PageResponse {
	resp := PageResponse{Count: total, Results: results}
	if int64(page.Number*page.Limit) < total {
		next := pageURL(c, page.Number+1)
		resp.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(c, page.Number-1)
		resp.Previous = &prev
	}
	return resp
}

func pageURL(c *fiber.Ctx, number int) string {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	c.Request().URI().QueryArgs().CopyTo(args)
	if number <= 1 {
		args.Del("page")
	} else {
		args.Set("page", strconv.Itoa(number))
	}

	u := c.BaseURL() + c.Path()
	if q := args.String(); q != "" {
		u += "?" + q
	}
	return u
}
