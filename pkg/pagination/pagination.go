package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 5
	AdminPageSize   = 100
	DefaultPage     = 1
)

// Page describes one page of a list. Number is 1-based and never exceeds
// NumPages; an empty result still has a single empty page.
type Page struct {
	Number     int
	NumPages   int
	PageSize   int
	TotalItems int
}

// New clamps page into [1, NumPages].
func New(totalItems, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}

	numPages := 1
	if totalItems > 0 {
		numPages = (totalItems + size - 1) / size
	}

	if page < 1 {
		page = DefaultPage
	}
	if page > numPages {
		page = numPages
	}

	return Page{
		Number:     page,
		NumPages:   numPages,
		PageSize:   size,
		TotalItems: totalItems,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PageSize
}

func (p Page) Limit() int {
	return p.PageSize
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) IsPaginated() bool { return p.NumPages > 1 }

func (p Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p Page) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// ParsePage reads a 1-based page number; junk and values below one become 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

// QueryFor renders the query string for page n, keeping the other params
// (search terms, filters) intact.
func QueryFor(params url.Values, n int) string {
	q := url.Values{}
	for k, v := range params {
		if k == "page" {
			continue
		}
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return "?" + q.Encode()
}
