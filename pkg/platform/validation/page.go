package validation

import (
	"net/url"
	"strconv"
	"strings"

	strs "statusline/pkg/platform/strings"
)

// Pagination bounds shared by every list operation. A caller can never ask
// for an unbounded page, and out-of-range values are rejected, not clamped.
const (
	DefaultLimit = 50
	MinLimit     = 1
	MaxLimit     = 100
)

// Page is a validated limit/offset pair.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// CheckPage validates limit and offset, applying defaults for absent values.
func CheckPage(vs *Violations, limit, offset Opt[int]) Page {
	page := Page{Limit: DefaultLimit}
	if Present(vs, "limit", limit) && Check(vs, "limit", limit.Value, IntBetween(MinLimit, MaxLimit)) {
		page.Limit = limit.Value
	}
	if Present(vs, "offset", offset) && Check(vs, "offset", offset.Value, IntAtLeast(0)) {
		page.Offset = offset.Value
	}
	return page
}

// QueryString reads the first value of key from URL query values.
func QueryString(values url.Values, key string) Opt[string] {
	if _, ok := values[key]; !ok {
		return Opt[string]{}
	}
	return Some(strings.TrimSpace(values.Get(key)))
}

// QueryList reads key as a list. Repeated keys and comma-separated values are
// both accepted; blanks and duplicates are dropped.
func QueryList(values url.Values, key string) Opt[[]string] {
	raw, ok := values[key]
	if !ok {
		return Opt[[]string]{}
	}
	var items []string
	for _, v := range raw {
		items = append(items, strings.Split(v, ",")...)
	}
	return Some(strs.DedupeAndTrim(items))
}

// QueryInt reads key as an integer, recording a violation when it is not one.
func QueryInt(vs *Violations, values url.Values, key string) Opt[int] {
	if _, ok := values[key]; !ok {
		return Opt[int]{}
	}
	raw := strings.TrimSpace(values.Get(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		vs.Add(Shape(key, RuleType, "must be an integer, got "+strconv.Quote(raw)))
		return Opt[int]{}
	}
	return Some(n)
}

// Paged is one page of list results.
type Paged[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NewPaged wraps items fetched for page. items is never encoded as null.
func NewPaged[T any](items []T, page Page, total int) Paged[T] {
	if items == nil {
		items = []T{}
	}
	return Paged[T]{Items: items, Limit: page.Limit, Offset: page.Offset, Total: total}
}

// Window returns the slice of all selected by page.
func Window[T any](all []T, page Page) []T {
	if page.Offset >= len(all) {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(all))
	return all[page.Offset:end]
}
