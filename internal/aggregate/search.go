package aggregate

import (
	"strings"

	"uidlens/domain/social"
)

// Search keeps profiles whose UID or name contains query, case-insensitively.
// An empty query returns the input unchanged.
func Search(profiles []*social.Profile, query string) []*social.Profile {
	if query == "" {
		return profiles
	}
	q := strings.ToLower(query)
	out := make([]*social.Profile, 0)
	for _, p := range profiles {
		if strings.Contains(strings.ToLower(p.UID), q) ||
			(p.Name != "" && strings.Contains(strings.ToLower(p.Name), q)) {
			out = append(out, p)
		}
	}
	return out
}

// MaxPerPage caps the page size
const MaxPerPage = 1000

// Page is one slice of a paginated listing
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns the 1-based page of items. perPage is clamped to
// MaxPerPage; pages past the end are empty.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * perPage
		end = min(start+perPage, total)
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
