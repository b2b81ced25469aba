// Package extract pulls the UID, display name and activity date out of a row.
//
// Each extraction is an ordered list of named strategies; the first strategy
// that yields a value wins. The lists are exported so callers and tests can
// inspect the exact rule order.
package extract

import (
	"strings"

	"uidlens/domain/social"
)

// Strategy is one named extraction rule
type Strategy struct {
	Name  string
	Apply func(row social.Row, kind social.DataKind) (string, bool)
}

// Generic field names tried before any kind-specific field
var (
	UIDFields  = []string{"uid", "user_id", "id", "facebook_id", "fb_id"}
	NameFields = []string{"name", "user_name", "full_name", "display_name"}
)

// Kind-specific fallback fields
var (
	uidFallbacks = map[social.DataKind][]string{
		social.KindFriends:  {"friend_id"},
		social.KindComments: {"commenter_id"},
		social.KindPosts:    {"poster_id", "author_id"},
	}
	nameFallbacks = map[social.DataKind][]string{
		social.KindFriends:  {"friend_name"},
		social.KindComments: {"commenter_name"},
		social.KindPosts:    {"poster_name", "author_name"},
	}
)

// UIDStrategies is the ordered rule list behind UID
var UIDStrategies = []Strategy{
	{Name: "generic-uid-field", Apply: func(row social.Row, _ social.DataKind) (string, bool) {
		return firstPresent(row, UIDFields)
	}},
	{Name: "kind-uid-field", Apply: func(row social.Row, kind social.DataKind) (string, bool) {
		return firstPresent(row, uidFallbacks[kind])
	}},
	{Name: "any-id-column", Apply: func(row social.Row, _ social.DataKind) (string, bool) {
		return anyIDColumn(row)
	}},
}

// NameStrategies is the ordered rule list behind Name
var NameStrategies = []Strategy{
	{Name: "generic-name-field", Apply: func(row social.Row, _ social.DataKind) (string, bool) {
		return firstPresent(row, NameFields)
	}},
	{Name: "kind-name-field", Apply: func(row social.Row, kind social.DataKind) (string, bool) {
		return firstPresent(row, nameFallbacks[kind])
	}},
}

// UID returns the aggregation key of a row. A false result means the row
// carries no usable identifier and must be dropped.
func UID(row social.Row, kind social.DataKind) (string, bool) {
	return run(UIDStrategies, row, kind)
}

// UIDWithRule is UID plus the name of the strategy that matched
func UIDWithRule(row social.Row, kind social.DataKind) (uid string, rule string, ok bool) {
	for _, s := range UIDStrategies {
		if v, ok := s.Apply(row, kind); ok {
			if v == "" {
				return "", s.Name, false
			}
			return v, s.Name, true
		}
	}
	return "", "", false
}

// Name returns the best-effort display name of a row
func Name(row social.Row, kind social.DataKind) (string, bool) {
	return run(NameStrategies, row, kind)
}

func run(strategies []Strategy, row social.Row, kind social.DataKind) (string, bool) {
	for _, s := range strategies {
		if v, ok := s.Apply(row, kind); ok {
			// a matched but empty value still ends the search
			return v, v != ""
		}
	}
	return "", false
}

// firstPresent returns the first truthy scalar among fields
func firstPresent(row social.Row, fields []string) (string, bool) {
	for _, f := range fields {
		v, ok := row.Present(f)
		if !ok {
			continue
		}
		if s, ok := social.Stringify(v); ok {
			return s, true
		}
	}
	return "", false
}

// anyIDColumn scans columns in sheet order for the first key containing
// "id" whose value is a string or a number
func anyIDColumn(row social.Row) (string, bool) {
	for _, f := range row.Fields() {
		if !strings.Contains(strings.ToLower(f.Key), "id") {
			continue
		}
		if !social.IsScalar(f.Value) {
			continue
		}
		s, _ := social.Stringify(f.Value)
		return s, true
	}
	return "", false
}
