// Package classify infers which kind of social-platform export a spreadsheet holds.
//
// Classification is a fixed-priority keyword match, first on the file name and
// then on the first row's column names. It is deliberately not a scored
// classifier: a file named "friendly_reminder.xlsx" is classified as friends.
package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"uidlens/domain/social"
)

// rule maps substring keywords (English and Vietnamese) to a kind
type rule struct {
	kind     social.DataKind
	keywords []string
}

// nameRules are tried against the lower-cased file name, in order
var nameRules = []rule{
	{social.KindFriends, []string{"friend", "bạn"}},
	{social.KindGroups, []string{"group", "nhóm"}},
	{social.KindPosts, []string{"post", "bài"}},
	{social.KindComments, []string{"comment", "bình luận"}},
	{social.KindPagesLiked, []string{"page", "trang"}},
	{social.KindCheckIns, []string{"check", "location", "địa điểm"}},
	{social.KindProfiles, []string{"profile", "hồ sơ"}},
	{social.KindMessages, []string{"message", "tin nhắn"}},
	{social.KindPhotos, []string{"photo", "ảnh"}},
	{social.KindVideos, []string{"video"}},
	{social.KindEvents, []string{"event", "sự kiện"}},
	{social.KindReactions, []string{"reaction", "biểu cảm"}},
}

// headerRules are tried against the lower-cased column names of the first row.
// Check-ins match on "check" or "địa điểm" only.
var headerRules = []rule{
	{social.KindFriends, []string{"friend", "bạn"}},
	{social.KindGroups, []string{"group", "nhóm"}},
	{social.KindPosts, []string{"post", "bài"}},
	{social.KindComments, []string{"comment", "bình luận"}},
	{social.KindPagesLiked, []string{"page", "trang"}},
	{social.KindCheckIns, []string{"check", "địa điểm"}},
}

// Classifier infers a DataKind from a file name and its rows
type Classifier struct{}

// New creates a classifier
func New() *Classifier {
	return &Classifier{}
}

// Classify returns the kind of the row-set, or KindUnknown.
// The result depends only on fileName and the first row's keys.
func (c *Classifier) Classify(fileName string, rows []social.Row) social.DataKind {
	return Classify(fileName, rows)
}

// Classify is the package-level form of Classifier.Classify
func Classify(fileName string, rows []social.Row) social.DataKind {
	if len(rows) == 0 {
		return social.KindUnknown
	}

	if kind, ok := ByFileName(fileName); ok {
		return kind
	}
	if kind, ok := ByHeaders(rows[0].Keys()); ok {
		return kind
	}
	return social.KindUnknown
}

// ByFileName applies the file-name heuristic alone
func ByFileName(fileName string) (social.DataKind, bool) {
	name := fold(fileName)
	for _, r := range nameRules {
		if containsAny(name, r.keywords) {
			return r.kind, true
		}
	}
	return "", false
}

// ByHeaders applies the column-name heuristic alone
func ByHeaders(headers []string) (social.DataKind, bool) {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = fold(h)
	}
	for _, r := range headerRules {
		for _, h := range lowered {
			if containsAny(h, r.keywords) {
				return r.kind, true
			}
		}
	}
	return "", false
}

// fold lower-cases s in NFC form; file names from macOS arrive decomposed
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
