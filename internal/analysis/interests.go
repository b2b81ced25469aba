package analysis

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"uidlens/domain/social"
)

// OtherCategory collects pages and groups that match no keyword
const OtherCategory = "Khác"

// Categories are the group-name keywords, tested in order
var Categories = []string{
	"Thể thao",
	"Du lịch",
	"Công nghệ",
	"Giáo dục",
	"Giải trí",
	"Ẩm thực",
	"Thời trang",
	"Sức khỏe",
	"Kinh doanh",
	"Nghệ thuật",
}

const topInterestLimit = 5

// Categorize buckets liked pages by their category column and joined groups
// by keyword match on the group name. Groups without a name are skipped.
func Categorize(p *social.Profile) social.InterestProfile {
	counts := make(map[string]int)
	var seen []string
	bump := func(category string) {
		if _, ok := counts[category]; !ok {
			seen = append(seen, category)
		}
		counts[category]++
	}

	for _, page := range p.Data.PagesLiked {
		category := OtherCategory
		if v, ok := page.Present("category"); ok {
			if s, ok := social.Stringify(v); ok {
				category = s
			}
		}
		bump(category)
	}

	for _, group := range p.Data.Groups {
		v, ok := group.Present("name")
		if !ok {
			continue
		}
		name, ok := social.Stringify(v)
		if !ok {
			continue
		}
		bump(matchCategory(name))
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return counts[seen[i]] > counts[seen[j]]
	})
	top := seen
	if len(top) > topInterestLimit {
		top = top[:topInterestLimit]
	}

	return social.InterestProfile{
		Categories:   counts,
		TopInterests: append([]string{}, top...),
	}
}

func matchCategory(name string) string {
	lower := fold(name)
	for _, c := range Categories {
		if strings.Contains(lower, fold(c)) {
			return c
		}
	}
	return OtherCategory
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
