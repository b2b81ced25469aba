package analysis

import (
	"fmt"
	"strings"

	"uidlens/domain/social"
)

// DateLayout renders dates day-first
const DateLayout = "2/1/2006"

// Basics renders the basic-facts lines of a profile. A panic while
// rendering is logged and replaced by the failure sentence.
func Basics(p *social.Profile) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analyzing profile: %v", r)
			text = insightFailed
		}
	}()
	return strings.Join(basicLines(p), "\n")
}

func basicLines(p *social.Profile) []string {
	name := p.Name
	if name == "" {
		name = unknownNameText
	}
	lines := []string{
		"UID: " + p.UID,
		"Tên: " + name,
	}
	if p.LastActive != nil {
		lines = append(lines, "Hoạt động cuối: "+p.LastActive.Format(DateLayout))
	}
	lines = append(lines,
		fmt.Sprintf("Số lượng nguồn dữ liệu: %d", len(p.Sources)),
		"Loại dữ liệu: "+strings.Join(sourceKinds(p.Sources), ", "),
	)

	counted := []struct {
		n      int
		format string
	}{
		{p.FriendsCount, "Có %d bạn bè"},
		{p.GroupsCount, "Tham gia %d nhóm"},
		{p.PostsCount, "Đã đăng %d bài viết"},
		{p.CommentsCount, "Đã bình luận %d lần"},
		{p.CheckInsCount, "Đã check-in tại %d địa điểm"},
		{p.PagesLikedCount, "Đã thích %d trang"},
	}
	for _, c := range counted {
		if c.n > 0 {
			lines = append(lines, fmt.Sprintf(c.format, c.n))
		}
	}
	return lines
}

// sourceKinds lists distinct contributing file kinds in discovery order
func sourceKinds(sources []social.UIDSource) []string {
	seen := make(map[social.DataKind]bool, len(sources))
	kinds := make([]string, 0, len(sources))
	for _, s := range sources {
		if !seen[s.FileType] {
			seen[s.FileType] = true
			kinds = append(kinds, string(s.FileType))
		}
	}
	return kinds
}

// Compose builds the markdown report for one profile: basic facts, top
// interests, activity pattern and missing data, each section only when it
// applies. Compose never fails; a nil profile or a panic yields the fixed
// failure sentence.
func Compose(p *social.Profile) (report string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("generating analysis: %v", r)
			report = reportFailed
		}
	}()

	basics := Basics(p)
	interests := Categorize(p)

	var b strings.Builder
	fmt.Fprintf(&b, "# Phân tích UID: %s\n\n", p.UID)
	fmt.Fprintf(&b, "## Thông tin cơ bản\n%s\n\n", basics)

	if len(interests.TopInterests) > 0 {
		fmt.Fprintf(&b, "## Sở thích chính\n%s\n\n", strings.Join(interests.TopInterests, ", "))
	}

	if p.PostsCount > 0 || p.CommentsCount > 0 {
		b.WriteString("## Mẫu hoạt động\n")
		fmt.Fprintf(&b, "Tổng số hoạt động: %d\n", p.PostsCount+p.CommentsCount)
	}

	if missing := MissingData(p); len(missing) > 0 {
		fmt.Fprintf(&b, "\n## Dữ liệu còn thiếu\nCần bổ sung thêm dữ liệu về: %s\n", strings.Join(missing, ", "))
	}

	return b.String()
}

// MissingData names the core categories with no rows
func MissingData(p *social.Profile) []string {
	var missing []string
	if p.FriendsCount == 0 {
		missing = append(missing, "bạn bè")
	}
	if p.GroupsCount == 0 {
		missing = append(missing, "nhóm")
	}
	if p.PostsCount == 0 {
		missing = append(missing, "bài đăng")
	}
	if p.CommentsCount == 0 {
		missing = append(missing, "bình luận")
	}
	return missing
}
