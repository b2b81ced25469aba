// Package testkit generates deterministic demo exports for the CLI and tests.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"uidlens/domain/core"
	"uidlens/domain/social"
)

// SocialGeneratorConfig configures the demo export generator
type SocialGeneratorConfig struct {
	UserCount        int       `json:"user_count"`
	GroupCount       int       `json:"group_count"`
	PageCount        int       `json:"page_count"`
	AvgFriends       float64   `json:"avg_friends"`
	AvgGroups        float64   `json:"avg_groups"`
	AvgPosts         float64   `json:"avg_posts"`
	AvgComments      float64   `json:"avg_comments"`
	AvgPagesLiked    float64   `json:"avg_pages_liked"`
	CheckInRate      float64   `json:"check_in_rate"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Seed             int64     `json:"seed"`
	UIDPrefix        string    `json:"uid_prefix"`
	FirstUIDSequence int       `json:"first_uid_sequence"`
}

// DefaultSocialConfig returns sensible defaults for demo data generation
func DefaultSocialConfig() SocialGeneratorConfig {
	return SocialGeneratorConfig{
		UserCount:        50,
		GroupCount:       12,
		PageCount:        20,
		AvgFriends:       4,
		AvgGroups:        2,
		AvgPosts:         3,
		AvgComments:      3,
		AvgPagesLiked:    3,
		CheckInRate:      0.4,
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
		Seed:             42,
		UIDPrefix:        "1000",
		FirstUIDSequence: 1,
	}
}

var (
	familyNames = []string{"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ", "Võ", "Đặng", "Bùi", "Đỗ"}
	middleNames = []string{"Văn", "Thị", "Minh", "Ngọc", "Đức", "Thanh", "Hữu", "Thu", "Quốc", "Gia"}
	givenNames  = []string{"An", "Bình", "Chi", "Dũng", "Giang", "Hà", "Hùng", "Lan", "Linh", "Mai", "Nam", "Phúc", "Quân", "Trang", "Tuấn", "Vy"}

	groupTopics = []string{
		"Hội Thể thao phong trào", "Du lịch bụi Việt Nam", "Cộng đồng Công nghệ trẻ",
		"Giáo dục sớm cho con", "Giải trí cuối tuần", "Ẩm thực đường phố Sài Gòn",
		"Thời trang công sở", "Sức khỏe và dinh dưỡng", "Kinh doanh online",
		"Nghệ thuật nhiếp ảnh", "Hội đồng hương Nghệ An", "Chợ đồ cũ Hà Nội",
	}
	pageCategories = []string{"Thể thao", "Du lịch", "Công nghệ", "Giáo dục", "Giải trí", "Ẩm thực", "Thời trang"}
	pageNames      = []string{"Tin nhanh", "Góc nhìn", "Cẩm nang", "Nhật ký", "Câu lạc bộ", "Kênh"}
	places         = []string{"Hồ Gươm, Hà Nội", "Chợ Bến Thành", "Phố cổ Hội An", "Bà Nà Hills", "Vịnh Hạ Long", "Đà Lạt", "Phú Quốc"}
	snippets       = []string{"Hôm nay trời đẹp quá", "Cuối tuần đi đâu đây", "Món này ngon tuyệt", "Chúc mừng năm mới", "Ai đi cùng không", "Cảm ơn mọi người"}
)

// SocialDataGenerator generates friends, groups, posts, comments, liked pages
// and check-in exports over one shared pool of users
type SocialDataGenerator struct {
	config SocialGeneratorConfig
	rng    *rand.Rand
}

type demoUser struct {
	uid  string
	name string
}

type demoGroup struct {
	id   string
	name string
}

type demoPage struct {
	id       string
	name     string
	category string
}

// NewSocialDataGenerator creates a new demo data generator
func NewSocialDataGenerator(config SocialGeneratorConfig) *SocialDataGenerator {
	return &SocialDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateFiles returns one processed upload per kind, in a fixed order.
// The same seed always yields the same files.
func (g *SocialDataGenerator) GenerateFiles() []social.UploadedFile {
	users := g.users()
	groups := g.groups()
	pages := g.pages()

	var friends, memberships, posts, comments, liked, checkIns []social.Row
	for i, u := range users {
		for _, j := range g.pick(len(users), g.count(g.config.AvgFriends), i) {
			f := users[j]
			friends = append(friends, social.RowOf("uid", u.uid, "name", u.name, "friend_uid", f.uid, "friend_name", f.name))
		}
		for _, j := range g.pick(len(groups), g.count(g.config.AvgGroups), -1) {
			gr := groups[j]
			memberships = append(memberships, social.RowOf("uid", u.uid, "group_id", gr.id, "name", gr.name, "joined_at", g.date()))
		}
		for k, n := 0, g.count(g.config.AvgPosts); k < n; k++ {
			posts = append(posts, social.RowOf("uid", u.uid, "post_id", fmt.Sprintf("p%d_%d", i+1, k+1), "content", g.choice(snippets), "posted_at", g.date()))
		}
		for k, n := 0, g.count(g.config.AvgComments); k < n; k++ {
			comments = append(comments, social.RowOf("commenter_id", u.uid, "commenter_name", u.name, "comment", g.choice(snippets), "created_at", g.date()))
		}
		for _, j := range g.pick(len(pages), g.count(g.config.AvgPagesLiked), -1) {
			p := pages[j]
			liked = append(liked, social.RowOf("uid", u.uid, "page_id", p.id, "page_name", p.name, "category", p.category))
		}
		if g.rng.Float64() < g.config.CheckInRate {
			checkIns = append(checkIns, social.RowOf("uid", u.uid, "location", g.choice(places), "timestamp", g.date()))
		}
	}

	return []social.UploadedFile{
		demoFile("friends.csv", social.KindFriends, friends),
		demoFile("groups.csv", social.KindGroups, memberships),
		demoFile("posts.csv", social.KindPosts, posts),
		demoFile("comments.csv", social.KindComments, comments),
		demoFile("pages_liked.csv", social.KindPagesLiked, liked),
		demoFile("check_ins.csv", social.KindCheckIns, checkIns),
	}
}

func demoFile(name string, kind social.DataKind, rows []social.Row) social.UploadedFile {
	if rows == nil {
		rows = []social.Row{}
	}
	return social.UploadedFile{
		ID:         core.ID("demo-" + string(kind)),
		Name:       name,
		Type:       kind,
		Data:       rows,
		RowCount:   len(rows),
		Processed:  true,
		SourceType: social.SourceProfile,
		UploaderID: "demo",
	}
}

func (g *SocialDataGenerator) users() []demoUser {
	users := make([]demoUser, g.config.UserCount)
	for i := range users {
		users[i] = demoUser{
			uid:  fmt.Sprintf("%s%06d", g.config.UIDPrefix, g.config.FirstUIDSequence+i),
			name: g.choice(familyNames) + " " + g.choice(middleNames) + " " + g.choice(givenNames),
		}
	}
	return users
}

func (g *SocialDataGenerator) groups() []demoGroup {
	groups := make([]demoGroup, g.config.GroupCount)
	for i := range groups {
		groups[i] = demoGroup{
			id:   fmt.Sprintf("g%03d", i+1),
			name: groupTopics[i%len(groupTopics)],
		}
	}
	return groups
}

func (g *SocialDataGenerator) pages() []demoPage {
	pages := make([]demoPage, g.config.PageCount)
	for i := range pages {
		category := pageCategories[i%len(pageCategories)]
		pages[i] = demoPage{
			id:       fmt.Sprintf("pg%03d", i+1),
			name:     g.choice(pageNames) + " " + category,
			category: category,
		}
	}
	return pages
}

// count draws a non-negative count around avg
func (g *SocialDataGenerator) count(avg float64) int {
	n := int(math.Round(avg + g.rng.NormFloat64()))
	if n < 0 {
		return 0
	}
	return n
}

// pick returns up to k distinct indices below n, never exclude
func (g *SocialDataGenerator) pick(n, k, exclude int) []int {
	perm := g.rng.Perm(n)
	out := make([]int, 0, k)
	for _, idx := range perm {
		if len(out) == k {
			break
		}
		if idx != exclude {
			out = append(out, idx)
		}
	}
	return out
}

func (g *SocialDataGenerator) choice(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// date returns a random moment in the configured window as an ISO string
func (g *SocialDataGenerator) date() string {
	span := g.config.EndDate.Sub(g.config.StartDate)
	if span <= 0 {
		return g.config.StartDate.Format(time.RFC3339)
	}
	offset := time.Duration(g.rng.Int63n(int64(span)))
	return g.config.StartDate.Add(offset).Truncate(time.Minute).Format(time.RFC3339)
}

// WriteCSV writes each file to dir under its own name. The header is the
// union of the rows' keys in first-seen order; missing cells stay empty.
func WriteCSV(dir string, files []social.UploadedFile) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := writeRows(path, f.Data); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeRows(path string, rows []social.Row) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	var header []string
	index := make(map[string]int)
	for _, row := range rows {
		for _, k := range row.Keys() {
			if _, ok := index[k]; !ok {
				index[k] = len(header)
				header = append(header, k)
			}
		}
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for _, field := range row.Fields() {
			if s, ok := social.Stringify(field.Value); ok {
				record[index[field.Key]] = s
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
