// Package analysis holds the rule-based heuristics run over aggregated
// profiles: pairwise connections, interest categories and the per-profile
// report.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"uidlens/domain/social"
	"uidlens/internal"
	"uidlens/internal/chunk"
)

const (
	friendWeight      = 10
	sharedGroupWeight = 2
)

// Insight sentences
const (
	insightFound    = "Phân tích mạng lưới: Tìm thấy %d kết nối giữa các người dùng."
	insightNone     = "Không tìm thấy kết nối giữa các người dùng."
	insightFailed   = "Không thể phân tích dữ liệu. Xảy ra lỗi trong quá trình xử lý."
	reportFailed    = "Không thể tạo phân tích. Xảy ra lỗi trong quá trình xử lý."
	unknownNameText = "Không xác định"
)

var logger = internal.DefaultLogger.Named("Analysis")

// ConnectionFinder scores every unordered pair of profiles
type ConnectionFinder struct {
	ChunkSize int
}

// FindConnections runs a ConnectionFinder with the default chunk size
func FindConnections(ctx context.Context, users []*social.Profile) (social.ConnectionReport, error) {
	return (&ConnectionFinder{ChunkSize: chunk.DefaultSize}).Find(ctx, users)
}

// Find evaluates pairs (i, j), i < j, in input order. Only u1's friends are
// checked against u2, so friendship is detected in one direction per pair.
//
// A panic while scoring is logged and turned into a report with no
// connections and the failure sentence. Cancellation is returned as an error.
func (f *ConnectionFinder) Find(ctx context.Context, users []*social.Profile) (report social.ConnectionReport, err error) {
	connections := make([]social.Connection, 0)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("finding connections across %d profiles: %v", len(users), r)
			report = social.ConnectionReport{Connections: []social.Connection{}, Insights: insightFailed}
			err = nil
		}
	}()

	groupKeys := make([]map[string]struct{}, len(users))
	for i, u := range users {
		groupKeys[i] = groupKeySet(u.Data.Groups)
	}

	err = chunk.Pairs(ctx, len(users), f.ChunkSize, func(i, j int) error {
		if c, ok := score(users[i], users[j], groupKeys[i]); ok {
			connections = append(connections, c)
		}
		return nil
	})
	if err != nil {
		return social.ConnectionReport{}, err
	}

	return social.ConnectionReport{
		Connections: connections,
		Insights:    Insight(len(connections)),
	}, nil
}

// Insight is the fixed summary sentence for a connection count
func Insight(n int) string {
	if n > 0 {
		return fmt.Sprintf(insightFound, n)
	}
	return insightNone
}

func score(u1, u2 *social.Profile, u1Groups map[string]struct{}) (social.Connection, bool) {
	strength := 0
	var types []string

	if listsFriend(u1, u2.UID) {
		strength += friendWeight
		types = append(types, "friend")
	}

	shared := 0
	for _, g := range u2.Data.Groups {
		if key, ok := groupKey(g); ok {
			if _, hit := u1Groups[key]; hit {
				shared++
			}
		}
	}
	if shared > 0 {
		strength += sharedGroupWeight * shared
		types = append(types, fmt.Sprintf("%d shared groups", shared))
	}

	if strength <= 0 {
		return social.Connection{}, false
	}
	return social.Connection{
		Source:   u1.UID,
		Target:   u2.UID,
		Strength: strength,
		Type:     strings.Join(types, ", "),
	}, true
}

// listsFriend reports whether any friend row carries a string uid equal to uid
func listsFriend(p *social.Profile, uid string) bool {
	for _, row := range p.Data.Friends {
		if v, ok := row.Get("uid"); ok {
			if s, ok := v.(string); ok && s == uid {
				return true
			}
		}
	}
	return false
}

func groupKeySet(groups []social.Row) map[string]struct{} {
	set := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if key, ok := groupKey(g); ok {
			set[key] = struct{}{}
		}
	}
	return set
}

// groupKey identifies a group row by group_id, else id. Keys are tagged
// with the value's type so "1" and 1 stay distinct. Rows with neither
// have no key and never count as shared.
func groupKey(row social.Row) (string, bool) {
	v, ok := row.Present("group_id")
	if !ok {
		v, ok = row.Present("id")
	}
	if !ok {
		return "", false
	}
	s, ok := social.Stringify(v)
	if !ok {
		return "", false
	}
	if social.IsNumber(v) {
		return "n:" + s, true
	}
	return fmt.Sprintf("%T:%s", v, s), true
}
