package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"uidlens/domain/social"
)

// Statistics are the dashboard totals across all profiles
type Statistics struct {
	TotalUsers      int `json:"totalUsers"`
	TotalFriends    int `json:"totalFriends"`
	TotalGroups     int `json:"totalGroups"`
	TotalPosts      int `json:"totalPosts"`
	TotalComments   int `json:"totalComments"`
	TotalPagesLiked int `json:"totalPagesLiked"`
	TotalCheckIns   int `json:"totalCheckIns"`
}

// Totals sums the headline counters
func Totals(profiles []*social.Profile) Statistics {
	var s Statistics
	for _, p := range profiles {
		s.TotalUsers++
		s.TotalFriends += p.FriendsCount
		s.TotalGroups += p.GroupsCount
		s.TotalPosts += p.PostsCount
		s.TotalComments += p.CommentsCount
		s.TotalPagesLiked += p.PagesLikedCount
		s.TotalCheckIns += p.CheckInsCount
	}
	return s
}

// RankedUser is one entry of the engagement leaderboard
type RankedUser struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Engagement int    `json:"engagement"`
}

// TopUsers ranks profiles by engagement, keeping input order on ties
func TopUsers(profiles []*social.Profile, n int) []RankedUser {
	ranked := make([]RankedUser, len(profiles))
	for i, p := range profiles {
		ranked[i] = RankedUser{UID: p.UID, Name: p.DisplayName(), Engagement: p.Engagement()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement > ranked[j].Engagement
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Distribution describes how engagement is spread across profiles
type Distribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summarize computes the engagement distribution. An empty input yields
// a zero Distribution.
func Summarize(profiles []*social.Profile) (Distribution, error) {
	var d Distribution
	if len(profiles) == 0 {
		return d, nil
	}

	data := make(stats.Float64Data, len(profiles))
	for i, p := range profiles {
		data[i] = float64(p.Engagement())
	}

	var err error
	if d.Mean, err = stats.Mean(data); err != nil {
		return d, err
	}
	if d.Median, err = stats.Median(data); err != nil {
		return d, err
	}
	if d.P90, err = stats.Percentile(data, 90); err != nil {
		return d, err
	}
	if d.Max, err = stats.Max(data); err != nil {
		return d, err
	}
	return d, nil
}
