package app

import (
	"context"

	"uidlens/domain/social"
	"uidlens/internal/aggregate"
	"uidlens/internal/analysis"
	apperrors "uidlens/internal/errors"
)

// ProfileSource supplies the current profiles
type ProfileSource interface {
	Profiles() []*social.Profile
	Profile(uid string) (*social.Profile, error)
}

// AnalysisService runs the heuristic analyses over the current profiles
type AnalysisService struct {
	profiles ProfileSource
	finder   *analysis.ConnectionFinder
}

// NetworkReport is the connection analysis plus its clusters
type NetworkReport struct {
	social.ConnectionReport
	Clusters []analysis.Cluster `json:"clusters"`
}

// StatsReport bundles the dashboard numbers
type StatsReport struct {
	Totals       aggregate.Statistics   `json:"totals"`
	TopUsers     []aggregate.RankedUser `json:"topUsers"`
	Distribution aggregate.Distribution `json:"engagement"`
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(profiles ProfileSource, chunkSize int) *AnalysisService {
	return &AnalysisService{
		profiles: profiles,
		finder:   &analysis.ConnectionFinder{ChunkSize: chunkSize},
	}
}

// Report composes the markdown report for one UID
func (s *AnalysisService) Report(uid string) (string, error) {
	p, err := s.profiles.Profile(uid)
	if err != nil {
		return "", err
	}
	return analysis.Compose(p), nil
}

// ReportHTML composes the report and renders it as HTML
func (s *AnalysisService) ReportHTML(uid string) (string, error) {
	report, err := s.Report(uid)
	if err != nil {
		return "", err
	}
	return analysis.RenderHTML(report), nil
}

// Interests categorizes one profile's pages and groups
func (s *AnalysisService) Interests(uid string) (social.InterestProfile, error) {
	p, err := s.profiles.Profile(uid)
	if err != nil {
		return social.InterestProfile{}, err
	}
	return analysis.Categorize(p), nil
}

// Network finds connections among the given UIDs, in the given order, or
// among all profiles when uids is empty
func (s *AnalysisService) Network(ctx context.Context, uids []string) (*NetworkReport, error) {
	users := s.profiles.Profiles()
	if len(uids) > 0 {
		users = make([]*social.Profile, 0, len(uids))
		seen := make(map[string]bool, len(uids))
		for _, uid := range uids {
			if seen[uid] {
				continue
			}
			seen[uid] = true
			p, err := s.profiles.Profile(uid)
			if err != nil {
				return nil, err
			}
			users = append(users, p)
		}
	}

	report, err := s.finder.Find(ctx, users)
	if err != nil {
		return nil, apperrors.Wrap(err, "connection analysis interrupted")
	}
	return &NetworkReport{
		ConnectionReport: report,
		Clusters:         analysis.Clusters(users, report.Connections),
	}, nil
}

// Stats computes totals, the engagement leaderboard and its distribution
func (s *AnalysisService) Stats(top int) (*StatsReport, error) {
	profiles := s.profiles.Profiles()
	dist, err := aggregate.Summarize(profiles)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to summarize engagement")
	}
	return &StatsReport{
		Totals:       aggregate.Totals(profiles),
		TopUsers:     aggregate.TopUsers(profiles, top),
		Distribution: dist,
	}, nil
}
