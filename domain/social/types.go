// Package social holds the data model for uploaded social-platform exports
// and the per-UID profiles aggregated from them.
package social

import (
	"fmt"
	"strings"
	"time"

	"uidlens/domain/core"
)

// DataKind is the semantic category of an uploaded row-set
type DataKind string

const (
	KindFriends       DataKind = "friends"
	KindGroups        DataKind = "groups"
	KindPosts         DataKind = "posts"
	KindComments      DataKind = "comments"
	KindGroupPosts    DataKind = "group_posts"
	KindGroupComments DataKind = "group_comments"
	KindPageComments  DataKind = "page_comments"
	KindPagesLiked    DataKind = "pages_liked"
	KindCheckIns      DataKind = "check_ins"
	KindEvents        DataKind = "events"
	KindInteractions  DataKind = "interactions"
	KindProfiles      DataKind = "profiles"
	KindMessages      DataKind = "messages"
	KindPhotos        DataKind = "photos"
	KindVideos        DataKind = "videos"
	KindReactions     DataKind = "reactions"
	KindUnknown       DataKind = "unknown"
)

// AllKinds lists every kind in display order
var AllKinds = []DataKind{
	KindFriends, KindGroups, KindPosts, KindGroupPosts, KindComments, KindGroupComments,
	KindPageComments, KindPagesLiked, KindCheckIns, KindEvents, KindInteractions,
	KindProfiles, KindMessages, KindPhotos, KindVideos, KindReactions, KindUnknown,
}

// ParseKind validates a kind name
func ParseKind(s string) (DataKind, error) {
	k := DataKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidKind, s)
}

// SourceType says what kind of subject an upload describes
type SourceType string

const (
	SourceProfile SourceType = "uid_profile"
	SourcePage    SourceType = "page"
	SourceGroup   SourceType = "group"
)

// AllSourceTypes lists source types in display order
var AllSourceTypes = []SourceType{SourceProfile, SourcePage, SourceGroup}

// ParseSourceType validates a source type; empty input means a personal profile
func ParseSourceType(s string) (SourceType, error) {
	st := SourceType(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return SourceProfile, nil
	}
	for _, known := range AllSourceTypes {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidSource, s)
}

// UploadedFile is one user-submitted spreadsheet after raw parsing
type UploadedFile struct {
	ID           core.ID    `json:"id"`
	Name         string     `json:"name"`
	Type         DataKind   `json:"type"`
	Data         []Row      `json:"data"`
	RowCount     int        `json:"rowCount"`
	Processed    bool       `json:"processed"`
	ManualType   bool       `json:"manualType"`
	SourceType   SourceType `json:"sourceType"`
	SourceUID    string     `json:"sourceUID,omitempty"`
	UploadDate   time.Time  `json:"uploadDate"`
	UploaderID   string     `json:"uploaderId"`
	UploaderName string     `json:"uploaderName,omitempty"`
}

// UIDSource records that an uploaded file contributed data about a UID
type UIDSource struct {
	FileName   string     `json:"fileName"`
	FileType   DataKind   `json:"fileType"`
	Timestamp  time.Time  `json:"timestamp"`
	SourceType SourceType `json:"sourceType,omitempty"`
	SourceUID  string     `json:"sourceUID,omitempty"`
}

// SourceFrom builds the provenance entry for a file
func SourceFrom(f *UploadedFile) UIDSource {
	return UIDSource{
		FileName:   f.Name,
		FileType:   f.Type,
		Timestamp:  f.UploadDate,
		SourceType: f.SourceType,
		SourceUID:  f.SourceUID,
	}
}

// Connection is a derived relationship between two profiles
type Connection struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Strength int    `json:"strength"`
	Type     string `json:"type"`
}

// ConnectionReport is the network-analysis result over a set of profiles
type ConnectionReport struct {
	Connections []Connection `json:"connections"`
	Insights    string       `json:"insights"`
}

// InterestProfile buckets liked pages and joined groups into categories
type InterestProfile struct {
	Categories   map[string]int `json:"categories"`
	TopInterests []string       `json:"topInterests"`
}

// Snapshot is what the persistence port loads and saves
type Snapshot struct {
	WorkspaceID string         `json:"workspaceId"`
	Files       []UploadedFile `json:"files"`
	Profiles    []*Profile     `json:"profiles"`
	SavedAt     time.Time      `json:"savedAt"`
}
