package social

import "time"

// Profile is the unified, counter-annotated view of one UID.
// Every XCount equals len(Data.X) at all times; only Record mutates both.
type Profile struct {
	UID               string      `json:"uid"`
	Name              string      `json:"name,omitempty"`
	FriendsCount      int         `json:"friendsCount"`
	GroupsCount       int         `json:"groupsCount"`
	PostsCount        int         `json:"postsCount"`
	CommentsCount     int         `json:"commentsCount"`
	PagesLikedCount   int         `json:"pagesLikedCount"`
	CheckInsCount     int         `json:"checkInsCount"`
	EventsCount       int         `json:"eventsCount"`
	InteractionsCount int         `json:"interactionsCount"`
	LastActive        *time.Time  `json:"lastActive,omitempty"`
	Sources           []UIDSource `json:"sources"`
	Data              Buckets     `json:"data"`
}

// Buckets holds the raw rows assigned to a profile, per kind
type Buckets struct {
	Friends      []Row `json:"friends"`
	Groups       []Row `json:"groups"`
	Posts        []Row `json:"posts"`
	Comments     []Row `json:"comments"`
	PagesLiked   []Row `json:"pagesLiked"`
	CheckIns     []Row `json:"checkIns"`
	Events       []Row `json:"events"`
	Interactions []Row `json:"interactions"`
}

// NewProfile creates an empty profile
func NewProfile(uid, name string) *Profile {
	return &Profile{
		UID:     uid,
		Name:    name,
		Sources: []UIDSource{},
		Data: Buckets{
			Friends:      []Row{},
			Groups:       []Row{},
			Posts:        []Row{},
			Comments:     []Row{},
			PagesLiked:   []Row{},
			CheckIns:     []Row{},
			Events:       []Row{},
			Interactions: []Row{},
		},
	}
}

// HasBucket reports whether rows of this kind are counted on a profile
func HasBucket(kind DataKind) bool {
	switch kind {
	case KindFriends, KindGroups, KindPosts, KindComments, KindPagesLiked,
		KindCheckIns, KindEvents, KindInteractions:
		return true
	}
	return false
}

// Record appends row to the bucket for kind and bumps its counter.
// Kinds without a bucket are ignored and report false.
func (p *Profile) Record(kind DataKind, row Row) bool {
	switch kind {
	case KindFriends:
		p.FriendsCount++
		p.Data.Friends = append(p.Data.Friends, row)
	case KindGroups:
		p.GroupsCount++
		p.Data.Groups = append(p.Data.Groups, row)
	case KindPosts:
		p.PostsCount++
		p.Data.Posts = append(p.Data.Posts, row)
	case KindComments:
		p.CommentsCount++
		p.Data.Comments = append(p.Data.Comments, row)
	case KindPagesLiked:
		p.PagesLikedCount++
		p.Data.PagesLiked = append(p.Data.PagesLiked, row)
	case KindCheckIns:
		p.CheckInsCount++
		p.Data.CheckIns = append(p.Data.CheckIns, row)
	case KindEvents:
		p.EventsCount++
		p.Data.Events = append(p.Data.Events, row)
	case KindInteractions:
		p.InteractionsCount++
		p.Data.Interactions = append(p.Data.Interactions, row)
	default:
		return false
	}
	return true
}

// Touch moves LastActive forward when at is strictly later
func (p *Profile) Touch(at time.Time) {
	if p.LastActive == nil || at.After(*p.LastActive) {
		t := at
		p.LastActive = &t
	}
}

// Engagement is the sum of the six headline counters
func (p *Profile) Engagement() int {
	return p.FriendsCount + p.GroupsCount + p.PostsCount +
		p.CommentsCount + p.PagesLikedCount + p.CheckInsCount
}

// DisplayName returns the name, or the first 8 characters of the UID
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	r := []rune(p.UID)
	if len(r) > 8 {
		return string(r[:8])
	}
	return p.UID
}
