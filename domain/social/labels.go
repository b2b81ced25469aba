package social

// Option pairs a stored value with its display label
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var kindLabels = map[DataKind]string{
	KindFriends:       "Danh sách bạn bè",
	KindGroups:        "Danh sách nhóm",
	KindPosts:         "Danh sách bài đăng",
	KindGroupPosts:    "Bài đăng trên nhóm",
	KindComments:      "Bình luận trên tường",
	KindGroupComments: "Bình luận trên nhóm",
	KindPageComments:  "Bình luận trên trang",
	KindPagesLiked:    "Danh sách trang đã thích",
	KindCheckIns:      "Danh sách địa điểm đã check-in",
	KindEvents:        "Sự kiện đã tham gia",
	KindInteractions:  "Tương tác với người dùng khác",
	KindProfiles:      "Thông tin hồ sơ người dùng",
	KindMessages:      "Tin nhắn và cuộc trò chuyện",
	KindPhotos:        "Ảnh đã đăng",
	KindVideos:        "Video đã đăng",
	KindReactions:     "Các biểu cảm (reaction)",
	KindUnknown:       "Không xác định",
}

var sourceLabels = map[SourceType]string{
	SourceProfile: "Hồ sơ người dùng",
	SourcePage:    "Trang",
	SourceGroup:   "Nhóm",
}

// KindLabel returns the display label of a kind
func KindLabel(k DataKind) string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return kindLabels[KindUnknown]
}

// SourceLabel returns the display label of a source type
func SourceLabel(s SourceType) string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}
	return string(s)
}

// KindOptions lists kinds with labels in display order
func KindOptions() []Option {
	out := make([]Option, 0, len(AllKinds))
	for _, k := range AllKinds {
		out = append(out, Option{Value: string(k), Label: KindLabel(k)})
	}
	return out
}

// SourceOptions lists source types with labels in display order
func SourceOptions() []Option {
	out := make([]Option, 0, len(AllSourceTypes))
	for _, s := range AllSourceTypes {
		out = append(out, Option{Value: string(s), Label: SourceLabel(s)})
	}
	return out
}
