package ui

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"uidlens/app"
	"uidlens/domain/core"
	"uidlens/domain/social"
	"uidlens/internal/aggregate"
	apperrors "uidlens/internal/errors"

	"github.com/gin-gonic/gin"
)

const previewRows = 10

// FileView is an uploaded file without its rows
type FileView struct {
	ID           core.ID           `json:"id"`
	Name         string            `json:"name"`
	Type         social.DataKind   `json:"type"`
	TypeLabel    string            `json:"typeLabel"`
	RowCount     int               `json:"rowCount"`
	Processed    bool              `json:"processed"`
	ManualType   bool              `json:"manualType"`
	SourceType   social.SourceType `json:"sourceType"`
	SourceUID    string            `json:"sourceUID,omitempty"`
	UploadDate   time.Time         `json:"uploadDate"`
	UploaderID   string            `json:"uploaderId"`
	UploaderName string            `json:"uploaderName,omitempty"`
	Preview      []social.Row      `json:"preview,omitempty"`
}

func fileView(f social.UploadedFile) FileView {
	return FileView{
		ID:           f.ID,
		Name:         f.Name,
		Type:         f.Type,
		TypeLabel:    social.KindLabel(f.Type),
		RowCount:     f.RowCount,
		Processed:    f.Processed,
		ManualType:   f.ManualType,
		SourceType:   f.SourceType,
		SourceUID:    f.SourceUID,
		UploadDate:   f.UploadDate,
		UploaderID:   f.UploaderID,
		UploaderName: f.UploaderName,
	}
}

func fileViews(files []social.UploadedFile) []FileView {
	out := make([]FileView, 0, len(files))
	for _, f := range files {
		out = append(out, fileView(f))
	}
	return out
}

// ProfileSummary is a profile without its raw rows
type ProfileSummary struct {
	UID               string     `json:"uid"`
	Name              string     `json:"name"`
	FriendsCount      int        `json:"friendsCount"`
	GroupsCount       int        `json:"groupsCount"`
	PostsCount        int        `json:"postsCount"`
	CommentsCount     int        `json:"commentsCount"`
	PagesLikedCount   int        `json:"pagesLikedCount"`
	CheckInsCount     int        `json:"checkInsCount"`
	EventsCount       int        `json:"eventsCount"`
	InteractionsCount int        `json:"interactionsCount"`
	Engagement        int        `json:"engagement"`
	LastActive        *time.Time `json:"lastActive,omitempty"`
	SourceCount       int        `json:"sourceCount"`
}

func profileSummary(p *social.Profile) ProfileSummary {
	return ProfileSummary{
		UID:               p.UID,
		Name:              p.DisplayName(),
		FriendsCount:      p.FriendsCount,
		GroupsCount:       p.GroupsCount,
		PostsCount:        p.PostsCount,
		CommentsCount:     p.CommentsCount,
		PagesLikedCount:   p.PagesLikedCount,
		CheckInsCount:     p.CheckInsCount,
		EventsCount:       p.EventsCount,
		InteractionsCount: p.InteractionsCount,
		Engagement:        p.Engagement(),
		LastActive:        p.LastActive,
		SourceCount:       len(p.Sources),
	}
}

// fileOverrideRequest is the PATCH body; absent fields stay unchanged
type fileOverrideRequest struct {
	Type       *string `json:"type"`
	SourceType *string `json:"sourceType"`
	SourceUID  *string `json:"sourceUid"`
}

func (s *Server) handleKinds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"kinds":       social.KindOptions(),
		"sourceTypes": social.SourceOptions(),
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("[handleUpload] FAILED - request too large: %v", err)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds the size limit"})
			return
		}
		log.Printf("[handleUpload] FAILED - invalid multipart form: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a multipart form"})
		return
	}

	var headers []*multipart.FileHeader
	headers = append(headers, form.File["files[]"]...)
	headers = append(headers, form.File["files"]...)
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	meta, err := uploadMeta(c)
	if err != nil {
		writeError(c, err)
		return
	}

	uploads := make([]app.Upload, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			log.Printf("[handleUpload] FAILED - reading %s: %v", fh.Filename, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read " + fh.Filename})
			return
		}
		uploads = append(uploads, app.Upload{Name: fh.Filename, Content: content})
	}

	result, err := s.workspace.Upload(c.Request.Context(), uploads, meta)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if len(result.Files) == 0 {
		status = http.StatusUnsupportedMediaType
	}
	log.Printf("[handleUpload] accepted %d, rejected %d", len(result.Files), len(result.Rejected))
	c.JSON(status, gin.H{
		"files":    fileViews(result.Files),
		"rejected": result.Rejected,
	})
}

func uploadMeta(c *gin.Context) (app.UploadMeta, error) {
	meta := app.UploadMeta{
		SourceUID:    c.PostForm("sourceUid"),
		UploaderID:   c.PostForm("uploaderId"),
		UploaderName: c.PostForm("uploaderName"),
	}
	source, err := social.ParseSourceType(c.PostForm("sourceType"))
	if err != nil {
		return meta, err
	}
	meta.SourceType = source
	if raw := c.PostForm("type"); raw != "" {
		kind, err := social.ParseKind(raw)
		if err != nil {
			return meta, err
		}
		meta.Type = kind
	}
	return meta, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleListFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": fileViews(s.workspace.Files())})
}

func (s *Server) handleGetFile(c *gin.Context) {
	f, err := s.workspace.File(core.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	view := fileView(f)
	n := len(f.Data)
	if n > previewRows {
		n = previewRows
	}
	view.Preview = f.Data[:n]
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleOverrideFile(c *gin.Context) {
	var req fileOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidInput("invalid JSON body: "+err.Error()))
		return
	}

	var o app.FileOverride
	if req.Type != nil {
		kind, err := social.ParseKind(*req.Type)
		if err != nil {
			writeError(c, err)
			return
		}
		o.Type = &kind
	}
	if req.SourceType != nil {
		source, err := social.ParseSourceType(*req.SourceType)
		if err != nil {
			writeError(c, err)
			return
		}
		o.SourceType = &source
	}
	o.SourceUID = req.SourceUID

	f, err := s.workspace.OverrideFile(c.Request.Context(), core.ID(c.Param("id")), o)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fileView(f))
}

func (s *Server) handleRemoveFile(c *gin.Context) {
	if err := s.workspace.RemoveFile(c.Request.Context(), core.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListProfiles(c *gin.Context) {
	matches := aggregate.Search(s.workspace.Profiles(), c.Query("q"))
	page := aggregate.Paginate(matches, queryInt(c, "page", 1), queryInt(c, "perPage", 20))

	items := make([]ProfileSummary, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, profileSummary(p))
	}
	c.JSON(http.StatusOK, aggregate.Page[ProfileSummary]{
		Items:      items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	p, err := s.workspace.Profile(c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleAnalysis(c *gin.Context) {
	uid := c.Param("uid")
	switch c.DefaultQuery("format", "markdown") {
	case "html":
		body, err := s.analysis.ReportHTML(uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
	case "markdown":
		report, err := s.analysis.Report(uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": uid, "report": report})
	default:
		writeError(c, apperrors.InvalidInput("format must be markdown or html"))
	}
}

func (s *Server) handleInterests(c *gin.Context) {
	interests, err := s.analysis.Interests(c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interests)
}

func (s *Server) handleConnections(c *gin.Context) {
	report, err := s.analysis.Network(c.Request.Context(), c.QueryArray("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.analysis.Stats(queryInt(c, "top", 5))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// queryInt reads a positive integer query parameter, falling back to def
func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// writeError maps err to its HTTP status and a JSON body
func writeError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s %s] %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
