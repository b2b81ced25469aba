package ui

import (
	"log"
	"net/http"

	"uidlens/app"

	"github.com/gin-gonic/gin"
)

// Server serves the JSON API for one workspace
type Server struct {
	router    *gin.Engine
	workspace *app.WorkspaceService
	analysis  *app.AnalysisService
	maxUpload int64
}

// NewServer creates the API server. maxUploadMB bounds one upload request.
func NewServer(workspace *app.WorkspaceService, analysis *app.AnalysisService, maxUploadMB int) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = int64(maxUploadMB) << 20

	s := &Server{
		router:    router,
		workspace: workspace,
		analysis:  analysis,
		maxUpload: int64(maxUploadMB) << 20,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/kinds", s.handleKinds)

	// Uploaded files
	api.POST("/files", s.handleUpload)
	api.GET("/files", s.handleListFiles)
	api.GET("/files/:id", s.handleGetFile)
	api.PATCH("/files/:id", s.handleOverrideFile)
	api.DELETE("/files/:id", s.handleRemoveFile)

	// Profiles and analysis
	api.GET("/profiles", s.handleListProfiles)
	api.GET("/profiles/:uid", s.handleGetProfile)
	api.GET("/profiles/:uid/analysis", s.handleAnalysis)
	api.GET("/profiles/:uid/interests", s.handleInterests)
	api.GET("/connections", s.handleConnections)
	api.GET("/stats", s.handleStats)
}

// Handler exposes the API as a plain http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the API on its own, without the outer middleware stack
func (s *Server) Start(addr string) error {
	log.Printf("Starting uidlens API on http://%s", addr)
	return s.router.Run(addr)
}
