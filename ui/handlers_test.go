package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uidlens/adapters/excel"
	"uidlens/adapters/memory"
	"uidlens/app"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	workspace := app.NewWorkspaceService(excel.NewDataReader(), memory.NewSnapshotStore(), app.WorkspaceOptions{
		WorkspaceID:  "test",
		ChunkSize:    100,
		ParseWorkers: 2,
	})
	analysis := app.NewAnalysisService(workspace, 100)
	return NewApp(Config{Port: "0", CORSOrigins: []string{"*"}}, NewServer(workspace, analysis, 1))
}

type part struct {
	name string
	body string
}

func uploadRequest(t *testing.T, fields map[string]string, files ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile("files[]", f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

const (
	friendsCSV = "uid,name\n1,Anh\n2,Binh\n"
	groupsCSV  = "uid,group_id,name\n1,g1,Du lịch bụi\n2,g1,Du lịch bụi\n"
)

func seed(t *testing.T, a *App) []FileView {
	t.Helper()
	rec := serve(a, uploadRequest(t, map[string]string{"uploaderId": "u-1"},
		part{"friends_list.csv", friendsCSV},
		part{"my_groups.csv", groupsCSV},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Files    []FileView      `json:"files"`
		Rejected []app.Rejection `json:"rejected"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Files, 2)
	return body.Files
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestApp(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestKinds(t *testing.T) {
	rec := serve(newTestApp(t), httptest.NewRequest(http.MethodGet, "/api/kinds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Kinds       []map[string]string `json:"kinds"`
		SourceTypes []map[string]string `json:"sourceTypes"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "friends", body.Kinds[0]["value"])
	assert.Equal(t, "Danh sách bạn bè", body.Kinds[0]["label"])
	assert.Len(t, body.SourceTypes, 3)
}

func TestUploadAndListFiles(t *testing.T) {
	a := newTestApp(t)
	files := seed(t, a)
	assert.Equal(t, "friends", string(files[0].Type))
	assert.Equal(t, "groups", string(files[1].Type))
	assert.Equal(t, 2, files[0].RowCount)
	assert.Equal(t, "u-1", files[0].UploaderID)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"data"`)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/files/"+files[0].ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view FileView
	decode(t, rec, &view)
	assert.Len(t, view.Preview, 2)
}

func TestUploadRejectsUnsupportedFiles(t *testing.T) {
	rec := serve(newTestApp(t), uploadRequest(t, nil, part{"notes.txt", "hello"}))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	var body struct {
		Rejected []app.Rejection `json:"rejected"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Rejected, 1)
	assert.Equal(t, "UNSUPPORTED_FILE", body.Rejected[0].Code)
}

func TestUploadValidatesForm(t *testing.T) {
	a := newTestApp(t)

	rec := serve(a, uploadRequest(t, map[string]string{"sourceType": "planet"}, part{"a.csv", friendsCSV}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(a, uploadRequest(t, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(a, uploadRequest(t, nil, part{"big.csv", strings.Repeat("x", 2<<20)}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestOverrideAndRemoveFile(t *testing.T) {
	a := newTestApp(t)
	files := seed(t, a)

	req := httptest.NewRequest(http.MethodPatch, "/api/files/"+files[0].ID.String(),
		strings.NewReader(`{"type":"pages_liked","sourceType":"page","sourceUid":"p-1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view FileView
	decode(t, rec, &view)
	assert.Equal(t, "pages_liked", string(view.Type))
	assert.True(t, view.ManualType)
	assert.Equal(t, "p-1", view.SourceUID)

	req = httptest.NewRequest(http.MethodPatch, "/api/files/"+files[0].ID.String(), strings.NewReader(`{"type":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(a, req).Code)

	rec = serve(a, httptest.NewRequest(http.MethodDelete, "/api/files/"+files[1].ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(a, httptest.NewRequest(http.MethodDelete, "/api/files/"+files[1].ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestProfilesSearchAndPaging(t *testing.T) {
	a := newTestApp(t)
	seed(t, a)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles?q=binh&perPage=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []ProfileSummary `json:"items"`
		Total int              `json:"total"`
	}
	decode(t, rec, &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "2", page.Items[0].UID)
	assert.Equal(t, 2, page.Items[0].Engagement)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"groupsCount":1`)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles/404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles?page=2&perPage=9223372036854775807", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"perPage":1000`)
}

func TestAnalysisEndpoints(t *testing.T) {
	a := newTestApp(t)
	seed(t, a)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles/1/analysis", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var md struct {
		Report string `json:"report"`
	}
	decode(t, rec, &md)
	assert.True(t, strings.HasPrefix(md.Report, "# Phân tích UID: 1"))

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles/1/analysis?format=html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1")

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles/1/analysis?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/profiles/1/interests", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Du lịch")

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/connections?uid=1&uid=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var network struct {
		Connections []map[string]any `json:"connections"`
		Insights    string           `json:"insights"`
		Clusters    []map[string]any `json:"clusters"`
	}
	decode(t, rec, &network)
	require.Len(t, network.Connections, 1)
	assert.Equal(t, "1 shared groups", network.Connections[0]["type"])
	assert.Len(t, network.Clusters, 1)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/stats?top=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats app.StatsReport
	decode(t, rec, &stats)
	assert.Equal(t, 2, stats.Totals.TotalUsers)
	assert.Len(t, stats.TopUsers, 1)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/files", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := serve(newTestApp(t), req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
