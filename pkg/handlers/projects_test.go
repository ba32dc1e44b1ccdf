package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/config"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/storage"
)

type projectsTestServer struct {
	mux      *http.ServeMux
	auth     *testAuth
	projects *mockProjectService
	votes    *mockVoteService
	comments *mockCommentService
}

func newProjectsTestServer(t *testing.T) *projectsTestServer {
	t.Helper()

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ta := newTestAuth(t)
	srv := &projectsTestServer{
		mux:      http.NewServeMux(),
		auth:     ta,
		projects: &mockProjectService{},
		votes:    &mockVoteService{},
		comments: &mockCommentService{},
	}

	uploads := config.UploadsConfig{Dir: "unused", MaxFiles: 3, MaxBytes: 1 << 20}
	h := NewProjectsHandler(srv.projects, srv.votes, srv.comments, files, uploads, ta.mw, zap.NewNop())
	h.RegisterRoutes(srv.mux)
	return srv
}

func (s *projectsTestServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func TestProjectsHandler_ListIsPublic(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.projects = []*models.Project{{ID: uuid.New(), Title: "Visible"}}

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.projects.capturedViewer, "anonymous listing must pass a nil viewer")

	var got []*models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Visible", got[0].Title)
}

func TestProjectsHandler_ListPassesViewer(t *testing.T) {
	srv := newProjectsTestServer(t)
	student := testStudent()

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", srv.auth.bearer(t, student))
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.projects.capturedViewer)
	assert.Equal(t, student.ID, srv.projects.capturedViewer.ID)
}

func TestProjectsHandler_ListRejectsBadLimit(t *testing.T) {
	srv := newProjectsTestServer(t)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/projects?limit=banana", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectsHandler_CreateRequiresAuth(t *testing.T) {
	srv := newProjectsTestServer(t)

	body := strings.NewReader(`{"title":"T","description":"D"}`)
	rec := srv.do(httptest.NewRequest(http.MethodPost, "/api/projects", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectsHandler_CreateJSON(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Title: "T", Status: models.StatusPending}
	student := testStudent()

	body := strings.NewReader(`{"title":"T","description":"D","course":"CS-101","tags":["go"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
	req.Header.Set("Authorization", srv.auth.bearer(t, student))
	rec := srv.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "T", srv.projects.capturedInput.Title)
	assert.Equal(t, []string{"go"}, srv.projects.capturedInput.Tags)
	assert.Equal(t, student.ID, srv.projects.capturedViewer.ID)
}

func TestProjectsHandler_CreateMultipart(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusPending}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Robot Arm"))
	require.NoError(t, mw.WriteField("description", "6-axis arm"))
	require.NoError(t, mw.WriteField("tags", "robotics, hardware"))
	fw, err := mw.CreateFormFile("files", "report.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Robot Arm", srv.projects.capturedInput.Title)
	assert.Equal(t, []string{"robotics", "hardware"}, srv.projects.capturedInput.Tags)
	require.Len(t, srv.projects.capturedInput.Files, 1)
	assert.Equal(t, "report.pdf", srv.projects.capturedInput.Files[0].Name)
	assert.Equal(t, int64(9), srv.projects.capturedInput.Files[0].Size)
}

func TestProjectsHandler_GetMapsNotFound(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.getErr = apperrors.ErrNotFound

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectsHandler_GetRejectsBadID(t *testing.T) {
	srv := newProjectsTestServer(t)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectsHandler_UpdateMapsForbidden(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.updateErr = apperrors.ErrForbidden

	body := strings.NewReader(`{"title":"T","description":"D"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/"+uuid.NewString(), body)
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProjectsHandler_UpdateForwardsOnlySuppliedFields(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusApproved}

	body := strings.NewReader(`{"title":"New Title"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/"+uuid.NewString(), body)
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.projects.capturedUpdate.Title)
	assert.Equal(t, "New Title", *srv.projects.capturedUpdate.Title)
	assert.Nil(t, srv.projects.capturedUpdate.Description, "omitted fields must stay unset")
	assert.Nil(t, srv.projects.capturedUpdate.Course)
	assert.Nil(t, srv.projects.capturedUpdate.Tags)
}

func TestProjectsHandler_UpdateRejectsStatusFromNonStaff(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusPending}

	body := strings.NewReader(`{"title":"T","description":"D","status":"approved"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/"+uuid.NewString(), body)
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, srv.projects.capturedUpdate.Title, "the edit must not reach the service")
}

func TestProjectsHandler_UpdateRejectsStatusFromStaff(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusPending}

	// Staff moderate through PATCH; a status inside PUT is refused loudly
	// rather than dropped.
	body := strings.NewReader(`{"title":"T","status":"approved"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/"+uuid.NewString(), body)
	req.Header.Set("Authorization", srv.auth.bearer(t, testTeacher()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PATCH")
	assert.Nil(t, srv.projects.capturedUpdate.Title, "the edit must not reach the service")
}

func TestProjectsHandler_Delete(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusApproved}

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "project deleted", resp["message"])
}

func TestProjectsHandler_SetStatusRequiresStaff(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusPending}
	url := "/api/projects/" + uuid.NewString()

	// Anonymous.
	rec := srv.do(httptest.NewRequest(http.MethodPatch, url, strings.NewReader(`{"status":"approved"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Student.
	req := httptest.NewRequest(http.MethodPatch, url, strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec = srv.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, srv.projects.capturedStatus, "non-staff requests must not reach the service")

	// Teacher.
	req = httptest.NewRequest(http.MethodPatch, url, strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Authorization", srv.auth.bearer(t, testTeacher()))
	rec = srv.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, srv.projects.capturedStatus)
}

func TestProjectsHandler_VoteRequiresAuth(t *testing.T) {
	srv := newProjectsTestServer(t)
	url := "/api/projects/" + uuid.NewString() + "/vote"

	rec := srv.do(httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"type":"up"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectsHandler_Vote(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.votes.counts = &models.VoteCounts{ThumbsUp: 2, ThumbsDown: 0}
	student := testStudent()

	url := "/api/projects/" + uuid.NewString() + "/vote"
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"type":"up"}`))
	req.Header.Set("Authorization", srv.auth.bearer(t, student))
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.VoteUp, srv.votes.capturedType)
	assert.Equal(t, student.ID, srv.votes.capturedViewer.ID)

	var counts models.VoteCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts.ThumbsUp)
}

func TestProjectsHandler_VoteMapsInvalidType(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.votes.castErr = apperrors.ErrInvalidVoteType

	url := "/api/projects/" + uuid.NewString() + "/vote"
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"type":"sideways"}`))
	req.Header.Set("Authorization", srv.auth.bearer(t, testStudent()))
	rec := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectsHandler_ListComments(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusApproved}
	srv.comments.comments = []*models.Comment{{ID: 2, Text: "newest"}, {ID: 1, Text: "oldest"}}

	url := "/api/projects/" + uuid.NewString() + "/comments"
	rec := srv.do(httptest.NewRequest(http.MethodGet, url, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []*models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "newest", got[0].Text)
}

func TestProjectsHandler_ListCommentsHiddenProject(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.getErr = apperrors.ErrNotFound

	url := "/api/projects/" + uuid.NewString() + "/comments"
	rec := srv.do(httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectsHandler_AddCommentDefaultsAuthor(t *testing.T) {
	srv := newProjectsTestServer(t)
	srv.projects.project = &models.Project{ID: uuid.New(), Status: models.StatusApproved}
	srv.comments.comment = &models.Comment{ID: 1, Author: "Student", Text: "hello"}
	student := testStudent()

	url := "/api/projects/" + uuid.NewString() + "/comments"
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Authorization", srv.auth.bearer(t, student))
	rec := srv.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, student.Name, srv.comments.capturedAuthor)
	assert.Equal(t, "hello", srv.comments.capturedText)
}
