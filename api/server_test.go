package api

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"

	"github.com/scan2clean/intake-api/api/mocks"
	"github.com/scan2clean/intake-api/schema"
	"github.com/scan2clean/intake-api/store"
	"github.com/scan2clean/intake-api/upload"
)

// IntakeTestSuite drives the full router against the in-memory store and a
// temporary upload directory
type IntakeTestSuite struct {
	suite.Suite
	dir    string
	server *Server
	router *gin.Engine
}

func (s *IntakeTestSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "intake")
	s.Require().NoError(err)
	s.dir = dir

	uploads, err := upload.NewDiskArea(filepath.Join(dir, "uploads"))
	s.Require().NoError(err)

	gin.SetMode(gin.TestMode)
	s.server = &Server{
		store:         store.NewMemoryStore(),
		uploads:       uploads,
		metrics:       tally.NewTestScope("", nil),
		publicDir:     filepath.Join(dir, "public"),
		maxUploadSize: defaultMaxUploadSize,
	}
	s.router = s.server.setupRouter()
}

func (s *IntakeTestSuite) TearDownTest() {
	os.RemoveAll(s.dir)
}

func (s *IntakeTestSuite) create(fields map[string]string, filename string, image []byte) schema.PickupRequest {
	body, contentType := multipartBody(s.T(), fields, filename, image)
	req := httptest.NewRequest("POST", "/add-request", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var jResp createResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &jResp))
	return jResp.Data
}

func (s *IntakeTestSuite) list() []schema.PickupRequest {
	req := httptest.NewRequest("GET", "/requests", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	var requests []schema.PickupRequest
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &requests))
	return requests
}

func (s *IntakeTestSuite) TestPickupLifecycle() {
	older := s.create(map[string]string{"name": "Zed"}, "", nil)
	ann := s.create(annFields(), "", nil)

	s.NotEmpty(ann.ID)
	s.Equal(schema.StatusPending, ann.Status)
	s.Equal("", ann.Image)
	s.Equal("old fridge", ann.Description)
	s.False(ann.CreatedAt.IsZero())

	requests := s.list()
	s.Require().Len(requests, 2)
	s.Equal(ann.ID, requests[0].ID, "most recent request should be listed first")
	s.Equal(older.ID, requests[1].ID)

	w := updateStatus(s.router, ann.ID, `{"status":"Collected"}`)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Updated"}`, w.Body.String())

	requests = s.list()
	s.Require().Len(requests, 2)
	updated := requests[0]
	s.Equal("Collected", updated.Status)
	updated.Status = ann.Status
	s.Equal(ann, updated, "only the status should change")
	s.Equal(schema.StatusPending, requests[1].Status)
}

func (s *IntakeTestSuite) TestUpdateUnknownIDChangesNothing() {
	ann := s.create(annFields(), "", nil)
	before := s.list()

	unknown := updateStatus(s.router, "000000000000000000000000", `{"status":"Collected"}`)
	known := updateStatus(s.router, ann.ID, `{"status":"Pending"}`)

	s.Equal(known.Code, unknown.Code)
	s.Equal(known.Body.String(), unknown.Body.String())
	s.Equal(before, s.list())
}

func (s *IntakeTestSuite) TestUpdateWithoutStatusChangesNothing() {
	ann := s.create(annFields(), "", nil)
	before := s.list()

	w := updateStatus(s.router, ann.ID, `{}`)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Updated"}`, w.Body.String())
	s.Equal(before, s.list())
	s.Equal(schema.StatusPending, s.list()[0].Status)
}

func (s *IntakeTestSuite) TestImageIsStoredAndServed() {
	image := []byte("\x89PNG\r\n\x1a\n not really a png")
	r := s.create(annFields(), "fridge.png", image)

	s.NotEmpty(r.Image)
	stored, err := ioutil.ReadFile(filepath.Join(s.dir, "uploads", r.Image))
	s.Require().NoError(err)
	s.Equal(image, stored)

	req := httptest.NewRequest("GET", "/uploads/"+r.Image, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(image, w.Body.Bytes())
	s.Equal("image/png", w.Header().Get("Content-Type"))
}

func (s *IntakeTestSuite) TestUnknownUpload() {
	req := httptest.NewRequest("GET", "/uploads/nothing.jpg", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *IntakeTestSuite) TestLandingWithoutFrontend() {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("Scan2Clean API is running", w.Body.String())
}

func (s *IntakeTestSuite) TestLandingAndAssetsFromPublicDir() {
	public := filepath.Join(s.dir, "public")
	s.Require().NoError(os.MkdirAll(filepath.Join(public, "js"), 0755))
	s.Require().NoError(ioutil.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>Cash for Trash</h1>"), 0644))
	s.Require().NoError(ioutil.WriteFile(filepath.Join(public, "js", "app.js"), []byte("console.log(1)"), 0644))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Cash for Trash")

	req = httptest.NewRequest("GET", "/js/app.js", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("console.log(1)", w.Body.String())

	req = httptest.NewRequest("GET", "/../../etc/passwd", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *IntakeTestSuite) TestCORS() {
	req := httptest.NewRequest("GET", "/requests", nil)
	req.Header.Set("Origin", "http://frontend.example")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *IntakeTestSuite) TestHealthz() {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var jResp map[string]string
	s.NoError(json.Unmarshal(w.Body.Bytes(), &jResp))
	s.Equal("OK", jResp["status"])
}

func TestIntakeTestSuite(t *testing.T) {
	suite.Run(t, new(IntakeTestSuite))
}

func TestHealthzStorageUnavailable(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockRequestStore(ctl)

	s := Server{
		store: m,
	}

	m.EXPECT().Ping(gomock.Any()).Return(&store.StorageError{Op: "ping", Err: errors.New("no reachable servers")}).Times(1)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", s.healthz)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code, "wrong status code")

	var jResp ErrorResponse
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &jResp), "wrong json unmarshal")
	assert.Equal(t, "ping: no reachable servers", jResp.Message)
}

func TestServeUploadFromArea(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	u := mocks.NewMockArea(ctl)

	s := Server{
		uploads: u,
	}

	u.EXPECT().Open(gomock.Any(), "1-a.jpg").Return(
		ioutil.NopCloser(strings.NewReader("jpeg bytes")),
		&upload.FileInfo{Size: 10, ContentType: "image/jpeg"},
		nil,
	).Times(1)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/uploads/:filename", s.serveUpload)

	req := httptest.NewRequest("GET", "/uploads/1-a.jpg", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Equal(t, "jpeg bytes", w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
}
