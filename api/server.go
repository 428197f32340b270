package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"

	"github.com/scan2clean/intake-api/logmodule"
	"github.com/scan2clean/intake-api/store"
	"github.com/scan2clean/intake-api/upload"
	"github.com/scan2clean/intake-api/utils"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

const defaultMaxUploadSize = 10 << 20

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	store   store.RequestStore
	uploads upload.Area

	metrics tally.Scope

	// directory of the static landing page
	publicDir string

	maxUploadSize int64

	// reject status updates of unknown requests instead of acknowledging them
	strictUpdate bool
}

// NewServer new instance of server
func NewServer(
	requestStore store.RequestStore,
	uploads upload.Area,
	metrics tally.Scope) *Server {
	maxUploadSize := viper.GetInt64("upload.max_size")
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}

	return &Server{
		store:         requestStore,
		uploads:       uploads,
		metrics:       metrics,
		publicDir:     viper.GetString("public.dir"),
		maxUploadSize: maxUploadSize,
		strictUpdate:  viper.GetBool("server.strict_update"),
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.maxUploadSize
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept-Language", logmodule.RequestIDHeader},
		ExposeHeaders:   []string{"Content-Length", logmodule.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(logmodule.Ginrus("API"))

	r.GET("/", s.landing)
	r.GET("/healthz", s.healthz)

	r.POST("/add-request", s.addRequest)
	r.GET("/requests", s.listRequests)
	r.PUT("/update/:id", s.updateRequestStatus)

	r.GET("/uploads/:filename", s.serveUpload)

	r.NoRoute(s.servePublic)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

// landing serves the frontend entry page, or a plain message when the
// frontend is not deployed next to the api
func (s *Server) landing(c *gin.Context) {
	if index, ok := s.publicFile("index.html"); ok {
		c.File(index)
		return
	}

	c.String(http.StatusOK, utils.Message(localizer(c), utils.MessageLanding))
}

func (s *Server) servePublic(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		if file, ok := s.publicFile(c.Request.URL.Path); ok {
			c.File(file)
			return
		}
	}

	abortWithEncoding(c, http.StatusNotFound, errorNotFound)
}

// publicFile resolves a url path to a regular file below the public dir
func (s *Server) publicFile(urlPath string) (string, bool) {
	if s.publicDir == "" {
		return "", false
	}

	rel := filepath.FromSlash(strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+urlPath)), "/"))
	if rel == "" || rel == "." {
		rel = "index.html"
	}
	full := filepath.Join(s.publicDir, rel)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// storageFailure answers with a generic server error carrying the
// underlying failure text
func (s *Server) storageFailure(c *gin.Context, err error) {
	s.counter(metricStorageErrors).Inc(1)
	sentry.CaptureException(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorStorageUnavailable.withMessage(err), err)
}

func localizer(c *gin.Context) *i18n.Localizer {
	return utils.NewLocalizer(c.GetHeader("Accept-Language"))
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
