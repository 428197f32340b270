package api

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scan2clean/intake-api/upload"
)

// attempts to find a free upload name when another process took the first
const saveAttempts = 3

// saveAttachment stores an uploaded file under a fresh name and returns it
func (s *Server) saveAttachment(ctx context.Context, file *multipart.FileHeader) (string, error) {
	var err error
	for i := 0; i < saveAttempts; i++ {
		name := upload.NewName(file.Filename)
		if err = s.saveAs(ctx, name, file); err == nil {
			s.counter(metricUploadsSaved).Inc(1)
			return name, nil
		}
		if !errors.Is(err, upload.ErrExists) {
			return "", err
		}
		log.WithField("upload", name).Warn("upload name already taken")
	}

	return "", err
}

func (s *Server) saveAs(ctx context.Context, name string, file *multipart.FileHeader) error {
	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	return s.uploads.Save(ctx, name, f, file.Size, file.Header.Get("Content-Type"))
}

func (s *Server) discardAttachment(ctx context.Context, name string) {
	if err := s.uploads.Remove(ctx, name); err != nil {
		log.WithField("upload", name).Errorf("remove unreferenced upload: %s", err)
		return
	}

	s.counter(metricUploadsDiscarded).Inc(1)
	log.WithField("upload", name).Info("removed upload of a request that was not stored")
}

// serveUpload is the API for fetching a previously uploaded image
func (s *Server) serveUpload(c *gin.Context) {
	name := c.Param("filename")

	r, info, err := s.uploads.Open(c.Request.Context(), name)
	if err == upload.ErrNotFound {
		abortWithEncoding(c, http.StatusNotFound, errorUploadNotFound)
		return
	}
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}
	defer r.Close()

	if rs, ok := r.(io.ReadSeeker); ok {
		c.Header("Content-Type", info.ContentType)
		http.ServeContent(c.Writer, c.Request, name, info.ModTime, rs)
		return
	}

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, r, nil)
}
