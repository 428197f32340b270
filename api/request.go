package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scan2clean/intake-api/schema"
	"github.com/scan2clean/intake-api/store"
	"github.com/scan2clean/intake-api/utils"
)

// addRequest is the API for submitting a pickup request with an optional
// photo in the `image` field
func (s *Server) addRequest(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize)

	var params schema.PickupRequestInput
	if err := c.ShouldBind(&params); err != nil && err != io.EOF {
		s.abortUnreadable(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil && err != http.ErrMissingFile && err != http.ErrNotMultipart {
		s.abortUnreadable(c, err)
		return
	}

	record := schema.NewPickupRequest(params)

	// the attachment is removed again unless the request is stored
	committed := false
	if file != nil {
		name, err := s.saveAttachment(c.Request.Context(), file)
		if err != nil {
			abortWithEncoding(c, http.StatusInternalServerError, errorUploadFailed, err)
			return
		}
		record.Image = name

		defer func() {
			if !committed {
				s.discardAttachment(context.Background(), name)
			}
		}()
	}

	stored, err := s.store.InsertRequest(c.Request.Context(), record)
	if err != nil {
		s.storageFailure(c, err)
		return
	}
	committed = true

	s.counter(metricRequestsCreated).Inc(1)
	log.WithField("id", stored.ID).Debug("pickup request created")

	c.JSON(http.StatusOK, gin.H{
		"message": utils.Message(localizer(c), utils.MessageRequestSaved),
		"data":    stored,
	})
}

// listRequests is the API for listing every request, newest first
func (s *Server) listRequests(c *gin.Context) {
	requests, err := s.store.ListRequests(c.Request.Context())
	if err != nil {
		s.storageFailure(c, err)
		return
	}

	s.counter(metricRequestsListed).Inc(1)
	c.JSON(http.StatusOK, requests)
}

// updateRequestStatus is the API for staff to set the status of a request.
// An unknown id is acknowledged like a known one unless strict updates are
// enabled.
func (s *Server) updateRequestStatus(c *gin.Context) {
	id := c.Param("id")

	var params struct {
		Status string `json:"status" form:"status"`
	}

	if err := c.ShouldBind(&params); err != nil && err != io.EOF {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	// nothing to set, the request keeps its current status
	var err error
	if params.Status != "" {
		err = s.store.UpdateRequestStatus(c.Request.Context(), id, params.Status)
	}

	switch {
	case err == nil && params.Status == "":
		log.WithField("id", id).Debug("status update without status")
	case err == nil:
		s.counter(metricStatusUpdated).Inc(1)
	case errors.Is(err, store.ErrRequestNotFound):
		s.counter(metricStatusUpdateMissed).Inc(1)
		log.WithField("id", id).Warn("status update for unknown request")
		if s.strictUpdate {
			abortWithEncoding(c, http.StatusNotFound, errorRequestNotFound, err)
			return
		}
	default:
		s.storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": utils.Message(localizer(c), utils.MessageRequestUpdated),
	})
}

func (s *Server) abortUnreadable(c *gin.Context, err error) {
	if strings.Contains(err.Error(), "request body too large") {
		abortWithEncoding(c, http.StatusRequestEntityTooLarge, errorRequestTooLarge, err)
		return
	}
	abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
}
