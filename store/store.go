package store

//go:generate mockgen -destination=../api/mocks/store.go -package=mocks github.com/scan2clean/intake-api/store RequestStore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scan2clean/intake-api/schema"
)

const defaultTimeout = 5 * time.Second

var (
	ErrRequestNotFound    = errors.New("pickup request not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageError wraps a failure of the underlying database. It matches
// ErrStorageUnavailable under errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Closer - close db connection
type Closer interface {
	Close()
}

// Pinger - ping database
type Pinger interface {
	Ping(ctx context.Context) error
}

// RequestStore keeps pickup requests
type RequestStore interface {
	Pinger
	Closer

	// InsertRequest assigns id and creation time and stores the request
	InsertRequest(ctx context.Context, r *schema.PickupRequest) (*schema.PickupRequest, error)
	// ListRequests returns all requests, newest first
	ListRequests(ctx context.Context) ([]schema.PickupRequest, error)
	// UpdateRequestStatus overwrites the status of one request. It returns
	// ErrRequestNotFound if no request has the id.
	UpdateRequestStatus(ctx context.Context, id, status string) error
}

// prepareInsert fills the store assigned fields of a copy of r
func prepareInsert(r *schema.PickupRequest, id string) schema.PickupRequest {
	record := *r
	record.ID = id
	record.CreatedAt = now()
	if record.Status == "" {
		record.Status = schema.StatusPending
	}
	return record
}

// now is truncated to what every backend can round-trip
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
