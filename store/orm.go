package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/scan2clean/intake-api/schema"
)

const ormLogPrefix = "orm"

// ormStore keeps requests in postgres through gorm
type ormStore struct {
	ormDB *gorm.DB
}

// NewORMStore returns a RequestStore backed by a gorm connection
func NewORMStore(ormDB *gorm.DB) RequestStore {
	return &ormStore{
		ormDB: ormDB,
	}
}

// Ping is to check the storage health status
func (s *ormStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return s.wrap("ping", s.ormDB.DB().PingContext(ctx))
}

func (s *ormStore) Close() {
	log.WithField("prefix", ormLogPrefix).Info("closing orm db connections")
	if err := s.ormDB.Close(); err != nil {
		log.WithField("prefix", ormLogPrefix).Error(err)
	}
}

// InsertRequest creates a row with a random uuid as id
func (s *ormStore) InsertRequest(ctx context.Context, r *schema.PickupRequest) (*schema.PickupRequest, error) {
	record := prepareInsert(r, uuid.New().String())
	// uuids carry no order, keep full timestamp precision to sort by
	record.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := s.db(ctx).Create(&record).Error; err != nil {
		return nil, s.wrap("insert request", err)
	}

	return &record, nil
}

func (s *ormStore) ListRequests(ctx context.Context) ([]schema.PickupRequest, error) {
	requests := []schema.PickupRequest{}

	if err := s.db(ctx).Order("created_at DESC").Order("id DESC").Find(&requests).Error; err != nil {
		return nil, s.wrap("list requests", err)
	}

	return requests, nil
}

// UpdateRequestStatus relies on postgres reporting matched rows, so setting
// the current status again still affects one row.
func (s *ormStore) UpdateRequestStatus(ctx context.Context, id, status string) error {
	result := s.db(ctx).Model(schema.PickupRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return s.wrap("update request status", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// db scopes a statement to ctx. gorm v1 has no context support so the
// deadline is only checked before the statement runs.
func (s *ormStore) db(ctx context.Context) *gorm.DB {
	db := s.ormDB.New()
	if err := ctx.Err(); err != nil {
		db.AddError(err)
	}
	return db
}

func (s *ormStore) wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	if pqErr, ok := err.(*pq.Error); ok {
		log.WithField("prefix", ormLogPrefix).
			WithField("code", pqErr.Code).
			Errorf("%s: %s", op, pqErr.Message)
	}

	return storageError(op, err)
}
