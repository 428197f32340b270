package store

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scan2clean/intake-api/schema"
)

const memoryLogPrefix = "memory"

type memoryRecord struct {
	seq     uint64
	request schema.PickupRequest
}

// memoryStore keeps requests in process memory. It is used for local runs
// and tests; nothing survives a restart.
type memoryStore struct {
	mu      sync.RWMutex
	seq     uint64
	records map[string]*memoryRecord
}

// NewMemoryStore returns an empty in-process RequestStore
func NewMemoryStore() RequestStore {
	return &memoryStore{
		records: make(map[string]*memoryRecord),
	}
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return storageError("ping", ctx.Err())
}

func (m *memoryStore) Close() {
	log.WithField("prefix", memoryLogPrefix).Info("dropping in-memory requests")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*memoryRecord)
}

func (m *memoryStore) InsertRequest(ctx context.Context, r *schema.PickupRequest) (*schema.PickupRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("insert request", err)
	}

	record := prepareInsert(r, primitive.NewObjectID().Hex())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.records[record.ID] = &memoryRecord{seq: m.seq, request: record}

	return &record, nil
}

func (m *memoryStore) ListRequests(ctx context.Context) ([]schema.PickupRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("list requests", err)
	}

	m.mu.RLock()
	records := make([]memoryRecord, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, *r)
	}
	m.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.request.CreatedAt.Equal(b.request.CreatedAt) {
			return a.request.CreatedAt.After(b.request.CreatedAt)
		}
		return a.seq > b.seq
	})

	requests := make([]schema.PickupRequest, 0, len(records))
	for _, r := range records {
		requests = append(requests, r.request)
	}

	return requests, nil
}

func (m *memoryStore) UpdateRequestStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return storageError("update request status", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return ErrRequestNotFound
	}
	r.request.Status = status

	return nil
}
