package store

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scan2clean/intake-api/schema"
)

// requestDocument is a request as kept in mongo. The id is a native ObjectID,
// the same as documents written by earlier clients of the collection.
type requestDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Phone       string             `bson:"phone"`
	Description string             `bson:"description"`
	Date        string             `bson:"date"`
	Location    string             `bson:"location"`
	Image       string             `bson:"image"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func newRequestDocument(id primitive.ObjectID, r schema.PickupRequest) requestDocument {
	return requestDocument{
		ID:          id,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Description: r.Description,
		Date:        r.Date,
		Location:    r.Location,
		Image:       r.Image,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

// request converts the document back. Documents without createdAt take the
// creation time encoded in their ObjectID.
func (d requestDocument) request() schema.PickupRequest {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = d.ID.Timestamp().UTC()
	}

	status := d.Status
	if status == "" {
		status = schema.StatusPending
	}

	return schema.PickupRequest{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Description: d.Description,
		Date:        d.Date,
		Location:    d.Location,
		Image:       d.Image,
		Status:      status,
		CreatedAt:   createdAt,
	}
}

// InsertRequest saves a new request under a fresh ObjectID
func (m *mongoDB) InsertRequest(ctx context.Context, r *schema.PickupRequest) (*schema.PickupRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid := primitive.NewObjectID()
	record := prepareInsert(r, oid.Hex())
	if _, err := m.requests().InsertOne(ctx, newRequestDocument(oid, record)); err != nil {
		return nil, storageError("insert request", err)
	}

	log.WithField("prefix", mongoLogPrefix).Debugf("inserted request %s", record.ID)

	return &record, nil
}

// ListRequests returns every request sorted by creation time, newest first
func (m *mongoDB) ListRequests(ctx context.Context) ([]schema.PickupRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := m.requests().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageError("list requests", err)
	}

	var documents []requestDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, storageError("list requests", err)
	}

	requests := make([]schema.PickupRequest, 0, len(documents))
	for _, d := range documents {
		requests = append(requests, d.request())
	}

	return requests, nil
}

// UpdateRequestStatus sets the status of a request. A request already in the
// given status still counts as matched. An id that is not an ObjectID hex
// cannot name a request.
func (m *mongoDB) UpdateRequestStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	update := bson.M{"$set": bson.M{"status": status}}
	result, err := m.requests().UpdateOne(ctx, filter, update)
	if err != nil {
		return storageError("update request status", err)
	}

	if result.MatchedCount == 0 {
		return ErrRequestNotFound
	}

	return nil
}
