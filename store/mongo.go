package store

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scan2clean/intake-api/schema"
)

const (
	mongoLogPrefix = "mongo"
)

type mongoDB struct {
	client   *mongo.Client
	database string
}

// Ping - ping mongo db
func (m mongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return storageError("ping", m.client.Ping(ctx, nil))
}

// Close - close mongo db connections
func (m mongoDB) Close() {
	log.WithField("prefix", mongoLogPrefix).Info("closing mongo db connections")
	_ = m.client.Disconnect(context.Background())
}

func (m mongoDB) requests() *mongo.Collection {
	return m.client.Database(m.database).Collection(schema.RequestCollection)
}

// NewMongoStore - return mongo db operations
func NewMongoStore(client *mongo.Client, database string) RequestStore {
	return &mongoDB{
		client:   client,
		database: database,
	}
}
