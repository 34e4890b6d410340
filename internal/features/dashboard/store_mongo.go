package dashboard

import (
	"context"

	"go-bi/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps the whole collection in a single document of the
// "blobs" collection, keyed by the fixed store name. The payload stays
// opaque JSON so Mongo and Badger share one codec.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *database.MongodbDB) *MongoStore {
	return &MongoStore{
		collection: db.DB.Collection("blobs"),
	}
}

type blobDoc struct {
	ID      string `bson:"_id"`
	Payload []byte `bson:"payload"`
}

func (s *MongoStore) LoadAll(ctx context.Context) ([]Dashboard, error) {
	var doc blobDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": storeKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []Dashboard{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCollection(doc.Payload)
}

func (s *MongoStore) SaveAll(ctx context.Context, dashboards []Dashboard) error {
	data, err := encodeCollection(dashboards)
	if err != nil {
		return err
	}

	_, err = s.collection.ReplaceOne(ctx,
		bson.M{"_id": storeKey},
		blobDoc{ID: storeKey, Payload: data},
		options.Replace().SetUpsert(true),
	)
	return err
}
