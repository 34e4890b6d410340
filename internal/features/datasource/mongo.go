package datasource

import (
	"context"
	"fmt"

	"go-bi/internal/common/apperrors"
	"go-bi/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// rowLimit caps how many rows a single resolve materializes.
const rowLimit = 10000

// MongoResolver resolves data source ids against collections registered
// in a "datasources" catalog collection. Each catalog entry maps an id to
// the collection holding its rows and the declared column schema.
type MongoResolver struct {
	db *mongo.Database
}

func NewMongoResolver(db *database.MongodbDB) *MongoResolver {
	return &MongoResolver{db: db.DB}
}

type catalogEntry struct {
	ID         string   `bson:"_id"`
	Collection string   `bson:"collection"`
	Columns    []Column `bson:"columns"`
}

func (r *MongoResolver) Resolve(ctx context.Context, dataSourceID string) ([]Column, []Row, error) {
	var entry catalogEntry
	err := r.db.Collection("datasources").FindOne(ctx, bson.M{"_id": dataSourceID}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil, apperrors.NewNotFound("data source", dataSourceID)
	}
	if err != nil {
		return nil, nil, err
	}

	cursor, err := r.db.Collection(entry.Collection).Find(ctx,
		bson.M{},
		options.Find().SetLimit(rowLimit).SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("list rows of %s: %w", dataSourceID, err)
	}
	defer cursor.Close(ctx)

	var rows []Row
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, nil, err
	}

	return entry.Columns, rows, nil
}
