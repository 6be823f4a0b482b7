package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/library-api/internal/domain/entity"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceCollection is the MongoDB collection holding document sequences.
const SequenceCollection = "document_sequences"

type mongoSequenceRepository struct {
	collection *mongo.Collection
}

// NewMongoSequenceRepository creates a MongoDB-backed sequence store
func NewMongoSequenceRepository(db *mongo.Database) domainRepo.SequenceRepository {
	return &mongoSequenceRepository{collection: db.Collection(SequenceCollection)}
}

func (r *mongoSequenceRepository) GetLast(ctx context.Context, kind string) (string, error) {
	var seq entity.DocumentSequence
	err := r.collection.FindOne(ctx, bson.M{"_id": kind}).Decode(&seq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return seq.LastNumber, nil
}

func (r *mongoSequenceRepository) SetLast(ctx context.Context, kind, number string) error {
	update := bson.M{"$set": bson.M{
		"last_number": number,
		"updated_at":  time.Now().UTC(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": kind}, update, options.Update().SetUpsert(true))
	return err
}
