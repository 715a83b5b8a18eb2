package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carewell-server/models"
	"carewell-server/services"
)

// BedStore persists the singleton bed ledger. Allocate and Release are
// single conditional FindOneAndUpdate calls: the availability check and
// the increment happen in one document-atomic operation, so two
// concurrent approvals can never both pass a stale check.
type BedStore struct {
	coll *mongo.Collection
}

func NewBedStore(database *mongo.Database) *BedStore {
	return &BedStore{coll: database.Collection(BedCollection)}
}

func (s *BedStore) Get(ctx context.Context) (*models.Bed, error) {
	var bed models.Bed
	err := s.coll.FindOne(ctx, bson.M{}).Decode(&bed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

func (s *BedStore) Create(ctx context.Context, bed *models.Bed) error {
	now := time.Now()
	bed.CreatedAt = now
	bed.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, bed)
	if err != nil {
		return err
	}
	bed.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *BedStore) Allocate(ctx context.Context) (*models.Bed, error) {
	filter := bson.M{"availableBeds": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"bedsInUse": 1, "availableBeds": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	return s.findOneAndUpdate(ctx, filter, update, services.ErrNoBedsAvailable)
}

func (s *BedStore) Release(ctx context.Context) (*models.Bed, error) {
	filter := bson.M{"bedsInUse": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"bedsInUse": -1, "availableBeds": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	return s.findOneAndUpdate(ctx, filter, update, services.ErrNoBedsInUse)
}

// Overwrite applies a direct admin update, recomputing availableBeds so
// the ledger invariant holds.
func (s *BedStore) Overwrite(ctx context.Context, totalBeds, bedsInUse int) (*models.Bed, error) {
	update := bson.M{"$set": bson.M{
		"totalBeds":     totalBeds,
		"bedsInUse":     bedsInUse,
		"availableBeds": totalBeds - bedsInUse,
		"updatedAt":     time.Now(),
	}}
	return s.findOneAndUpdate(ctx, bson.M{}, update, services.ErrNotFound)
}

func (s *BedStore) findOneAndUpdate(ctx context.Context, filter, update bson.M, miss error) (*models.Bed, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var bed models.Bed
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, miss
	}
	if err != nil {
		return nil, err
	}
	return &bed, nil
}
