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

type DoctorStore struct {
	coll *mongo.Collection
}

func NewDoctorStore(database *mongo.Database) *DoctorStore {
	return &DoctorStore{coll: database.Collection(DoctorCollection)}
}

func (s *DoctorStore) Insert(ctx context.Context, doc *models.Doctor) error {
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *DoctorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doc models.Doctor
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DoctorStore) FindAll(ctx context.Context, activeOnly bool) ([]models.Doctor, error) {
	filter := bson.M{}
	if activeOnly {
		filter["status"] = models.DoctorActive
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []models.Doctor
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *DoctorStore) Replace(ctx context.Context, doc *models.Doctor) error {
	doc.UpdatedAt = time.Now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *DoctorStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *DoctorStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
