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

type MedicalRecordStore struct {
	coll *mongo.Collection
}

func NewMedicalRecordStore(database *mongo.Database) *MedicalRecordStore {
	return &MedicalRecordStore{coll: database.Collection(MedicalRecordCollection)}
}

func (s *MedicalRecordStore) Insert(ctx context.Context, rec *models.MedicalRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return err
	}
	rec.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MedicalRecordStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MedicalRecord, error) {
	var rec models.MedicalRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MedicalRecordStore) FindByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.MedicalRecord, error) {
	return s.findMany(ctx, bson.M{"patientId": patientID})
}

func (s *MedicalRecordStore) FindAll(ctx context.Context) ([]models.MedicalRecord, error) {
	return s.findMany(ctx, bson.M{})
}

func (s *MedicalRecordStore) Replace(ctx context.Context, rec *models.MedicalRecord) error {
	rec.UpdatedAt = time.Now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *MedicalRecordStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *MedicalRecordStore) findMany(ctx context.Context, filter bson.M) ([]models.MedicalRecord, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var recs []models.MedicalRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

type SalesRecordStore struct {
	coll *mongo.Collection
}

func NewSalesRecordStore(database *mongo.Database) *SalesRecordStore {
	return &SalesRecordStore{coll: database.Collection(SalesRecordCollection)}
}

func (s *SalesRecordStore) Insert(ctx context.Context, rec *models.SalesRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return err
	}
	rec.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}
