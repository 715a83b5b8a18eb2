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

type AppointmentStore struct {
	coll *mongo.Collection
}

func NewAppointmentStore(database *mongo.Database) *AppointmentStore {
	return &AppointmentStore{coll: database.Collection(AppointmentCollection)}
}

func (s *AppointmentStore) Insert(ctx context.Context, ap *models.Appointment) error {
	now := time.Now()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, ap)
	if err != nil {
		return err
	}
	ap.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *AppointmentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var ap models.Appointment
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (s *AppointmentStore) FindByPatient(ctx context.Context, patientID primitive.ObjectID, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	filter := bson.M{"patientId": patientID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "timeSlot", Value: -1}})
	return s.findMany(ctx, filter, opts)
}

func (s *AppointmentStore) FindAll(ctx context.Context) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.findMany(ctx, bson.M{}, opts)
}

func (s *AppointmentStore) Update(ctx context.Context, id primitive.ObjectID, upd services.AppointmentUpdate) (*models.Appointment, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.DoctorID != nil {
		set["doctorId"] = *upd.DoctorID
	}
	if upd.TimeSlot != nil {
		set["timeSlot"] = *upd.TimeSlot
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}

	// The status guard makes the legality check and the write one atomic
	// compare-and-swap: a transition that committed in between misses the
	// filter instead of being overwritten.
	filter := bson.M{"_id": id}
	if upd.ExpectedStatus != nil {
		filter["status"] = *upd.ExpectedStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ap models.Appointment
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&ap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if upd.ExpectedStatus != nil {
			if s.coll.FindOne(ctx, bson.M{"_id": id}).Err() == nil {
				return nil, services.ErrStaleStatus
			}
		}
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (s *AppointmentStore) FindExpiredApproved(ctx context.Context, now time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"status":   bson.M{"$in": []models.AppointmentStatus{models.StatusApproved, models.StatusScheduled}},
		"timeSlot": bson.M{"$lt": now},
	}
	return s.findMany(ctx, filter, nil)
}

func (s *AppointmentStore) FindBookedBetween(ctx context.Context, doctorID primitive.ObjectID, from, to time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"timeSlot": bson.M{"$gte": from, "$lte": to},
		"status":   bson.M{"$nin": []models.AppointmentStatus{models.StatusCancelled}},
	}
	return s.findMany(ctx, filter, nil)
}

func (s *AppointmentStore) CountByStatus(ctx context.Context, patientID *primitive.ObjectID) (map[models.AppointmentStatus]int64, error) {
	match := bson.M{}
	if patientID != nil {
		match["patientId"] = *patientID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    models.AppointmentStatus `bson:"_id"`
		Count int64                    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[models.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.NormalizeStatus(row.ID)] += row.Count
	}
	return counts, nil
}

func (s *AppointmentStore) FindUpcoming(ctx context.Context, patientID primitive.ObjectID, now time.Time, limit int64) ([]models.Appointment, error) {
	filter := bson.M{
		"patientId": patientID,
		"status":    bson.M{"$in": []models.AppointmentStatus{models.StatusApproved, models.StatusScheduled, models.StatusPending}},
		"timeSlot":  bson.M{"$gte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timeSlot", Value: 1}}).SetLimit(limit)
	return s.findMany(ctx, filter, opts)
}

func (s *AppointmentStore) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.coll.Find(ctx, filter, opts)
	} else {
		cursor, err = s.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	var list []models.Appointment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
