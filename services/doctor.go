package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/cache"
	"carewell-server/models"
	"carewell-server/util"
)

type DoctorService struct {
	store DoctorStore
	cache *cache.Cache
}

func NewDoctorService(store DoctorStore, c *cache.Cache) *DoctorService {
	return &DoctorService{store: store, cache: c}
}

type DoctorRequest struct {
	Name            string                 `json:"name"`
	Email           string                 `json:"email,omitempty"`
	Specialization  string                 `json:"specialization"`
	Qualifications  []models.Qualification `json:"qualifications,omitempty"`
	Experience      *int                   `json:"experience"`
	ConsultationFee *float64               `json:"consultationFee"`
	Availability    []models.DaySchedule   `json:"availability,omitempty"`
	Status          models.DoctorStatus    `json:"status,omitempty"`
}

func validateAvailability(schedules []models.DaySchedule) error {
	for _, day := range schedules {
		switch day.Day {
		case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		default:
			return util.ValidationError("unknown weekday %q in availability", day.Day)
		}
		for _, w := range day.Slots {
			start, err := time.Parse("15:04", w.StartTime)
			if err != nil {
				return util.ValidationError("invalid startTime %q", w.StartTime)
			}
			end, err := time.Parse("15:04", w.EndTime)
			if err != nil {
				return util.ValidationError("invalid endTime %q", w.EndTime)
			}
			if !start.Before(end) {
				return util.ValidationError("availability window %s-%s is empty", w.StartTime, w.EndTime)
			}
		}
	}
	return nil
}

func (s *DoctorService) Create(ctx context.Context, req DoctorRequest) (*models.Doctor, error) {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Specialization) == "" {
		missing = append(missing, "specialization")
	}
	if req.Experience == nil {
		missing = append(missing, "experience")
	}
	if req.ConsultationFee == nil {
		missing = append(missing, "consultationFee")
	}
	if len(missing) > 0 {
		return nil, util.ValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if err := validateAvailability(req.Availability); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.DoctorActive
	}
	doc := &models.Doctor{
		Name:            strings.TrimSpace(req.Name),
		Email:           req.Email,
		Specialization:  strings.TrimSpace(req.Specialization),
		Qualifications:  req.Qualifications,
		Experience:      *req.Experience,
		ConsultationFee: *req.ConsultationFee,
		Availability:    req.Availability,
		Status:          status,
		Ratings:         []models.Rating{},
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DoctorService) Get(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var cached models.Doctor
	if err := s.cache.Get(ctx, cache.DoctorKey+id.Hex(), &cached); err == nil {
		return &cached, nil
	}
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("doctor not found")
		}
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.DoctorKey+id.Hex(), doc); err != nil {
		log.Warn().Err(err).Msg("failed to cache doctor")
	}
	return doc, nil
}

func (s *DoctorService) List(ctx context.Context, activeOnly bool) ([]models.Doctor, error) {
	return s.store.FindAll(ctx, activeOnly)
}

func (s *DoctorService) Update(ctx context.Context, id primitive.ObjectID, req DoctorRequest) (*models.Doctor, error) {
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("doctor not found")
		}
		return nil, err
	}

	if req.Name != "" {
		doc.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		doc.Email = req.Email
	}
	if req.Specialization != "" {
		doc.Specialization = strings.TrimSpace(req.Specialization)
	}
	if req.Qualifications != nil {
		doc.Qualifications = req.Qualifications
	}
	if req.Experience != nil {
		doc.Experience = *req.Experience
	}
	if req.ConsultationFee != nil {
		doc.ConsultationFee = *req.ConsultationFee
	}
	if req.Availability != nil {
		if err := validateAvailability(req.Availability); err != nil {
			return nil, err
		}
		doc.Availability = req.Availability
	}
	if req.Status != "" {
		switch req.Status {
		case models.DoctorActive, models.DoctorInactive, models.DoctorSuspended:
			doc.Status = req.Status
		default:
			return nil, util.ValidationError("unknown doctor status %q", string(req.Status))
		}
	}

	if err := s.store.Replace(ctx, doc); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.DoctorKey+id.Hex())
	return doc, nil
}

func (s *DoctorService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return util.NotFoundError("doctor not found")
	}
	if err == nil {
		s.cache.Delete(ctx, cache.DoctorKey+id.Hex())
	}
	return err
}

// AddRating appends a rating and recomputes the average.
func (s *DoctorService) AddRating(ctx context.Context, id primitive.ObjectID, rating int, review string) (*models.Doctor, error) {
	if rating < 1 || rating > 5 {
		return nil, util.ValidationError("rating must be between 1 and 5")
	}
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("doctor not found")
		}
		return nil, err
	}
	doc.Ratings = append(doc.Ratings, models.Rating{Rating: rating, Review: review, Date: time.Now()})
	sum := 0
	for _, r := range doc.Ratings {
		sum += r.Rating
	}
	doc.AverageRating = float64(sum) / float64(len(doc.Ratings))
	if err := s.store.Replace(ctx, doc); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.DoctorKey+id.Hex())
	return doc, nil
}
