package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorStatus string

const (
	DoctorActive    DoctorStatus = "active"
	DoctorInactive  DoctorStatus = "inactive"
	DoctorSuspended DoctorStatus = "suspended"
)

// TimeWindow is a recurring availability interval in "HH:MM" wall-clock
// form, e.g. {"09:00", "12:30"}.
type TimeWindow struct {
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

type DaySchedule struct {
	Day   string       `json:"day" bson:"day"`
	Slots []TimeWindow `json:"slots" bson:"slots"`
}

type Qualification struct {
	Degree      string `json:"degree" bson:"degree"`
	Institution string `json:"institution" bson:"institution"`
	Year        int    `json:"year" bson:"year"`
}

type Rating struct {
	Rating int       `json:"rating" bson:"rating"`
	Review string    `json:"review,omitempty" bson:"review,omitempty"`
	Date   time.Time `json:"date" bson:"date"`
}

type Doctor struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email,omitempty" bson:"email,omitempty"`
	Specialization  string             `json:"specialization" bson:"specialization"`
	Qualifications  []Qualification    `json:"qualifications" bson:"qualifications"`
	Experience      int                `json:"experience" bson:"experience"`
	ConsultationFee float64            `json:"consultationFee" bson:"consultationFee"`
	Availability    []DaySchedule      `json:"availability" bson:"availability"`
	Status          DoctorStatus       `json:"status" bson:"status"`
	Ratings         []Rating           `json:"ratings" bson:"ratings"`
	AverageRating   float64            `json:"averageRating" bson:"averageRating"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ScheduleFor returns the recurring schedule for a weekday name
// ("Monday" ... "Sunday"), or nil when none is configured.
func (d *Doctor) ScheduleFor(day string) *DaySchedule {
	for i := range d.Availability {
		if d.Availability[i].Day == day {
			return &d.Availability[i]
		}
	}
	return nil
}

// DoctorSummary is the projection attached to populated appointments.
type DoctorSummary struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email,omitempty" bson:"email,omitempty"`
	Specialization  string             `json:"specialization" bson:"specialization"`
	ConsultationFee float64            `json:"consultationFee,omitempty" bson:"consultationFee,omitempty"`
}

func (d *Doctor) Summary() *DoctorSummary {
	return &DoctorSummary{
		ID:              d.ID,
		Name:            d.Name,
		Email:           d.Email,
		Specialization:  d.Specialization,
		ConsultationFee: d.ConsultationFee,
	}
}
