package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"

	// StatusScheduled is a legacy alias still sent by older clients.
	// It is normalized to StatusApproved before anything touches the DB.
	StatusScheduled AppointmentStatus = "scheduled"

	DefaultAppointmentType = "regular"
)

// transitions is the full lifecycle table. cancelled and completed are
// terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusCancelled, StatusCompleted},
}

// NormalizeStatus folds the legacy "scheduled" alias into "approved".
func NormalizeStatus(s AppointmentStatus) AppointmentStatus {
	if s == StatusScheduled {
		return StatusApproved
	}
	return s
}

func (s AppointmentStatus) Valid() bool {
	switch NormalizeStatus(s) {
	case StatusPending, StatusApproved, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle table allows moving from s
// to next. Identity transitions are rejected; they carry no effect and
// would double-fire ledger updates.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[NormalizeStatus(s)] {
		if allowed == NormalizeStatus(next) {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	PatientID primitive.ObjectID  `json:"patientId" bson:"patientId"`
	DoctorID  *primitive.ObjectID `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	TimeSlot  *time.Time          `json:"timeSlot,omitempty" bson:"timeSlot,omitempty"`
	Status    AppointmentStatus   `json:"status" bson:"status"`
	Reason    string              `json:"reason" bson:"reason"`
	Notes     string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Symptoms  []string            `json:"symptoms" bson:"symptoms"`
	Type      string              `json:"type" bson:"type"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`

	// Populated for display, never persisted.
	Patient *UserSummary   `json:"patient,omitempty" bson:"-"`
	Doctor  *DoctorSummary `json:"doctor,omitempty" bson:"-"`
}
