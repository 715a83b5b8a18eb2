package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/util"
)

const slotLength = 15 * time.Minute

// AvailabilityService computes open booking slots for a doctor on a date
// from the doctor's recurring weekly schedule minus already-booked slots.
type AvailabilityService struct {
	doctors      DoctorStore
	appointments AppointmentStore
	loc          *time.Location
}

func NewAvailabilityService(doctors DoctorStore, appointments AppointmentStore, loc *time.Location) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{doctors: doctors, appointments: appointments, loc: loc}
}

type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type AvailabilityResult struct {
	AvailableSlots []Slot `json:"availableSlots"`
	DayOfWeek      string `json:"dayOfWeek"`
	Message        string `json:"message"`
}

// AvailableSlots expands the doctor's schedule for the weekday of date
// into 15-minute slots, drops the ones whose start instant collides with a
// non-cancelled appointment that day, and returns them as absolute
// timestamps anchored to the requested date.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID primitive.ObjectID, date string) (*AvailabilityResult, error) {
	if date == "" {
		return nil, util.ValidationError("date parameter is required")
	}
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, util.ValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}

	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("doctor not found")
		}
		return nil, err
	}

	weekday := day.Weekday().String()
	schedule := doctor.ScheduleFor(weekday)
	if schedule == nil || len(schedule.Slots) == 0 {
		return &AvailabilityResult{
			AvailableSlots: []Slot{},
			DayOfWeek:      weekday,
			Message:        fmt.Sprintf("No slots available for %s", weekday),
		}, nil
	}

	var slots []Slot
	for _, window := range schedule.Slots {
		expanded, err := expandWindow(day, window)
		if err != nil {
			return nil, util.ValidationError("doctor has a malformed availability window: %v", err)
		}
		slots = append(slots, expanded...)
	}

	startOfDay := day
	endOfDay := day.Add(24*time.Hour - time.Second)
	booked, err := s.appointments.FindBookedBetween(ctx, doctorID, startOfDay, endOfDay)
	if err != nil {
		return nil, err
	}
	bookedStarts := make(map[int64]struct{}, len(booked))
	for _, ap := range booked {
		if ap.TimeSlot != nil {
			bookedStarts[ap.TimeSlot.UTC().Unix()] = struct{}{}
		}
	}

	// Filter booked slots and de-duplicate overlapping windows by start
	// instant in one pass.
	seen := make(map[int64]struct{}, len(slots))
	available := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		key := slot.StartTime.UTC().Unix()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, taken := bookedStarts[key]; taken {
			continue
		}
		available = append(available, slot)
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].StartTime.Before(available[j].StartTime)
	})

	return &AvailabilityResult{
		AvailableSlots: available,
		DayOfWeek:      weekday,
		Message:        fmt.Sprintf("Found %d slots for %s", len(available), weekday),
	}, nil
}

// expandWindow turns a "HH:MM"–"HH:MM" interval into 15-minute slots,
// left-aligned to the interval start. A trailing remainder shorter than a
// full slot is truncated.
func expandWindow(day time.Time, window models.TimeWindow) ([]Slot, error) {
	start, err := anchorClock(day, window.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := anchorClock(day, window.EndTime)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for cur := start; !cur.Add(slotLength).After(end); cur = cur.Add(slotLength) {
		slots = append(slots, Slot{StartTime: cur, EndTime: cur.Add(slotLength)})
	}
	return slots, nil
}

func anchorClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
