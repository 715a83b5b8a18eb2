package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/util"
)

// 2024-01-01 is a Monday.
const mondayDate = "2024-01-01"

func newAvailabilityFixture(t *testing.T, windows []models.TimeWindow) (*AvailabilityService, *fakeAppointmentStore, primitive.ObjectID) {
	t.Helper()

	doctors := newFakeDoctorStore()
	appointments := newFakeAppointmentStore()
	doctor := &models.Doctor{
		Name:   "Dr. Osei",
		Status: models.DoctorActive,
		Availability: []models.DaySchedule{
			{Day: "Monday", Slots: windows},
		},
	}
	require.NoError(t, doctors.Insert(context.Background(), doctor))

	svc := NewAvailabilityService(doctors, appointments, time.UTC)
	return svc, appointments, doctor.ID
}

func bookAt(t *testing.T, appointments *fakeAppointmentStore, doctorID primitive.ObjectID, slot time.Time, status models.AppointmentStatus) {
	t.Helper()
	require.NoError(t, appointments.Insert(context.Background(), &models.Appointment{
		PatientID: primitive.NewObjectID(),
		DoctorID:  &doctorID,
		TimeSlot:  &slot,
		Status:    status,
		Reason:    "checkup",
	}))
}

func TestAvailableSlotsExcludesBookedSlot(t *testing.T) {
	svc, appointments, doctorID := newAvailabilityFixture(t, []models.TimeWindow{
		{StartTime: "09:00", EndTime: "10:00"},
	})
	booked := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	bookAt(t, appointments, doctorID, booked, models.StatusApproved)

	result, err := svc.AvailableSlots(context.Background(), doctorID, mondayDate)
	require.NoError(t, err)

	starts := make([]string, 0, len(result.AvailableSlots))
	for _, slot := range result.AvailableSlots {
		starts = append(starts, slot.StartTime.Format("15:04"))
	}
	assert.Equal(t, []string{"09:00", "09:15", "09:45"}, starts)
	assert.Equal(t, "Monday", result.DayOfWeek)
	assert.Equal(t, "Found 3 slots for Monday", result.Message)
}

func TestAvailableSlotsCancelledBookingDoesNotBlock(t *testing.T) {
	svc, appointments, doctorID := newAvailabilityFixture(t, []models.TimeWindow{
		{StartTime: "09:00", EndTime: "10:00"},
	})
	booked := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	bookAt(t, appointments, doctorID, booked, models.StatusCancelled)

	result, err := svc.AvailableSlots(context.Background(), doctorID, mondayDate)
	require.NoError(t, err)
	assert.Len(t, result.AvailableSlots, 4)
}

func TestAvailableSlotsComparesBookingsByInstant(t *testing.T) {
	svc, appointments, doctorID := newAvailabilityFixture(t, []models.TimeWindow{
		{StartTime: "09:00", EndTime: "10:00"},
	})
	// 11:30+02:00 is the same instant as 09:30 UTC.
	offset := time.FixedZone("EET", 2*3600)
	booked := time.Date(2024, 1, 1, 11, 30, 0, 0, offset)
	bookAt(t, appointments, doctorID, booked, models.StatusApproved)

	result, err := svc.AvailableSlots(context.Background(), doctorID, mondayDate)
	require.NoError(t, err)

	for _, slot := range result.AvailableSlots {
		assert.NotEqual(t, int64(booked.UTC().Unix()), slot.StartTime.UTC().Unix())
	}
	assert.Len(t, result.AvailableSlots, 3)
}

func TestAvailableSlotsDeduplicatesOverlappingWindows(t *testing.T) {
	svc, _, doctorID := newAvailabilityFixture(t, []models.TimeWindow{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "09:30", EndTime: "10:30"},
	})

	result, err := svc.AvailableSlots(context.Background(), doctorID, mondayDate)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, slot := range result.AvailableSlots {
		key := slot.StartTime.Format("15:04")
		assert.False(t, seen[key], "duplicate slot %s", key)
		seen[key] = true
	}
	// 09:00 through 10:15 inclusive, every 15 minutes.
	assert.Len(t, result.AvailableSlots, 6)
}

func TestAvailableSlotsTruncatesPartialSlot(t *testing.T) {
	svc, _, doctorID := newAvailabilityFixture(t, []models.TimeWindow{
		{StartTime: "09:00", EndTime: "09:40"},
	})

	result, err := svc.AvailableSlots(context.Background(), doctorID, mondayDate)
	require.NoError(t, err)

	starts := make([]string, 0, len(result.AvailableSlots))
	for _, slot := range result.AvailableSlots {
		starts = append(starts, slot.StartTime.Format("15:04"))
	}
	assert.Equal(t, []string{"09:00", "09:15"}, starts)
}

func TestAvailableSlotsRequiresDate(t *testing.T) {
	svc, _, doctorID := newAvailabilityFixture(t, nil)

	_, err := svc.AvailableSlots(context.Background(), doctorID, "")
	require.Error(t, err)
	appErr, ok := util.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, util.CodeValidation, appErr.Code)
}

func TestAvailableSlotsRejectsMalformedDate(t *testing.T) {
	svc, _, doctorID := newAvailabilityFixture(t, nil)

	_, err := svc.AvailableSlots(context.Background(), doctorID, "01-01-2024")
	require.Error(t, err)
	appErr, ok := util.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, util.CodeValidation, appErr.Code)
}

func TestAvailableSlotsUnscheduledDay(t *testing.T) {
	svc, _, doctorID := newAvailabilityFixture(t, []models.TimeWindow{
		{StartTime: "09:00", EndTime: "10:00"},
	})

	// 2024-01-02 is a Tuesday; the doctor only works Mondays.
	result, err := svc.AvailableSlots(context.Background(), doctorID, "2024-01-02")
	require.NoError(t, err)
	assert.Empty(t, result.AvailableSlots)
	assert.Equal(t, "No slots available for Tuesday", result.Message)
}

func TestAvailableSlotsUnknownDoctor(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t, nil)

	_, err := svc.AvailableSlots(context.Background(), primitive.NewObjectID(), mondayDate)
	require.Error(t, err)
	appErr, ok := util.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, util.CodeNotFound, appErr.Code)
}
