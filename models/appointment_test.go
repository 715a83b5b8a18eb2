package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		allowed  bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusPending, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusPending, false},
		{StatusCompleted, StatusApproved, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestScheduledAliasBehavesAsApproved(t *testing.T) {
	assert.Equal(t, StatusApproved, NormalizeStatus(StatusScheduled))
	assert.True(t, StatusScheduled.Valid())
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusPending.CanTransitionTo(StatusScheduled))
	assert.False(t, StatusScheduled.CanTransitionTo(StatusApproved))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, AppointmentStatus("archived").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}
