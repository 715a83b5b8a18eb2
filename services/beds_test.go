package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carewell-server/models"
	"carewell-server/util"
)

func intPtr(v int) *int { return &v }

func TestStatusLazilyCreatesDefaultLedger(t *testing.T) {
	store := &fakeBedStore{}
	svc := NewBedService(store, nil, 100)

	bed, err := svc.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, bed.TotalBeds)
	assert.Equal(t, 100, bed.AvailableBeds)
	assert.Equal(t, 0, bed.BedsInUse)
	assert.True(t, bed.Consistent())
	require.NotNil(t, store.bed, "ledger must be persisted on first read")
}

func TestAllocateAtZeroAvailable(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 2, AvailableBeds: 0, BedsInUse: 2}}
	svc := NewBedService(store, nil, 2)

	_, err := svc.Allocate(context.Background())
	require.Error(t, err)
	appErr, ok := util.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, util.CodeResourceExhausted, appErr.Code)
	assert.True(t, store.bed.Consistent())
}

func TestReleaseAtZeroInUseIsSkipped(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 5, AvailableBeds: 5, BedsInUse: 0}}
	svc := NewBedService(store, nil, 5)

	svc.Release(context.Background())

	assert.Equal(t, 5, store.bed.AvailableBeds)
	assert.Equal(t, 0, store.bed.BedsInUse)
}

func TestAdminReleaseAtZeroInUseIsAnError(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 5, AvailableBeds: 5, BedsInUse: 0}}
	svc := NewBedService(store, nil, 5)

	_, err := svc.AdminUpdate(context.Background(), BedUpdateRequest{Action: "release"})
	require.Error(t, err)
	appErr, ok := util.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, util.CodeResourceExhausted, appErr.Code)
}

func TestAdminOccupyAndRelease(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 5, AvailableBeds: 5, BedsInUse: 0}}
	svc := NewBedService(store, nil, 5)

	bed, err := svc.AdminUpdate(context.Background(), BedUpdateRequest{Action: "occupy"})
	require.NoError(t, err)
	assert.Equal(t, 1, bed.BedsInUse)

	bed, err = svc.AdminUpdate(context.Background(), BedUpdateRequest{Action: "release"})
	require.NoError(t, err)
	assert.Equal(t, 0, bed.BedsInUse)
	assert.True(t, bed.Consistent())
}

func TestAdminOverwriteRecomputesAvailable(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 5, AvailableBeds: 5, BedsInUse: 0}}
	svc := NewBedService(store, nil, 5)

	bed, err := svc.AdminUpdate(context.Background(), BedUpdateRequest{
		TotalBeds: intPtr(20),
		BedsInUse: intPtr(6),
	})
	require.NoError(t, err)

	assert.Equal(t, 20, bed.TotalBeds)
	assert.Equal(t, 6, bed.BedsInUse)
	assert.Equal(t, 14, bed.AvailableBeds)
	assert.True(t, bed.Consistent())
}

func TestAdminOverwriteValidation(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 5, AvailableBeds: 5, BedsInUse: 0}}
	svc := NewBedService(store, nil, 5)

	cases := []BedUpdateRequest{
		{TotalBeds: intPtr(10)},
		{TotalBeds: intPtr(-1), BedsInUse: intPtr(0)},
		{TotalBeds: intPtr(5), BedsInUse: intPtr(6)},
		{Action: "explode"},
	}
	for _, req := range cases {
		_, err := svc.AdminUpdate(context.Background(), req)
		require.Error(t, err)
		appErr, ok := util.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, util.CodeValidation, appErr.Code)
	}
}

func TestLedgerStaysConsistentAcrossSequences(t *testing.T) {
	store := &fakeBedStore{bed: &models.Bed{TotalBeds: 3, AvailableBeds: 3, BedsInUse: 0}}
	svc := NewBedService(store, nil, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Allocate(ctx)
		require.NoError(t, err)
		require.True(t, store.bed.Consistent())
	}
	_, err := svc.Allocate(ctx)
	require.Error(t, err, "fourth allocation must fail on a 3-bed ledger")

	for i := 0; i < 3; i++ {
		svc.Release(ctx)
		require.True(t, store.bed.Consistent())
	}
	svc.Release(ctx)
	assert.Equal(t, 3, store.bed.AvailableBeds)
	assert.Equal(t, 0, store.bed.BedsInUse)
}
