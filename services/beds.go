package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"carewell-server/cache"
	"carewell-server/models"
	"carewell-server/util"
)

// BedService owns the singleton bed ledger. All mutation goes through the
// store's conditional updates so concurrent approvals can never overcommit.
type BedService struct {
	store       BedStore
	cache       *cache.Cache
	defaultBeds int
}

func NewBedService(store BedStore, c *cache.Cache, defaultBeds int) *BedService {
	return &BedService{store: store, cache: c, defaultBeds: defaultBeds}
}

// Status returns the current ledger, lazily creating the default-capacity
// record the first time it is asked for.
func (s *BedService) Status(ctx context.Context) (*models.Bed, error) {
	var cached models.Bed
	if err := s.cache.Get(ctx, cache.BedKey+"status", &cached); err == nil {
		return &cached, nil
	}

	bed, err := s.store.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		bed = &models.Bed{
			TotalBeds:     s.defaultBeds,
			AvailableBeds: s.defaultBeds,
			BedsInUse:     0,
		}
		if err := s.store.Create(ctx, bed); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.BedKey+"status", bed); err != nil {
		log.Warn().Err(err).Msg("failed to cache bed status")
	}
	return bed, nil
}

// Allocate moves one bed from available to in-use. ResourceExhausted when
// none are available.
func (s *BedService) Allocate(ctx context.Context) (*models.Bed, error) {
	// Make sure the singleton exists before the conditional update.
	if _, err := s.Status(ctx); err != nil {
		return nil, err
	}
	bed, err := s.store.Allocate(ctx)
	if errors.Is(err, ErrNoBedsAvailable) {
		return nil, util.ResourceExhaustedError("no beds available")
	}
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.BedKey+"status")
	return bed, nil
}

// Release moves one bed back from in-use to available. When the ledger is
// already at zero beds in use the release is skipped with a log entry; the
// ledger must never go negative.
func (s *BedService) Release(ctx context.Context) {
	_, err := s.store.Release(ctx)
	if errors.Is(err, ErrNoBedsInUse) || errors.Is(err, ErrNotFound) {
		log.Warn().Msg("bed release skipped: no beds in use")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("bed release failed")
		return
	}
	s.cache.Delete(ctx, cache.BedKey+"status")
}

// BedUpdateRequest is the admin mutation: an occupy/release action, or a
// direct overwrite of totalBeds/bedsInUse.
type BedUpdateRequest struct {
	Action    string `json:"action,omitempty"`
	TotalBeds *int   `json:"totalBeds,omitempty"`
	BedsInUse *int   `json:"bedsInUse,omitempty"`
}

// AdminUpdate applies the admin bed mutation. Unlike the orchestrator's
// release, an admin release of an empty ledger is an error, not a skip.
func (s *BedService) AdminUpdate(ctx context.Context, req BedUpdateRequest) (*models.Bed, error) {
	switch req.Action {
	case "occupy":
		return s.Allocate(ctx)
	case "release":
		bed, err := s.store.Release(ctx)
		if errors.Is(err, ErrNoBedsInUse) || errors.Is(err, ErrNotFound) {
			return nil, util.ResourceExhaustedError("no beds in use")
		}
		if err != nil {
			return nil, err
		}
		s.cache.Delete(ctx, cache.BedKey+"status")
		return bed, nil
	case "":
		if req.TotalBeds == nil || req.BedsInUse == nil {
			return nil, util.ValidationError("totalBeds and bedsInUse are required for a direct update")
		}
		total, inUse := *req.TotalBeds, *req.BedsInUse
		if total < 0 || inUse < 0 {
			return nil, util.ValidationError("bed counts cannot be negative")
		}
		if inUse > total {
			return nil, util.ValidationError("bedsInUse cannot exceed totalBeds")
		}
		if _, err := s.Status(ctx); err != nil {
			return nil, err
		}
		bed, err := s.store.Overwrite(ctx, total, inUse)
		if err != nil {
			return nil, err
		}
		s.cache.Delete(ctx, cache.BedKey+"status")
		return bed, nil
	default:
		return nil, util.ValidationError("unknown bed action %q", req.Action)
	}
}
