package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"carewell-server/services"
)

// Start schedules the appointment sweep. The sweep is idempotent, so an
// overlapping or repeated run cannot double-complete anything.
func Start(schedule string, appointments *services.AppointmentService) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		updated, err := appointments.SweepExpiredApprovals(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("appointment sweep failed")
			return
		}
		if updated > 0 {
			log.Info().Int("updatedCount", updated).Msg("appointment sweep completed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
