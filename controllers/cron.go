package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

// CronController exposes the sweep as an HTTP endpoint so an external
// scheduler can drive it in addition to the in-process cron.
type CronController struct {
	appointments *services.AppointmentService
}

func NewCronController(appointments *services.AppointmentService) *CronController {
	return &CronController{appointments: appointments}
}

func (cc *CronController) Register(r gin.IRouter) {
	r.GET("/cron/check-appointments", cc.CheckAppointments)
}

func (cc *CronController) CheckAppointments(c *gin.Context) {
	updated, err := cc.appointments.SweepExpiredApprovals(c.Request.Context(), time.Now())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(gin.H{"updatedCount": updated}))
}
