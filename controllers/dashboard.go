package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

type DashboardController struct {
	dashboards *services.DashboardService
}

func NewDashboardController(dashboards *services.DashboardService) *DashboardController {
	return &DashboardController{dashboards: dashboards}
}

func (dc *DashboardController) Register(r gin.IRouter) {
	r.GET("/dashboard", dc.Patient)
}

func (dc *DashboardController) RegisterAdmin(r gin.IRouter) {
	r.GET("/dashboard", dc.Admin)
}

func (dc *DashboardController) Patient(c *gin.Context) {
	patientID, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	data, err := dc.dashboards.ForPatient(c.Request.Context(), patientID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(data))
}

func (dc *DashboardController) Admin(c *gin.Context) {
	data, err := dc.dashboards.ForAdmin(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(data))
}
