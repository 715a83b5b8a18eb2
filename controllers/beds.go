package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

type BedController struct {
	beds *services.BedService
}

func NewBedController(beds *services.BedService) *BedController {
	return &BedController{beds: beds}
}

func (bc *BedController) Register(r gin.IRouter) {
	r.GET("/beds", bc.Status)
}

func (bc *BedController) RegisterAdmin(r gin.IRouter) {
	beds := r.Group("/beds")
	{
		beds.GET("", bc.Status)
		beds.PUT("", bc.Update)
	}
}

func (bc *BedController) Status(c *gin.Context) {
	bed, err := bc.beds.Status(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(bed))
}

func (bc *BedController) Update(c *gin.Context) {
	var req services.BedUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	bed, err := bc.beds.AdminUpdate(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(bed))
}
