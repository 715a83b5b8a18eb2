package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

type DoctorController struct {
	doctors      *services.DoctorService
	availability *services.AvailabilityService
}

func NewDoctorController(doctors *services.DoctorService, availability *services.AvailabilityService) *DoctorController {
	return &DoctorController{doctors: doctors, availability: availability}
}

// Register mounts the public read-only doctor surface.
func (dc *DoctorController) Register(r gin.IRouter) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", dc.List)
		doctors.GET("/:id", dc.Get)
		doctors.GET("/:id/availability", dc.Availability)
	}
}

// RegisterAuthed mounts the routes that need a signed-in caller.
func (dc *DoctorController) RegisterAuthed(r gin.IRouter) {
	r.POST("/doctors/:id/ratings", dc.AddRating)
}

// RegisterAdmin mounts doctor management for staff.
func (dc *DoctorController) RegisterAdmin(r gin.IRouter) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", dc.Create)
		doctors.PUT("/:id", dc.Update)
		doctors.DELETE("/:id", dc.Delete)
	}
}

func (dc *DoctorController) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	list, err := dc.doctors.List(c.Request.Context(), activeOnly)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (dc *DoctorController) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	doc, err := dc.doctors.Get(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(doc))
}

// Availability returns the doctor's open 15-minute slots for the date in
// the ?date=YYYY-MM-DD query parameter.
func (dc *DoctorController) Availability(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	result, err := dc.availability.AvailableSlots(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(result))
}

type ratingRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review,omitempty"`
}

func (dc *DoctorController) AddRating(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req ratingRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	doc, err := dc.doctors.AddRating(c.Request.Context(), id, req.Rating, req.Review)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(doc))
}

func (dc *DoctorController) Create(c *gin.Context) {
	var req services.DoctorRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	doc, err := dc.doctors.Create(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(doc))
}

func (dc *DoctorController) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req services.DoctorRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	doc, err := dc.doctors.Update(c.Request.Context(), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(doc))
}

func (dc *DoctorController) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := dc.doctors.Delete(c.Request.Context(), id); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(gin.H{"message": "doctor deleted"}))
}
