package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/services"
	"carewell-server/util"
)

type AppointmentController struct {
	appointments *services.AppointmentService
}

func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// Register mounts the patient-facing appointment routes.
func (ac *AppointmentController) Register(r gin.IRouter) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", ac.Create)
		appointments.GET("", ac.List)
		// Cancellation is the only transition a patient may request.
		appointments.PUT("/:id", ac.Cancel)
	}
}

// RegisterAdmin mounts the staff appointment surface.
func (ac *AppointmentController) RegisterAdmin(r gin.IRouter) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", ac.ListAll)
		appointments.PUT("", ac.Update)
	}
}

func (ac *AppointmentController) Create(c *gin.Context) {
	patientID, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req services.CreateAppointmentRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	ap, err := ac.appointments.Create(c.Request.Context(), patientID, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(ap))
}

func (ac *AppointmentController) List(c *gin.Context) {
	patientID, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	list, err := ac.appointments.ListForPatient(c.Request.Context(), patientID, c.Query("status"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (ac *AppointmentController) Cancel(c *gin.Context) {
	patientID, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	ap, err := ac.appointments.Cancel(c.Request.Context(), patientID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(ap))
}

func (ac *AppointmentController) ListAll(c *gin.Context) {
	list, err := ac.appointments.ListAll(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

type adminTransitionRequest struct {
	AppointmentID string     `json:"appointmentId"`
	Status        string     `json:"status,omitempty"`
	DoctorID      string     `json:"doctorId,omitempty"`
	Datetime      *time.Time `json:"datetime,omitempty"`
}

// Update applies a lifecycle transition or doctor/slot assignment. Sending
// a doctorId implies approval.
func (ac *AppointmentController) Update(c *gin.Context) {
	var req adminTransitionRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	id, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		util.Fail(c, util.ValidationError("invalid appointmentId"))
		return
	}

	intent := services.TransitionIntent{
		Status:   models.AppointmentStatus(req.Status),
		TimeSlot: req.Datetime,
	}
	if req.DoctorID != "" {
		doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
		if err != nil {
			util.Fail(c, util.ValidationError("invalid doctorId"))
			return
		}
		intent.DoctorID = &doctorID
	}

	ap, err := ac.appointments.Transition(c.Request.Context(), id, intent)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(ap))
}
