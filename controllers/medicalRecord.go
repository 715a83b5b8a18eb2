package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

type MedicalRecordController struct {
	records *services.MedicalRecordService
}

func NewMedicalRecordController(records *services.MedicalRecordService) *MedicalRecordController {
	return &MedicalRecordController{records: records}
}

// Register mounts the patient's own record history.
func (mc *MedicalRecordController) Register(r gin.IRouter) {
	r.GET("/medical-records", mc.ListOwn)
}

func (mc *MedicalRecordController) RegisterAdmin(r gin.IRouter) {
	records := r.Group("/medical-records")
	{
		records.GET("", mc.ListAll)
		records.GET("/:id", mc.Get)
		records.PUT("/:id", mc.Update)
		records.DELETE("/:id", mc.Delete)
	}
}

func (mc *MedicalRecordController) ListOwn(c *gin.Context) {
	patientID, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	list, err := mc.records.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (mc *MedicalRecordController) ListAll(c *gin.Context) {
	list, err := mc.records.ListAll(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (mc *MedicalRecordController) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	rec, err := mc.records.Get(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(rec))
}

func (mc *MedicalRecordController) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	var upd services.MedicalRecordUpdate
	if err := c.BindJSON(&upd); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	rec, err := mc.records.Update(c.Request.Context(), id, upd)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(rec))
}

func (mc *MedicalRecordController) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := mc.records.Delete(c.Request.Context(), id); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(gin.H{"message": "record deleted"}))
}
