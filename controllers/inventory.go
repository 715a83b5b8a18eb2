package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

type InventoryController struct {
	inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{inventory: inventory}
}

// RegisterAdmin mounts inventory management and the prescription path.
func (ic *InventoryController) RegisterAdmin(r gin.IRouter) {
	inventory := r.Group("/inventory")
	{
		inventory.POST("", ic.CreateItem)
		inventory.GET("", ic.ListItems)
		inventory.GET("/:id", ic.GetItem)
		inventory.PUT("/:id", ic.UpdateItem)
		inventory.DELETE("/:id", ic.DeleteItem)
		inventory.POST("/sale", ic.RecordSale)
	}
	r.GET("/analytics/inventory", ic.Analytics)
	r.POST("/medical-records/prescription", ic.Prescribe)
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req services.InventoryItemRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	item, err := ic.inventory.CreateItem(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(item))
}

func (ic *InventoryController) ListItems(c *gin.Context) {
	items, err := ic.inventory.ListItems(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(items))
}

func (ic *InventoryController) GetItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	item, err := ic.inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(item))
}

func (ic *InventoryController) UpdateItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	var upd services.InventoryUpdate
	if err := c.BindJSON(&upd); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	item, err := ic.inventory.UpdateItem(c.Request.Context(), id, upd)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(item))
}

func (ic *InventoryController) DeleteItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := ic.inventory.DeleteItem(c.Request.Context(), id); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(gin.H{"message": "item deleted"}))
}

func (ic *InventoryController) RecordSale(c *gin.Context) {
	var req services.SaleRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	rec, err := ic.inventory.RecordSale(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(rec))
}

func (ic *InventoryController) Analytics(c *gin.Context) {
	analytics, err := ic.inventory.Analytics(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(analytics))
}

// Prescribe dispenses a medication batch and writes the medical record in
// one transaction.
func (ic *InventoryController) Prescribe(c *gin.Context) {
	var req services.PrescriptionRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	record, err := ic.inventory.Consume(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(record))
}
