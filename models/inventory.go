package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryMedicine   = "Medicine"
	CategoryEquipment  = "Equipment"
	CategorySupplies   = "Supplies"
	CategoryLaboratory = "Laboratory"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryMedicine, CategoryEquipment, CategorySupplies, CategoryLaboratory:
		return true
	}
	return false
}

// SaleEntry is the embedded per-item sale log. Append-only; the quantity
// counter never decreases except through one of these entries.
type SaleEntry struct {
	Date           time.Time           `json:"date" bson:"date"`
	Quantity       int                 `json:"quantity" bson:"quantity"`
	UserID         *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	PrescriptionID *primitive.ObjectID `json:"prescriptionId,omitempty" bson:"prescriptionId,omitempty"`
}

type InventoryItem struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Category     string             `json:"category" bson:"category"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	Unit         string             `json:"unit" bson:"unit"`
	MinQuantity  int                `json:"minQuantity" bson:"minQuantity"`
	Location     string             `json:"location" bson:"location"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Price        float64            `json:"price" bson:"price"`
	InitialStock int                `json:"initialStock" bson:"initialStock"`
	SoldQuantity int                `json:"soldQuantity" bson:"soldQuantity"`
	Sales        []SaleEntry        `json:"sales" bson:"sales"`
	LastUpdated  time.Time          `json:"lastUpdated" bson:"lastUpdated"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

func (i *InventoryItem) TotalRevenue() float64 {
	return float64(i.SoldQuantity) * i.Price
}
