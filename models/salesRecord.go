package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SalesRecord struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ItemID         primitive.ObjectID  `json:"itemId" bson:"itemId"`
	Quantity       int                 `json:"quantity" bson:"quantity"`
	TotalAmount    float64             `json:"totalAmount" bson:"totalAmount"`
	PrescriptionID *primitive.ObjectID `json:"prescriptionId,omitempty" bson:"prescriptionId,omitempty"`
	UserID         *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Date           time.Time           `json:"date" bson:"date"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}
