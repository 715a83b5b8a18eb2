package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bed is the singleton capacity ledger. availableBeds + bedsInUse ==
// totalBeds at all times; every mutation goes through the conditional
// updates in the bed store so neither counter can go negative.
type Bed struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TotalBeds     int                `json:"totalBeds" bson:"totalBeds"`
	AvailableBeds int                `json:"availableBeds" bson:"availableBeds"`
	BedsInUse     int                `json:"bedsInUse" bson:"bedsInUse"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Bed) Consistent() bool {
	return b.TotalBeds >= 0 && b.AvailableBeds >= 0 && b.BedsInUse >= 0 &&
		b.AvailableBeds+b.BedsInUse == b.TotalBeds
}
