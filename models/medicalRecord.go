package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medication references the inventory item it was dispensed from.
// MedicationID is the canonical link; Name is kept for display.
type Medication struct {
	MedicationID primitive.ObjectID `json:"medicationId" bson:"medicationId"`
	Name         string             `json:"name" bson:"name"`
	Dosage       string             `json:"dosage,omitempty" bson:"dosage,omitempty"`
	Duration     string             `json:"duration,omitempty" bson:"duration,omitempty"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	Unit         string             `json:"unit,omitempty" bson:"unit,omitempty"`
	Price        float64            `json:"price" bson:"price"`
}

type Attachment struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`
}

type LabResult struct {
	TestName    string    `json:"testName" bson:"testName"`
	Result      string    `json:"result" bson:"result"`
	NormalRange string    `json:"normalRange,omitempty" bson:"normalRange,omitempty"`
	Date        time.Time `json:"date" bson:"date"`
}

type MedicalRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID   primitive.ObjectID `json:"patientId" bson:"patientId"`
	Type        string             `json:"type" bson:"type"`
	Date        time.Time          `json:"date" bson:"date"`
	Diagnosis   string             `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Treatment   string             `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Medications []Medication       `json:"medications" bson:"medications"`
	Attachments []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	DoctorNotes string             `json:"doctorNotes,omitempty" bson:"doctorNotes,omitempty"`
	LabResults  []LabResult        `json:"labResults,omitempty" bson:"labResults,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
