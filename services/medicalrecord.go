package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/util"
)

type MedicalRecordService struct {
	records MedicalRecordStore
}

func NewMedicalRecordService(records MedicalRecordStore) *MedicalRecordService {
	return &MedicalRecordService{records: records}
}

func (s *MedicalRecordService) ListForPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.MedicalRecord, error) {
	return s.records.FindByPatient(ctx, patientID)
}

func (s *MedicalRecordService) ListAll(ctx context.Context) ([]models.MedicalRecord, error) {
	return s.records.FindAll(ctx)
}

func (s *MedicalRecordService) Get(ctx context.Context, id primitive.ObjectID) (*models.MedicalRecord, error) {
	rec, err := s.records.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, util.NotFoundError("medical record not found")
	}
	return rec, err
}

type MedicalRecordUpdate struct {
	Type        *string             `json:"type,omitempty"`
	Diagnosis   *string             `json:"diagnosis,omitempty"`
	Treatment   *string             `json:"treatment,omitempty"`
	DoctorNotes *string             `json:"doctorNotes,omitempty"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
	LabResults  []models.LabResult  `json:"labResults,omitempty"`
}

// Update patches the editable fields. Medications are immutable here: they
// were dispensed against inventory inside the prescription transaction and
// cannot be edited after the fact.
func (s *MedicalRecordService) Update(ctx context.Context, id primitive.ObjectID, upd MedicalRecordUpdate) (*models.MedicalRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Type != nil {
		rec.Type = *upd.Type
	}
	if upd.Diagnosis != nil {
		rec.Diagnosis = *upd.Diagnosis
	}
	if upd.Treatment != nil {
		rec.Treatment = *upd.Treatment
	}
	if upd.DoctorNotes != nil {
		rec.DoctorNotes = *upd.DoctorNotes
	}
	if upd.Attachments != nil {
		rec.Attachments = upd.Attachments
	}
	if upd.LabResults != nil {
		rec.LabResults = upd.LabResults
	}
	if err := s.records.Replace(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *MedicalRecordService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.records.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return util.NotFoundError("medical record not found")
	}
	return err
}
