package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/util"
)

// InventoryService owns stock. Batch consumption (the prescription path)
// runs inside a single storage transaction: either every decrement, every
// sales record and the medical record commit together, or none do.
type InventoryService struct {
	items   InventoryStore
	sales   SalesRecordStore
	records MedicalRecordStore
	tx      TxRunner
}

func NewInventoryService(items InventoryStore, sales SalesRecordStore, records MedicalRecordStore, tx TxRunner) *InventoryService {
	return &InventoryService{items: items, sales: sales, records: records, tx: tx}
}

type InventoryItemRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Quantity     *int     `json:"quantity"`
	Unit         string   `json:"unit"`
	MinQuantity  *int     `json:"minQuantity"`
	Location     string   `json:"location"`
	Description  string   `json:"description,omitempty"`
	Price        *float64 `json:"price"`
	InitialStock *int     `json:"initialStock,omitempty"`
}

func (s *InventoryService) CreateItem(ctx context.Context, req InventoryItemRequest) (*models.InventoryItem, error) {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if req.Category == "" {
		missing = append(missing, "category")
	}
	if req.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if req.Unit == "" {
		missing = append(missing, "unit")
	}
	if req.MinQuantity == nil {
		missing = append(missing, "minQuantity")
	}
	if req.Location == "" {
		missing = append(missing, "location")
	}
	if req.Price == nil {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return nil, util.ValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !models.ValidCategory(req.Category) {
		return nil, util.ValidationError("unknown category %q", req.Category)
	}
	if *req.Quantity < 0 || *req.MinQuantity < 0 || *req.Price < 0 {
		return nil, util.ValidationError("quantity, minQuantity and price cannot be negative")
	}

	initial := *req.Quantity
	if req.InitialStock != nil {
		initial = *req.InitialStock
	}
	item := &models.InventoryItem{
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Quantity:     *req.Quantity,
		Unit:         req.Unit,
		MinQuantity:  *req.MinQuantity,
		Location:     req.Location,
		Description:  req.Description,
		Price:        *req.Price,
		InitialStock: initial,
		Sales:        []models.SaleEntry{},
	}
	if err := s.items.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, util.NotFoundError("inventory item not found")
	}
	return item, err
}

func (s *InventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.items.FindAll(ctx)
}

func (s *InventoryService) UpdateItem(ctx context.Context, id primitive.ObjectID, upd InventoryUpdate) (*models.InventoryItem, error) {
	if upd.Category != nil && !models.ValidCategory(*upd.Category) {
		return nil, util.ValidationError("unknown category %q", *upd.Category)
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return nil, util.ValidationError("quantity cannot be negative")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, util.ValidationError("price cannot be negative")
	}
	item, err := s.items.Update(ctx, id, upd)
	if errors.Is(err, ErrNotFound) {
		return nil, util.NotFoundError("inventory item not found")
	}
	return item, err
}

func (s *InventoryService) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	err := s.items.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return util.NotFoundError("inventory item not found")
	}
	return err
}

// MedicationLine is one requested medication. MedicationID is canonical;
// Name-only lookup remains as a legacy shim for older clients.
type MedicationLine struct {
	MedicationID string `json:"medicationId,omitempty"`
	Name         string `json:"name,omitempty"`
	Quantity     int    `json:"quantity"`
	Dosage       string `json:"dosage,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

type PrescriptionRequest struct {
	PatientID   string           `json:"patientId"`
	Type        string           `json:"type,omitempty"`
	Diagnosis   string           `json:"diagnosis,omitempty"`
	Treatment   string           `json:"treatment,omitempty"`
	DoctorNotes string           `json:"doctorNotes,omitempty"`
	Medications []MedicationLine `json:"medications"`
}

// Consume dispenses the requested medications and writes the associated
// medical record, all inside one transaction. If any single medication is
// understocked the whole batch fails and no stock moves.
func (s *InventoryService) Consume(ctx context.Context, req PrescriptionRequest) (*models.MedicalRecord, error) {
	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return nil, util.ValidationError("invalid patientId")
	}
	if len(req.Medications) == 0 {
		return nil, util.ValidationError("at least one medication is required")
	}
	for _, line := range req.Medications {
		if line.Quantity < 1 {
			return nil, util.ValidationError("medication quantity must be at least 1")
		}
		if line.MedicationID == "" && strings.TrimSpace(line.Name) == "" {
			return nil, util.ValidationError("each medication needs a medicationId or a name")
		}
	}

	recordType := req.Type
	if recordType == "" {
		recordType = "Prescription"
	}

	var record *models.MedicalRecord
	txErr := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		now := time.Now()
		medications := make([]models.Medication, 0, len(req.Medications))

		for _, line := range req.Medications {
			item, err := s.resolveItem(ctx, line)
			if err != nil {
				return err
			}
			if item.Quantity < line.Quantity {
				return util.InsufficientStockError(item.Name, item.Quantity, line.Quantity)
			}

			sale := models.SaleEntry{Date: now, Quantity: line.Quantity, UserID: &patientID}
			if err := s.items.DecrementStock(ctx, item.ID, line.Quantity, sale); err != nil {
				if errors.Is(err, ErrStockConflict) {
					return util.InsufficientStockError(item.Name, item.Quantity, line.Quantity)
				}
				return err
			}

			if err := s.sales.Insert(ctx, &models.SalesRecord{
				ItemID:      item.ID,
				Quantity:    line.Quantity,
				TotalAmount: float64(line.Quantity) * item.Price,
				UserID:      &patientID,
				Date:        now,
			}); err != nil {
				return err
			}

			medications = append(medications, models.Medication{
				MedicationID: item.ID,
				Name:         item.Name,
				Dosage:       line.Dosage,
				Duration:     line.Duration,
				Quantity:     line.Quantity,
				Unit:         item.Unit,
				Price:        item.Price,
			})
		}

		record = &models.MedicalRecord{
			PatientID:   patientID,
			Type:        recordType,
			Date:        now,
			Diagnosis:   req.Diagnosis,
			Treatment:   req.Treatment,
			DoctorNotes: req.DoctorNotes,
			Medications: medications,
		}
		return s.records.Insert(ctx, record)
	})
	if txErr != nil {
		return nil, txErr
	}
	return record, nil
}

// SaleRequest is the direct counter-sale path: a single item, no medical
// record.
type SaleRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	UserID   string `json:"userId,omitempty"`
}

func (s *InventoryService) RecordSale(ctx context.Context, req SaleRequest) (*models.SalesRecord, error) {
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		return nil, util.ValidationError("invalid itemId")
	}
	if req.Quantity < 1 {
		return nil, util.ValidationError("quantity must be at least 1")
	}
	var userID *primitive.ObjectID
	if req.UserID != "" {
		parsed, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, util.ValidationError("invalid userId")
		}
		userID = &parsed
	}

	var rec *models.SalesRecord
	txErr := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		item, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return util.NotFoundError("inventory item not found")
			}
			return err
		}
		if item.Quantity < req.Quantity {
			return util.InsufficientStockError(item.Name, item.Quantity, req.Quantity)
		}

		now := time.Now()
		sale := models.SaleEntry{Date: now, Quantity: req.Quantity, UserID: userID}
		if err := s.items.DecrementStock(ctx, item.ID, req.Quantity, sale); err != nil {
			if errors.Is(err, ErrStockConflict) {
				return util.InsufficientStockError(item.Name, item.Quantity, req.Quantity)
			}
			return err
		}
		rec = &models.SalesRecord{
			ItemID:      item.ID,
			Quantity:    req.Quantity,
			TotalAmount: float64(req.Quantity) * item.Price,
			UserID:      userID,
			Date:        now,
		}
		return s.sales.Insert(ctx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}
	return rec, nil
}

func (s *InventoryService) Analytics(ctx context.Context) (*InventoryAnalytics, error) {
	return s.items.Analytics(ctx)
}

func (s *InventoryService) resolveItem(ctx context.Context, line MedicationLine) (*models.InventoryItem, error) {
	if line.MedicationID != "" {
		id, err := primitive.ObjectIDFromHex(line.MedicationID)
		if err != nil {
			return nil, util.ValidationError("invalid medicationId %q", line.MedicationID)
		}
		item, err := s.items.FindByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("medication %s not found in inventory", line.MedicationID)
		}
		return item, err
	}
	item, err := s.items.FindByName(ctx, strings.TrimSpace(line.Name))
	if errors.Is(err, ErrNotFound) {
		return nil, util.NotFoundError("medication %s not found in inventory", line.Name)
	}
	return item, err
}
