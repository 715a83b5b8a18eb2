package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
)

// Sentinel errors returned by stores. Services translate them into the
// user-facing error taxonomy.
var (
	ErrNotFound        = errors.New("record not found")
	ErrNoBedsAvailable = errors.New("no beds available")
	ErrNoBedsInUse     = errors.New("no beds in use")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrStockConflict   = errors.New("stock changed concurrently")
	ErrStaleStatus     = errors.New("appointment status changed concurrently")
)

// AppointmentUpdate carries the fields a transition may change. Nil fields
// are left untouched. When ExpectedStatus is set the write must be
// conditional on the stored status still matching it, so a transition that
// lost a race fails with ErrStaleStatus instead of overwriting the winner.
type AppointmentUpdate struct {
	Status         *models.AppointmentStatus
	ExpectedStatus *models.AppointmentStatus
	DoctorID       *primitive.ObjectID
	TimeSlot       *time.Time
	Notes          *string
}

type AppointmentStore interface {
	Insert(ctx context.Context, ap *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	// FindByPatient returns the patient's appointments, newest time slot
	// first, optionally restricted to the given statuses.
	FindByPatient(ctx context.Context, patientID primitive.ObjectID, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, id primitive.ObjectID, upd AppointmentUpdate) (*models.Appointment, error)
	// FindExpiredApproved returns approved appointments whose time slot is
	// strictly before now.
	FindExpiredApproved(ctx context.Context, now time.Time) ([]models.Appointment, error)
	// FindBookedBetween returns the doctor's non-cancelled appointments with
	// a time slot in [from, to].
	FindBookedBetween(ctx context.Context, doctorID primitive.ObjectID, from, to time.Time) ([]models.Appointment, error)
	CountByStatus(ctx context.Context, patientID *primitive.ObjectID) (map[models.AppointmentStatus]int64, error)
	FindUpcoming(ctx context.Context, patientID primitive.ObjectID, now time.Time, limit int64) ([]models.Appointment, error)
}

// BedStore persists the singleton ledger. Allocate and Release must be
// atomic conditional updates at the storage layer: Allocate fails with
// ErrNoBedsAvailable instead of ever taking availableBeds below zero, and
// Release fails with ErrNoBedsInUse instead of taking bedsInUse below zero.
type BedStore interface {
	Get(ctx context.Context) (*models.Bed, error)
	Create(ctx context.Context, bed *models.Bed) error
	Allocate(ctx context.Context) (*models.Bed, error)
	Release(ctx context.Context) (*models.Bed, error)
	Overwrite(ctx context.Context, totalBeds, bedsInUse int) (*models.Bed, error)
}

type InventoryUpdate struct {
	Name        *string
	Category    *string
	Quantity    *int
	Unit        *string
	MinQuantity *int
	Location    *string
	Description *string
	Price       *float64
}

type InventoryStore interface {
	Insert(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error)
	FindByName(ctx context.Context, name string) (*models.InventoryItem, error)
	FindAll(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, id primitive.ObjectID, upd InventoryUpdate) (*models.InventoryItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock moves qty units from quantity to soldQuantity and
	// appends the sale entry, guarded by quantity >= qty in the same update.
	// Returns ErrStockConflict when the guard misses.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int, sale models.SaleEntry) error
	CountLowStock(ctx context.Context) (int64, error)
	Analytics(ctx context.Context) (*InventoryAnalytics, error)
}

type SalesRecordStore interface {
	Insert(ctx context.Context, rec *models.SalesRecord) error
}

type MedicalRecordStore interface {
	Insert(ctx context.Context, rec *models.MedicalRecord) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MedicalRecord, error)
	FindByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.MedicalRecord, error)
	FindAll(ctx context.Context) ([]models.MedicalRecord, error)
	Replace(ctx context.Context, rec *models.MedicalRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DoctorStore interface {
	Insert(ctx context.Context, doc *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Doctor, error)
	Replace(ctx context.Context, doc *models.Doctor) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type UserUpdate struct {
	FullName *string
	Phone    *string
	Role     *string
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByRole(ctx context.Context, r string) ([]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRole(ctx context.Context) (map[string]int64, error)
}

// TxRunner runs fn inside a storage transaction. Store calls made with the
// ctx passed to fn join that transaction; fn returning an error aborts it.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mailer dispatches best-effort notifications. Implementations must never
// block the caller or report failure; delivery problems are their own
// concern.
type Mailer interface {
	SendApproval(ap *models.Appointment)
	SendCancellation(ap *models.Appointment)
}

type CategoryStats struct {
	Category   string  `json:"category"`
	ItemCount  int64   `json:"itemCount"`
	TotalStock int64   `json:"totalStock"`
	TotalSold  int64   `json:"totalSold"`
	Revenue    float64 `json:"revenue"`
}

type ItemSales struct {
	ItemID   primitive.ObjectID `json:"itemId"`
	Name     string             `json:"name"`
	Sold     int64              `json:"sold"`
	Revenue  float64            `json:"revenue"`
	LowStock bool               `json:"lowStock"`
}

type InventoryAnalytics struct {
	Categories   []CategoryStats `json:"categories"`
	TopSellers   []ItemSales     `json:"topSellers"`
	TotalRevenue float64         `json:"totalRevenue"`
}
