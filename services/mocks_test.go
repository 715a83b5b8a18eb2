package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
)

// In-memory store fakes. They mirror the conditional-update semantics of
// the mongo stores so the services can be exercised without a database.

type fakeAppointmentStore struct {
	items map[primitive.ObjectID]*models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{items: map[primitive.ObjectID]*models.Appointment{}}
}

func (f *fakeAppointmentStore) Insert(_ context.Context, ap *models.Appointment) error {
	if ap.ID.IsZero() {
		ap.ID = primitive.NewObjectID()
	}
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt
	clone := *ap
	f.items[ap.ID] = &clone
	return nil
}

func (f *fakeAppointmentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	ap, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *ap
	return &clone, nil
}

func (f *fakeAppointmentStore) FindByPatient(_ context.Context, patientID primitive.ObjectID, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.items {
		if ap.PatientID != patientID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, ap.Status) {
			continue
		}
		out = append(out, *ap)
	}
	sort.Slice(out, func(i, j int) bool {
		return slotOf(out[i]).After(slotOf(out[j]))
	})
	return out, nil
}

func (f *fakeAppointmentStore) FindAll(_ context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.items {
		out = append(out, *ap)
	}
	return out, nil
}

func (f *fakeAppointmentStore) Update(_ context.Context, id primitive.ObjectID, upd AppointmentUpdate) (*models.Appointment, error) {
	ap, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.ExpectedStatus != nil && ap.Status != *upd.ExpectedStatus {
		return nil, ErrStaleStatus
	}
	if upd.Status != nil {
		ap.Status = *upd.Status
	}
	if upd.DoctorID != nil {
		ap.DoctorID = upd.DoctorID
	}
	if upd.TimeSlot != nil {
		ap.TimeSlot = upd.TimeSlot
	}
	if upd.Notes != nil {
		ap.Notes = *upd.Notes
	}
	ap.UpdatedAt = time.Now()
	clone := *ap
	return &clone, nil
}

func (f *fakeAppointmentStore) FindExpiredApproved(_ context.Context, now time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.items {
		status := models.NormalizeStatus(ap.Status)
		if status == models.StatusApproved && ap.TimeSlot != nil && ap.TimeSlot.Before(now) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindBookedBetween(_ context.Context, doctorID primitive.ObjectID, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.items {
		if ap.DoctorID == nil || *ap.DoctorID != doctorID || ap.TimeSlot == nil {
			continue
		}
		if models.NormalizeStatus(ap.Status) == models.StatusCancelled {
			continue
		}
		if ap.TimeSlot.Before(from) || ap.TimeSlot.After(to) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (f *fakeAppointmentStore) CountByStatus(_ context.Context, patientID *primitive.ObjectID) (map[models.AppointmentStatus]int64, error) {
	counts := map[models.AppointmentStatus]int64{}
	for _, ap := range f.items {
		if patientID != nil && ap.PatientID != *patientID {
			continue
		}
		counts[models.NormalizeStatus(ap.Status)]++
	}
	return counts, nil
}

func (f *fakeAppointmentStore) FindUpcoming(_ context.Context, patientID primitive.ObjectID, now time.Time, limit int64) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.items {
		if ap.PatientID != patientID || ap.TimeSlot == nil || ap.TimeSlot.Before(now) {
			continue
		}
		switch models.NormalizeStatus(ap.Status) {
		case models.StatusApproved, models.StatusPending:
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return slotOf(out[i]).Before(slotOf(out[j])) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func containsStatus(statuses []models.AppointmentStatus, s models.AppointmentStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func slotOf(ap models.Appointment) time.Time {
	if ap.TimeSlot == nil {
		return time.Time{}
	}
	return *ap.TimeSlot
}

type fakeBedStore struct {
	bed *models.Bed
}

func (f *fakeBedStore) Get(_ context.Context) (*models.Bed, error) {
	if f.bed == nil {
		return nil, ErrNotFound
	}
	clone := *f.bed
	return &clone, nil
}

func (f *fakeBedStore) Create(_ context.Context, bed *models.Bed) error {
	clone := *bed
	clone.ID = primitive.NewObjectID()
	f.bed = &clone
	bed.ID = clone.ID
	return nil
}

func (f *fakeBedStore) Allocate(_ context.Context) (*models.Bed, error) {
	if f.bed == nil {
		return nil, ErrNotFound
	}
	if f.bed.AvailableBeds <= 0 {
		return nil, ErrNoBedsAvailable
	}
	f.bed.AvailableBeds--
	f.bed.BedsInUse++
	clone := *f.bed
	return &clone, nil
}

func (f *fakeBedStore) Release(_ context.Context) (*models.Bed, error) {
	if f.bed == nil {
		return nil, ErrNotFound
	}
	if f.bed.BedsInUse <= 0 {
		return nil, ErrNoBedsInUse
	}
	f.bed.BedsInUse--
	f.bed.AvailableBeds++
	clone := *f.bed
	return &clone, nil
}

func (f *fakeBedStore) Overwrite(_ context.Context, totalBeds, bedsInUse int) (*models.Bed, error) {
	if f.bed == nil {
		return nil, ErrNotFound
	}
	f.bed.TotalBeds = totalBeds
	f.bed.BedsInUse = bedsInUse
	f.bed.AvailableBeds = totalBeds - bedsInUse
	clone := *f.bed
	return &clone, nil
}

type fakeUserStore struct {
	items map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{items: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserStore) Insert(_ context.Context, u *models.User) error {
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	clone := *u
	f.items[u.ID] = &clone
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) FindByRole(_ context.Context, r string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.items {
		if u.Role == r {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) FindAll(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.items {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeUserStore) CountByRole(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, u := range f.items {
		counts[u.Role]++
	}
	return counts, nil
}

type fakeDoctorStore struct {
	items map[primitive.ObjectID]*models.Doctor
}

func newFakeDoctorStore() *fakeDoctorStore {
	return &fakeDoctorStore{items: map[primitive.ObjectID]*models.Doctor{}}
}

func (f *fakeDoctorStore) Insert(_ context.Context, doc *models.Doctor) error {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	clone := *doc
	f.items[doc.ID] = &clone
	return nil
}

func (f *fakeDoctorStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	doc, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeDoctorStore) FindAll(_ context.Context, activeOnly bool) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, doc := range f.items {
		if activeOnly && doc.Status != models.DoctorActive {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (f *fakeDoctorStore) Replace(_ context.Context, doc *models.Doctor) error {
	if _, ok := f.items[doc.ID]; !ok {
		return ErrNotFound
	}
	clone := *doc
	f.items[doc.ID] = &clone
	return nil
}

func (f *fakeDoctorStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeDoctorStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeInventoryStore struct {
	items map[primitive.ObjectID]*models.InventoryItem
}

func newFakeInventoryStore() *fakeInventoryStore {
	return &fakeInventoryStore{items: map[primitive.ObjectID]*models.InventoryItem{}}
}

func (f *fakeInventoryStore) Insert(_ context.Context, item *models.InventoryItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeInventoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (f *fakeInventoryStore) FindByName(_ context.Context, name string) (*models.InventoryItem, error) {
	for _, item := range f.items {
		if item.Name == name {
			clone := *item
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeInventoryStore) FindAll(_ context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeInventoryStore) Update(_ context.Context, id primitive.ObjectID, upd InventoryUpdate) (*models.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.Unit != nil {
		item.Unit = *upd.Unit
	}
	if upd.MinQuantity != nil {
		item.MinQuantity = *upd.MinQuantity
	}
	if upd.Location != nil {
		item.Location = *upd.Location
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	clone := *item
	return &clone, nil
}

func (f *fakeInventoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeInventoryStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int, sale models.SaleEntry) error {
	item, ok := f.items[id]
	if !ok || item.Quantity < qty {
		return ErrStockConflict
	}
	item.Quantity -= qty
	item.SoldQuantity += qty
	item.Sales = append(item.Sales, sale)
	return nil
}

func (f *fakeInventoryStore) CountLowStock(_ context.Context) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.IsLowStock() {
			n++
		}
	}
	return n, nil
}

func (f *fakeInventoryStore) Analytics(_ context.Context) (*InventoryAnalytics, error) {
	return &InventoryAnalytics{}, nil
}

type fakeSalesStore struct {
	records []models.SalesRecord
}

func (f *fakeSalesStore) Insert(_ context.Context, rec *models.SalesRecord) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	f.records = append(f.records, *rec)
	return nil
}

type fakeRecordStore struct {
	items map[primitive.ObjectID]*models.MedicalRecord
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{items: map[primitive.ObjectID]*models.MedicalRecord{}}
}

func (f *fakeRecordStore) Insert(_ context.Context, rec *models.MedicalRecord) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	clone := *rec
	f.items[rec.ID] = &clone
	return nil
}

func (f *fakeRecordStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.MedicalRecord, error) {
	rec, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeRecordStore) FindByPatient(_ context.Context, patientID primitive.ObjectID) ([]models.MedicalRecord, error) {
	var out []models.MedicalRecord
	for _, rec := range f.items {
		if rec.PatientID == patientID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRecordStore) FindAll(_ context.Context) ([]models.MedicalRecord, error) {
	var out []models.MedicalRecord
	for _, rec := range f.items {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeRecordStore) Replace(_ context.Context, rec *models.MedicalRecord) error {
	if _, ok := f.items[rec.ID]; !ok {
		return ErrNotFound
	}
	clone := *rec
	f.items[rec.ID] = &clone
	return nil
}

func (f *fakeRecordStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// fakeTxRunner snapshots the participating fakes before running fn and
// restores them if fn fails, mimicking transaction rollback.
type fakeTxRunner struct {
	inventory *fakeInventoryStore
	sales     *fakeSalesStore
	records   *fakeRecordStore
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	invSnap := map[primitive.ObjectID]*models.InventoryItem{}
	for id, item := range f.inventory.items {
		clone := *item
		clone.Sales = append([]models.SaleEntry(nil), item.Sales...)
		invSnap[id] = &clone
	}
	salesSnap := append([]models.SalesRecord(nil), f.sales.records...)
	recSnap := map[primitive.ObjectID]*models.MedicalRecord{}
	for id, rec := range f.records.items {
		clone := *rec
		recSnap[id] = &clone
	}

	if err := fn(ctx); err != nil {
		f.inventory.items = invSnap
		f.sales.records = salesSnap
		f.records.items = recSnap
		return err
	}
	return nil
}

type fakeMailer struct {
	approvals     []primitive.ObjectID
	cancellations []primitive.ObjectID
}

func (f *fakeMailer) SendApproval(ap *models.Appointment) {
	f.approvals = append(f.approvals, ap.ID)
}

func (f *fakeMailer) SendCancellation(ap *models.Appointment) {
	f.cancellations = append(f.cancellations, ap.ID)
}
