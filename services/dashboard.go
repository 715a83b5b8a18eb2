package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/role"
)

// DashboardService aggregates the overview numbers for the patient and
// admin dashboards.
type DashboardService struct {
	appointments AppointmentStore
	users        UserStore
	doctors      DoctorStore
	inventory    InventoryStore
	beds         *BedService
}

func NewDashboardService(appointments AppointmentStore, users UserStore, doctors DoctorStore, inventory InventoryStore, beds *BedService) *DashboardService {
	return &DashboardService{
		appointments: appointments,
		users:        users,
		doctors:      doctors,
		inventory:    inventory,
		beds:         beds,
	}
}

type PatientDashboard struct {
	AppointmentsByStatus map[models.AppointmentStatus]int64 `json:"appointmentsByStatus"`
	Upcoming             []models.Appointment               `json:"upcoming"`
	Beds                 *models.Bed                        `json:"beds"`
}

func (s *DashboardService) ForPatient(ctx context.Context, patientID primitive.ObjectID) (*PatientDashboard, error) {
	counts, err := s.appointments.CountByStatus(ctx, &patientID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.appointments.FindUpcoming(ctx, patientID, time.Now(), 5)
	if err != nil {
		return nil, err
	}
	beds, err := s.beds.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &PatientDashboard{
		AppointmentsByStatus: counts,
		Upcoming:             upcoming,
		Beds:                 beds,
	}, nil
}

type AdminDashboard struct {
	AppointmentsByStatus map[models.AppointmentStatus]int64 `json:"appointmentsByStatus"`
	UsersByRole          map[string]int64                   `json:"usersByRole"`
	PatientCount         int64                              `json:"patientCount"`
	DoctorCount          int64                              `json:"doctorCount"`
	Beds                 *models.Bed                        `json:"beds"`
	LowStockItems        int64                              `json:"lowStockItems"`
}

func (s *DashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.appointments.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	usersByRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	doctorCount, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	beds, err := s.beds.Status(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.inventory.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{
		AppointmentsByStatus: counts,
		UsersByRole:          usersByRole,
		PatientCount:         usersByRole[role.Patient],
		DoctorCount:          doctorCount,
		Beds:                 beds,
		LowStockItems:        lowStock,
	}, nil
}
