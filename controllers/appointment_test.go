package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/middleware"
	"carewell-server/models"
	"carewell-server/role"
	"carewell-server/services"
)

// Handler-level stubs. Only the methods the booking path touches are
// implemented; anything else panics through the embedded nil interface.

type stubAppointmentStore struct {
	services.AppointmentStore
	inserted []*models.Appointment
}

func (s *stubAppointmentStore) Insert(_ context.Context, ap *models.Appointment) error {
	ap.ID = primitive.NewObjectID()
	s.inserted = append(s.inserted, ap)
	return nil
}

type stubUserStore struct {
	services.UserStore
	user *models.User
}

func (s *stubUserStore) FindByID(context.Context, primitive.ObjectID) (*models.User, error) {
	return s.user, nil
}

type stubDoctorStore struct{ services.DoctorStore }

type stubBedStore struct{ services.BedStore }

type noopMailer struct{}

func (noopMailer) SendApproval(*models.Appointment)     {}
func (noopMailer) SendCancellation(*models.Appointment) {}

func newBookingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patient := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Jordan Reyes",
		Email:    "jordan@example.com",
		Role:     role.Patient,
	}
	svc := services.NewAppointmentService(
		&stubAppointmentStore{},
		&stubUserStore{user: patient},
		&stubDoctorStore{},
		services.NewBedService(&stubBedStore{}, nil, 1),
		noopMailer{},
	)

	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, patient.ID.Hex())
		c.Next()
	})
	NewAppointmentController(svc).Register(api)
	return r
}

func TestCreateRespondsCreated(t *testing.T) {
	r := newBookingRouter(t)

	slot := time.Now().Add(24 * time.Hour)
	body, err := json.Marshal(map[string]interface{}{
		"reason":   "persistent headaches",
		"timeSlot": slot.Format(time.RFC3339),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusPending, resp.Data.Status)
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	r := newBookingRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
