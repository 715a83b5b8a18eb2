package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/util"
)

// AppointmentService is the lifecycle orchestrator: it owns the status
// state machine and coordinates bed ledger changes and notification
// dispatch around every transition.
type AppointmentService struct {
	appointments AppointmentStore
	users        UserStore
	doctors      DoctorStore
	beds         *BedService
	mailer       Mailer
}

func NewAppointmentService(appointments AppointmentStore, users UserStore, doctors DoctorStore, beds *BedService, mailer Mailer) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		doctors:      doctors,
		beds:         beds,
		mailer:       mailer,
	}
}

type CreateAppointmentRequest struct {
	DoctorID string     `json:"doctorId,omitempty"`
	TimeSlot *time.Time `json:"timeSlot,omitempty"`
	Reason   string     `json:"reason"`
	Type     string     `json:"type,omitempty"`
	Symptoms []string   `json:"symptoms,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Create books a new pending appointment for the patient. Doctor and time
// slot may be supplied now or assigned later at approval.
func (s *AppointmentService) Create(ctx context.Context, patientID primitive.ObjectID, req CreateAppointmentRequest) (*models.Appointment, error) {
	var missing []string
	if strings.TrimSpace(req.Reason) == "" {
		missing = append(missing, "reason")
	}
	if req.TimeSlot == nil {
		missing = append(missing, "timeSlot")
	}
	if len(missing) > 0 {
		return nil, util.ValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}

	ap := &models.Appointment{
		PatientID: patientID,
		TimeSlot:  req.TimeSlot,
		Status:    models.StatusPending,
		Reason:    strings.TrimSpace(req.Reason),
		Notes:     req.Notes,
		Symptoms:  req.Symptoms,
		Type:      req.Type,
	}
	if ap.Symptoms == nil {
		ap.Symptoms = []string{}
	}
	if ap.Type == "" {
		ap.Type = models.DefaultAppointmentType
	}
	if req.DoctorID != "" {
		doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
		if err != nil {
			return nil, util.ValidationError("invalid doctorId")
		}
		if _, err := s.doctors.FindByID(ctx, doctorID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, util.NotFoundError("doctor not found")
			}
			return nil, err
		}
		ap.DoctorID = &doctorID
	}

	if err := s.appointments.Insert(ctx, ap); err != nil {
		return nil, err
	}
	s.populate(ctx, ap)
	return ap, nil
}

// ListForPatient returns the caller's appointments, optionally filtered by
// status. The "approved" filter also matches the legacy "scheduled" alias.
func (s *AppointmentService) ListForPatient(ctx context.Context, patientID primitive.ObjectID, status string) ([]models.Appointment, error) {
	var statuses []models.AppointmentStatus
	switch status {
	case "", "all":
	case string(models.StatusApproved):
		statuses = []models.AppointmentStatus{models.StatusApproved, models.StatusScheduled}
	default:
		st := models.AppointmentStatus(status)
		if !st.Valid() {
			return nil, util.ValidationError("unknown status filter %q", status)
		}
		statuses = []models.AppointmentStatus{st}
	}

	list, err := s.appointments.FindByPatient(ctx, patientID, statuses)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.populate(ctx, &list[i])
	}
	return list, nil
}

func (s *AppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	list, err := s.appointments.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.populate(ctx, &list[i])
	}
	return list, nil
}

// TransitionIntent carries a requested status change and/or assignment of
// doctor and time slot. Assigning a doctor implies approval.
type TransitionIntent struct {
	Status   models.AppointmentStatus
	DoctorID *primitive.ObjectID
	TimeSlot *time.Time
}

// Transition applies a lifecycle transition:
//
//	pending  -> approved            allocate bed, approval mail
//	pending  -> cancelled
//	approved -> cancelled           release bed, cancellation mail
//	approved -> completed           release bed, no mail
//
// The bed is allocated before the appointment is persisted; if no bed is
// available the appointment is left untouched. Notifications go out only
// after the new state is durable, and their failure never rolls anything
// back.
func (s *AppointmentService) Transition(ctx context.Context, id primitive.ObjectID, intent TransitionIntent) (*models.Appointment, error) {
	current, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("appointment not found")
		}
		return nil, err
	}

	target := models.NormalizeStatus(intent.Status)
	if intent.DoctorID != nil {
		target = models.StatusApproved
	}
	if target == "" && intent.TimeSlot == nil {
		return nil, util.ValidationError("nothing to update: provide a status, doctorId or datetime")
	}

	upd := AppointmentUpdate{DoctorID: intent.DoctorID, TimeSlot: intent.TimeSlot}

	statusChanges := target != "" && target != models.NormalizeStatus(current.Status)
	if target != "" {
		if !target.Valid() {
			return nil, util.ValidationError("unknown status %q", string(intent.Status))
		}
		if !statusChanges {
			// Re-applying the current status is a no-op, not an error; the
			// admin UI re-sends the status together with slot changes.
			target = ""
		} else if !current.Status.CanTransitionTo(target) {
			return nil, util.IllegalTransitionError(string(current.Status), string(target))
		} else {
			upd.Status = &target
			// Condition the write on the status we based the legality check
			// on, so a transition committed in between fails instead of
			// being overwritten.
			upd.ExpectedStatus = &current.Status
		}
	}

	entersApproved := upd.Status != nil && *upd.Status == models.StatusApproved
	leavesApproved := upd.Status != nil &&
		models.NormalizeStatus(current.Status) == models.StatusApproved &&
		(*upd.Status == models.StatusCancelled || *upd.Status == models.StatusCompleted)

	if entersApproved {
		if intent.DoctorID != nil {
			if _, err := s.doctors.FindByID(ctx, *intent.DoctorID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil, util.NotFoundError("doctor not found")
				}
				return nil, err
			}
		}
		if _, err := s.beds.Allocate(ctx); err != nil {
			return nil, err
		}
	}

	updated, err := s.appointments.Update(ctx, id, upd)
	if err != nil {
		if entersApproved {
			// Undo the allocation; the transition never became durable.
			s.beds.Release(ctx)
		}
		if errors.Is(err, ErrStaleStatus) {
			return nil, util.IllegalTransitionError(string(current.Status), string(target))
		}
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("appointment not found")
		}
		return nil, err
	}

	if leavesApproved {
		s.beds.Release(ctx)
	}

	s.populate(ctx, updated)

	if upd.Status != nil {
		switch *upd.Status {
		case models.StatusApproved:
			s.mailer.SendApproval(updated)
		case models.StatusCancelled:
			s.mailer.SendCancellation(updated)
		}
		// Completed transitions send no notification.
	}
	return updated, nil
}

// Cancel is the patient-initiated transition. Only the owner may cancel,
// and cancellation is the only status a patient can set.
func (s *AppointmentService) Cancel(ctx context.Context, patientID, id primitive.ObjectID) (*models.Appointment, error) {
	current, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("appointment not found")
		}
		return nil, err
	}
	if current.PatientID != patientID {
		return nil, util.ForbiddenError("you can only cancel your own appointments")
	}
	return s.Transition(ctx, id, TransitionIntent{Status: models.StatusCancelled})
}

// SweepExpiredApprovals moves every approved appointment whose time slot is
// in the past to completed, releasing its bed. Each appointment goes
// through the same guarded Transition, so the sweep is idempotent and safe
// against racing manual transitions: a raced appointment simply fails the
// legality check and is skipped.
func (s *AppointmentService) SweepExpiredApprovals(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.appointments.FindExpiredApproved(ctx, now)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, ap := range expired {
		if _, err := s.Transition(ctx, ap.ID, TransitionIntent{Status: models.StatusCompleted}); err != nil {
			if appErr, ok := util.AsAppError(err); ok && appErr.Code == util.CodeIllegalTransition {
				continue
			}
			log.Error().Err(err).Str("appointmentId", ap.ID.Hex()).Msg("sweep transition failed")
			continue
		}
		updated++
	}
	return updated, nil
}

// populate attaches the patient and doctor display projections. Failures
// are logged only; a missing reference must not break the response.
func (s *AppointmentService) populate(ctx context.Context, ap *models.Appointment) {
	if user, err := s.users.FindByID(ctx, ap.PatientID); err == nil {
		ap.Patient = user.Summary()
	} else {
		log.Warn().Str("appointmentId", ap.ID.Hex()).Msg("missing patient data for appointment")
	}
	if ap.DoctorID != nil {
		if doc, err := s.doctors.FindByID(ctx, *ap.DoctorID); err == nil {
			ap.Doctor = doc.Summary()
		}
	}
}
