package mailer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"carewell-server/config"
	"carewell-server/models"
)

const (
	queueSize  = 256
	maxRetries = 3
	retryDelay = 5 * time.Second
)

type job struct {
	id      string
	to      string
	subject string
	body    string
	retries int
}

// Mailer delivers notification emails on a background worker. Enqueueing
// never blocks; when the queue is full the message is dropped and logged.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	jobs   chan job
	done   chan struct{}
	log    zerolog.Logger
}

func New(cfg config.SMTPConfig, log zerolog.Logger) *Mailer {
	m := &Mailer{
		from: cfg.From,
		jobs: make(chan job, queueSize),
		done: make(chan struct{}),
		log:  log.With().Str("component", "mailer").Logger(),
	}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	go m.worker()
	return m
}

// Close stops the worker after the queue drains.
func (m *Mailer) Close() {
	close(m.jobs)
	<-m.done
}

func (m *Mailer) SendApproval(ap *models.Appointment) {
	to, ok := recipient(ap)
	if !ok {
		return
	}
	m.enqueue(job{
		id:      uuid.NewString(),
		to:      to,
		subject: "Your Appointment has been Approved",
		body:    approvalBody(ap),
	})
}

func (m *Mailer) SendCancellation(ap *models.Appointment) {
	to, ok := recipient(ap)
	if !ok {
		return
	}
	m.enqueue(job{
		id:      uuid.NewString(),
		to:      to,
		subject: "Your Appointment has been Cancelled",
		body:    cancellationBody(ap),
	})
}

func (m *Mailer) enqueue(j job) {
	select {
	case m.jobs <- j:
		m.log.Debug().Str("job", j.id).Str("to", j.to).Msg("mail queued")
	default:
		m.log.Warn().Str("job", j.id).Str("to", j.to).Msg("mail queue full, dropping message")
	}
}

func (m *Mailer) worker() {
	defer close(m.done)
	for j := range m.jobs {
		m.deliver(j)
	}
}

func (m *Mailer) deliver(j job) {
	if m.dialer == nil {
		m.log.Info().Str("job", j.id).Str("subject", j.subject).Msg("smtp not configured, skipping delivery")
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", j.to)
	msg.SetHeader("Subject", j.subject)
	msg.SetBody("text/html", j.body)

	for attempt := 0; ; attempt++ {
		err := m.dialer.DialAndSend(msg)
		if err == nil {
			m.log.Info().Str("job", j.id).Str("to", j.to).Msg("mail delivered")
			return
		}
		if attempt >= maxRetries {
			m.log.Error().Err(err).Str("job", j.id).Str("to", j.to).Msg("mail delivery failed, giving up")
			return
		}
		m.log.Warn().Err(err).Str("job", j.id).Int("attempt", attempt+1).Msg("mail delivery failed, retrying")
		time.Sleep(retryDelay)
	}
}

func recipient(ap *models.Appointment) (string, bool) {
	if ap == nil || ap.Patient == nil || ap.Patient.Email == "" {
		return "", false
	}
	return ap.Patient.Email, true
}

func approvalBody(ap *models.Appointment) string {
	name := "Patient"
	if ap.Patient != nil && ap.Patient.FullName != "" {
		name = ap.Patient.FullName
	}
	doctor := "our medical team"
	if ap.Doctor != nil && ap.Doctor.Name != "" {
		doctor = ap.Doctor.Name
	}
	when := "the scheduled time"
	if ap.TimeSlot != nil {
		when = ap.TimeSlot.Format("Monday, 02 Jan 2006 at 15:04")
	}
	return fmt.Sprintf(
		"<h2>Appointment Approved</h2>"+
			"<p>Dear %s,</p>"+
			"<p>Your appointment with <strong>%s</strong> has been approved for <strong>%s</strong>.</p>"+
			"<p>Reason: %s</p>"+
			"<p>Please arrive 10 minutes early.</p>",
		name, doctor, when, ap.Reason)
}

func cancellationBody(ap *models.Appointment) string {
	name := "Patient"
	if ap.Patient != nil && ap.Patient.FullName != "" {
		name = ap.Patient.FullName
	}
	when := "the scheduled time"
	if ap.TimeSlot != nil {
		when = ap.TimeSlot.Format("Monday, 02 Jan 2006 at 15:04")
	}
	return fmt.Sprintf(
		"<h2>Appointment Cancelled</h2>"+
			"<p>Dear %s,</p>"+
			"<p>Your appointment scheduled for <strong>%s</strong> has been cancelled.</p>"+
			"<p>If this was unexpected, please contact the front desk or book a new appointment.</p>",
		name, when)
}
