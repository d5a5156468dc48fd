package appointments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/metrics"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Book files a new appointment request. The request carries no doctor and
// no confirmed time until a doctor schedules it.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(a.Reason) == "" {
		return fmt.Errorf("reason is required")
	}
	if strings.TrimSpace(a.RequestedDate) == "" {
		return fmt.Errorf("requested_date is required")
	}
	a.Status = StatusPending
	a.DoctorID = nil
	a.ScheduledTime = nil
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	metrics.AppointmentBooked()
	return nil
}

// Schedule confirms a pending request for the doctor, or moves the time on
// an appointment the doctor already owns.
func (s *Service) Schedule(ctx context.Context, id, doctorID uuid.UUID, scheduledTime string) (*Appointment, error) {
	if doctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if strings.TrimSpace(scheduledTime) == "" {
		return nil, fmt.Errorf("scheduled_time is required")
	}
	a, err := s.repo.Schedule(ctx, id, doctorID, scheduledTime)
	if err != nil {
		return nil, err
	}
	metrics.AppointmentScheduled()
	return a, nil
}

// Worklist returns the doctor's view: all pending requests plus their own
// scheduled appointments, pending first.
func (s *Service) Worklist(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListForDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) PatientAppointments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
