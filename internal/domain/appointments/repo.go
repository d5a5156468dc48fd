package appointments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAppointmentClaimed is returned when a doctor tries to schedule or
	// reschedule an appointment another doctor already owns.
	ErrAppointmentClaimed = errors.New("appointment already scheduled by another doctor")
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// ListForDoctor returns every pending request plus the doctor's own
	// scheduled appointments, pending first, newest request first within
	// each group.
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// Schedule confirms a pending appointment for the doctor, or updates
	// the time on one they already own, as a single conditional write.
	Schedule(ctx context.Context, id, doctorID uuid.UUID, scheduledTime string) (*Appointment, error)
}
