// Package appointments implements the request/confirm appointment flow:
// patients file a request, any doctor may confirm a pending one, and
// confirming binds the appointment to that doctor.
package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. There is deliberately no decline or cancel
// transition; a request stays pending until some doctor schedules it.
const (
	StatusPending   = "PENDING"
	StatusScheduled = "SCHEDULED"
)

// Appointment maps to the appointments table. RequestedDate is kept as the
// patient entered it; ScheduledTime is set by the confirming doctor.
type Appointment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	PatientName   string     `db:"patient_name" json:"patient_name"`
	PatientEmail  *string    `db:"patient_email" json:"patient_email,omitempty"`
	PatientMobile *string    `db:"patient_mobile" json:"patient_mobile,omitempty"`
	Reason        string     `db:"reason" json:"reason"`
	RequestedDate string     `db:"requested_date" json:"requested_date"`
	Status        string     `db:"status" json:"status"`
	DoctorID      *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	ScheduledTime *string    `db:"scheduled_time" json:"scheduled_time,omitempty"`
	RequestedAt   time.Time  `db:"requested_at" json:"requested_at"`
	ScheduledAt   *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
}

// VisibleTo reports whether the appointment belongs in the given doctor's
// worklist: every pending request, plus the scheduled ones they own.
func (a *Appointment) VisibleTo(doctorID uuid.UUID) bool {
	if a.Status == StatusPending {
		return true
	}
	return a.DoctorID != nil && *a.DoctorID == doctorID
}
