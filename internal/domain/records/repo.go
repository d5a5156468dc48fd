package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound = errors.New("record not found")

	// ErrAlreadyReviewed is returned when a finalize attempt loses the
	// claim race: another doctor reviewed the record first.
	ErrAlreadyReviewed = errors.New("record already reviewed by another doctor")

	// ErrNotDeletable is returned when a patient tries to remove a record
	// that has already been reviewed or that they do not own.
	ErrNotDeletable = errors.New("record cannot be deleted")
)

type Repository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	// ListVisible returns records whose reviewer is unset or the given
	// doctor, newest first.
	ListVisible(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error)
	// Finalize performs the claim-and-review as one conditional write. It
	// succeeds only while the record is pending and unclaimed (or already
	// claimed by this doctor, which lets a reviewer amend their own note).
	Finalize(ctx context.Context, id, doctorID uuid.UUID, review Review) (*MedicalRecord, error)
	// DeletePending removes a patient's own record while it is still
	// awaiting review.
	DeletePending(ctx context.Context, id, patientID uuid.UUID) error
}
