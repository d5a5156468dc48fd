package observations

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoEntries is returned by Latest lookups when the patient has no
// recorded entries yet.
var ErrNoEntries = errors.New("no entries recorded")

// VitalsRepository is intentionally append-only: there is no update or
// delete for vitals entries.
type VitalsRepository interface {
	Create(ctx context.Context, v *VitalsEntry) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsEntry, int, error)
	LatestByPatient(ctx context.Context, patientID uuid.UUID) (*VitalsEntry, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*VitalsEntry, int, error)
}

type SymptomRepository interface {
	Create(ctx context.Context, s *SymptomEntry) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error)
	LatestByPatient(ctx context.Context, patientID uuid.UUID) (*SymptomEntry, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*SymptomEntry, int, error)
}
