package contract

import (
	"context"
	"time"

	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/repository/specification"
)

// ApplicationRepository owns visa_applications and their audit trail.
// Audit entries are append-only: there is deliberately no update or delete
// for them, and callers must not work around that.
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.VisaApplication) error
	// UpdateVersioned persists the application only if the stored version
	// still matches expectedVersion, bumping it by one. Returns false when
	// another writer got there first. Payment status is out of its reach;
	// only MarkFullyPaid moves that column.
	UpdateVersioned(ctx context.Context, app *entity.VisaApplication, expectedVersion int) (bool, error)
	// MarkFullyPaid settles the outstanding balance on a case. The write is
	// guarded so a case settles at most once, and it bumps the version like
	// every other mutation. Returns false when the case was already settled.
	MarkFullyPaid(ctx context.Context, caseNumber string, paidAt time.Time) (bool, error)

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisaApplication, error)
	FindOneWithAuditLog(ctx context.Context, specs ...specification.Specification) (*entity.VisaApplication, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VisaApplication, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	AppendAuditEntry(ctx context.Context, entry *entity.AuditEntry) error
	FindAuditLog(ctx context.Context, applicationId string) ([]entity.AuditEntry, error)

	// NextCaseSequence returns the 1-based sequence number for the next case
	// created in the given year.
	NextCaseSequence(ctx context.Context, year int) (int, error)

	// Dashboard aggregates
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SumCollectedRevenue(ctx context.Context) (int64, error)
	SumPipelineAmount(ctx context.Context) (int64, error)
}
