package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string
type PaymentStatus string
type ServiceType string
type DocumentType string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusReviewing ApplicationStatus = "reviewing"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusApproved  ApplicationStatus = "approved"
	StatusCompleted ApplicationStatus = "completed"
	StatusRejected  ApplicationStatus = "rejected"

	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentFullyPaid   PaymentStatus = "fully_paid"

	ServiceStandard ServiceType = "standard"
	ServiceExpress  ServiceType = "express"

	DocumentPassport   DocumentType = "passport"
	DocumentPhoto      DocumentType = "photo"
	DocumentAdditional DocumentType = "additional"
)

// SystemActor attributes audit entries produced by the platform itself
// (deposit receipts, webhook settlements) rather than a logged-in user.
const SystemActor = "system"

// VisaApplication is one customer's extension case. The Id is the public
// case number (ST-<year>-<sequence>), not a surrogate key. UserName and
// UserEmail are captured at creation time and never re-joined.
type VisaApplication struct {
	Id              string
	UserId          uuid.UUID
	UserName        string
	UserEmail       string
	VisaType        string
	PassportNumber  string // AES-GCM ciphertext, never the raw value
	ExpiryDate      time.Time
	PassportFile    *string
	PhotoFile       *string
	AdditionalDocs  []string
	Status          ApplicationStatus
	PaymentStatus   PaymentStatus
	ServiceType     ServiceType
	Amount          int
	DepositAmount   int
	AdminNotes      *string
	CompletionProof *string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	AuditLog []AuditEntry
}

func (a *VisaApplication) IsOwnedBy(userId uuid.UUID) bool {
	return a.UserId == userId
}

// IsTerminal reports whether the case can no longer move.
func (a *VisaApplication) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusRejected
}

// AuditEntry is one immutable line of an application's history. Entries are
// only ever appended; the serial Id preserves append order.
type AuditEntry struct {
	Id            int64
	ApplicationId string
	Action        string
	PerformedBy   string // user id or SystemActor
	CreatedAt     time.Time
}
