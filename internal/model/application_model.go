package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VisaApplication is keyed by the public case number (ST-<year>-<sequence>)
// rather than a surrogate uuid, so the audit trail and admin tooling speak
// the same identifier the customer sees.
type VisaApplication struct {
	Id              string    `gorm:"type:varchar(20);primaryKey"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	UserName        string    `gorm:"type:varchar(255);not null"`
	UserEmail       string    `gorm:"type:varchar(255);not null"`
	VisaType        string    `gorm:"type:varchar(100);not null"`
	PassportNumber  string    `gorm:"type:text;not null"` // ciphertext at rest
	ExpiryDate      time.Time `gorm:"type:date;not null"`
	PassportFile    *string   `gorm:"type:text"`
	PhotoFile       *string   `gorm:"type:text"`
	AdditionalDocs  datatypes.JSON
	Status          string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   string  `gorm:"type:varchar(20);not null;default:'unpaid'"`
	ServiceType     string  `gorm:"type:varchar(20);not null"`
	Amount          int     `gorm:"not null"`
	DepositAmount   int     `gorm:"not null"`
	AdminNotes      *string `gorm:"type:text"`
	CompletionProof *string `gorm:"type:text"`
	Version         int     `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	AuditLog []ApplicationAuditLog `gorm:"foreignKey:ApplicationId;references:Id"`
}

func (VisaApplication) TableName() string {
	return "visa_applications"
}

// ApplicationAuditLog rows are insert-only. The serial primary key keeps
// append order stable without trusting timestamps.
type ApplicationAuditLog struct {
	Id            int64     `gorm:"primaryKey;autoIncrement"`
	ApplicationId string    `gorm:"type:varchar(20);not null;index"`
	Action        string    `gorm:"type:text;not null"`
	PerformedBy   string    `gorm:"type:varchar(100);not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ApplicationAuditLog) TableName() string {
	return "application_audit_logs"
}
