package dto

import (
	"time"
)

type SubmitApplicationRequest struct {
	VisaType       string `json:"visa_type" validate:"required"`
	PassportNumber string `json:"passport_number" validate:"required,min=5,max=20"`
	ExpiryDate     string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	ServiceType    string `json:"service_type" validate:"required,oneof=standard express"`
	PassportFile   string `json:"passport_file" validate:"omitempty"`
	PhotoFile      string `json:"photo_file" validate:"omitempty"`
}

type AttachDocumentRequest struct {
	DocumentType string `json:"document_type" validate:"required,oneof=passport photo additional"`
	FileName     string `json:"file_name" validate:"required"`
	// Expected version of the application; rejects concurrent edits.
	Version int `json:"version" validate:"gte=0"`
}

type AuditEntryResponse struct {
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

type ApplicationResponse struct {
	Id              string               `json:"id"`
	UserId          string               `json:"user_id"`
	UserName        string               `json:"user_name"`
	UserEmail       string               `json:"user_email"`
	VisaType        string               `json:"visa_type"`
	PassportNumber  string               `json:"passport_number"` // masked
	ExpiryDate      string               `json:"expiry_date"`
	PassportFile    *string              `json:"passport_file,omitempty"`
	PhotoFile       *string              `json:"photo_file,omitempty"`
	AdditionalDocs  []string             `json:"additional_docs,omitempty"`
	Status          string               `json:"status"`
	PaymentStatus   string               `json:"payment_status"`
	ServiceType     string               `json:"service_type"`
	Amount          int                  `json:"amount"`
	DepositAmount   int                  `json:"deposit_amount"`
	AdminNotes      *string              `json:"admin_notes,omitempty"`
	CompletionProof *string              `json:"completion_proof,omitempty"`
	Version         int                  `json:"version"`
	SubmittedAt     time.Time            `json:"submitted_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	AuditLog        []AuditEntryResponse `json:"audit_log,omitempty"`
}

type SubmitApplicationResponse struct {
	Id            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Amount        int    `json:"amount"`
	DepositAmount int    `json:"deposit_amount"`
}

type QuoteResponse struct {
	ServiceType   string `json:"service_type"`
	ServiceFee    int    `json:"service_fee"`
	GovernmentFee int    `json:"government_fee"`
	Amount        int    `json:"amount"`
	DepositAmount int    `json:"deposit_amount"`
}
