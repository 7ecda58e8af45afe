package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Case Management ---

type AdminApplicationListRequest struct {
	Page          int    `query:"page"`
	Limit         int    `query:"limit"`
	Status        string `query:"status"`
	PaymentStatus string `query:"payment_status"`
}

type TransitionStatusRequest struct {
	Status          string  `json:"status" validate:"required,oneof=pending reviewing submitted approved completed rejected"`
	AdminNotes      *string `json:"admin_notes,omitempty"`
	CompletionProof *string `json:"completion_proof,omitempty"`
	// Expected version of the application; rejects concurrent edits.
	Version int `json:"version" validate:"gte=0"`
}

// --- User Management ---

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Role   string `query:"role"`
	Status string `query:"status"`
}

type UserListResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending blocked"`
	Reason string `json:"reason,omitempty"`
}

// --- Dashboard ---

type AdminDashboardStats struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[string]int `json:"by_status"`
	CollectedRevenue  int            `json:"collected_revenue"`
	PipelineAmount    int            `json:"pipeline_amount"`
	TotalUsers        int            `json:"total_users"`
	ActiveUsers       int            `json:"active_users"`
}

// --- System Logs ---

type SystemLogListRequest struct {
	Level  string `query:"level"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
