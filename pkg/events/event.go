package events

import "time"

// Event is the contract every published portal event satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CASE_SUBMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type codes emitted by the portal.
const (
	TypeUserLogin            = "USER_LOGIN"
	TypeCaseSubmitted        = "CASE_SUBMITTED"
	TypeCaseStatusChanged    = "CASE_STATUS_CHANGED"
	TypeDocumentAttached     = "DOCUMENT_ATTACHED"
	TypeFinalPaymentReceived = "FINAL_PAYMENT_RECEIVED"
)

// BaseEvent is the concrete carrier used for all portal events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewCaseSubmitted builds the event fired after a visa application lands.
func NewCaseSubmitted(caseNumber, userId, serviceType string, amount int) BaseEvent {
	return BaseEvent{
		Type: TypeCaseSubmitted,
		Data: map[string]interface{}{
			"case_number":  caseNumber,
			"user_id":      userId,
			"service_type": serviceType,
			"amount":       amount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentAttached builds the event fired when an applicant uploads a file
// onto an existing case.
func NewDocumentAttached(caseNumber, userId, documentType string) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentAttached,
		Data: map[string]interface{}{
			"case_number":   caseNumber,
			"user_id":       userId,
			"document_type": documentType,
		},
		OccurredAt: time.Now(),
	}
}

// NewCaseStatusChanged builds the event fired on every admin status transition.
func NewCaseStatusChanged(caseNumber, userId, fromStatus, toStatus string) BaseEvent {
	return BaseEvent{
		Type: TypeCaseStatusChanged,
		Data: map[string]interface{}{
			"case_number": caseNumber,
			"user_id":     userId,
			"from":        fromStatus,
			"to":          toStatus,
		},
		OccurredAt: time.Now(),
	}
}

// NewFinalPaymentReceived builds the event fired when the balance settles.
func NewFinalPaymentReceived(caseNumber string, amount int) BaseEvent {
	return BaseEvent{
		Type: TypeFinalPaymentReceived,
		Data: map[string]interface{}{
			"case_number": caseNumber,
			"amount":      amount,
		},
		OccurredAt: time.Now(),
	}
}
