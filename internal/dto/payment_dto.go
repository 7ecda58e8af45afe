package dto

type FinalPaymentCheckoutRequest struct {
	ApplicationId string `json:"application_id" validate:"required"`
}

type FinalPaymentCheckoutResponse struct {
	ApplicationId   string `json:"application_id"`
	OutstandingDue  int    `json:"outstanding_due"`
	SnapRedirectUrl string `json:"snap_redirect_url"`
	SnapToken       string `json:"snap_token"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}
