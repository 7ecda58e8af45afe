package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test-key"

func signedWebhook(orderId, status string) *dto.MidtransWebhookRequest {
	statusCode := "200"
	grossAmount := "3200.00"
	signature := fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+testServerKey)))
	return &dto.MidtransWebhookRequest{
		TransactionStatus: status,
		OrderId:           orderId,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      signature,
	}
}

func TestHandleNotificationSettlement(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)

	factory, appSvc, owner := newApplicationFixture(t)
	svc := NewPaymentService(factory, nil)

	res, err := appSvc.Submit(context.Background(), owner.Id, submitRequest("standard"))
	require.NoError(t, err)

	err = svc.HandleNotification(context.Background(), signedWebhook(res.Id, "settlement"))
	require.NoError(t, err)

	stored := factory.uow.apps.apps[res.Id]
	assert.Equal(t, entity.PaymentFullyPaid, stored.PaymentStatus)

	trail := factory.uow.apps.auditFor(res.Id)
	require.Len(t, trail, 3)
	assert.Equal(t, "Final payment received", trail[2].Action)
	assert.Equal(t, entity.SystemActor, trail[2].PerformedBy)
}

func TestHandleNotificationIdempotent(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)

	factory, appSvc, owner := newApplicationFixture(t)
	svc := NewPaymentService(factory, nil)

	res, err := appSvc.Submit(context.Background(), owner.Id, submitRequest("standard"))
	require.NoError(t, err)

	require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(res.Id, "settlement")))
	// Midtrans retries deliveries; the second one must not double-log.
	require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(res.Id, "settlement")))

	trail := factory.uow.apps.auditFor(res.Id)
	assert.Len(t, trail, 3)
}

func TestSettlementSurvivesStaleAdminWrite(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)

	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)
	paySvc := NewPaymentService(f.factory, nil)

	// The back office loads the case at version 0; the webhook settles it
	// before they write back. The settlement bumps the version.
	require.NoError(t, paySvc.HandleNotification(context.Background(), signedWebhook(caseNumber, "settlement")))

	stored := f.factory.uow.apps.apps[caseNumber]
	assert.Equal(t, entity.PaymentFullyPaid, stored.PaymentStatus)
	assert.Equal(t, 1, stored.Version)

	// The stale write is turned away instead of silently reverting the
	// payment to deposit_paid.
	_, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 0,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, entity.PaymentFullyPaid, stored.PaymentStatus)

	// Retried at the current version the transition lands, and the
	// settlement stays intact.
	got, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: stored.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "reviewing", got.Status)
	assert.Equal(t, "fully_paid", got.PaymentStatus)
	assert.Equal(t, 2, got.Version)
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)

	factory, appSvc, owner := newApplicationFixture(t)
	svc := NewPaymentService(factory, nil)

	res, err := appSvc.Submit(context.Background(), owner.Id, submitRequest("standard"))
	require.NoError(t, err)

	req := signedWebhook(res.Id, "settlement")
	req.SignatureKey = "forged"
	err = svc.HandleNotification(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	stored := factory.uow.apps.apps[res.Id]
	assert.Equal(t, entity.PaymentDepositPaid, stored.PaymentStatus)
}

func TestHandleNotificationIgnoresNonFinalStates(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)

	factory, appSvc, owner := newApplicationFixture(t)
	svc := NewPaymentService(factory, nil)

	res, err := appSvc.Submit(context.Background(), owner.Id, submitRequest("standard"))
	require.NoError(t, err)

	for _, status := range []string{"pending", "deny", "cancel", "expire"} {
		require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(res.Id, status)))
	}

	stored := factory.uow.apps.apps[res.Id]
	assert.Equal(t, entity.PaymentDepositPaid, stored.PaymentStatus)
	assert.Len(t, factory.uow.apps.auditFor(res.Id), 2)
}
