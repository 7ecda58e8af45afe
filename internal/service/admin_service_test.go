package service

import (
	"context"
	"testing"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/repository/memory"
	"staysure-portal-be/pkg/admin/dashboard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	factory   *fakeUowFactory
	svc       IAdminService
	appSvc    IApplicationService
	admin     *entity.User
	customer  *entity.User
	publisher *fakePublisher
	logs      *fakeLogger
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	factory := newFakeUowFactory()
	cipher := newTestCipher(t)
	logs := &fakeLogger{}
	publisher := &fakePublisher{}

	admin := &entity.User{
		Id:       uuid.New(),
		Email:    "ops@staysure.example",
		FullName: "Portal Admin",
		Role:     entity.UserRoleAdmin,
		Status:   entity.UserStatusActive,
	}
	customer := &entity.User{
		Id:       uuid.New(),
		Email:    "maria@example.com",
		FullName: "Maria Santos",
		Role:     entity.UserRoleUser,
		Status:   entity.UserStatusActive,
	}
	factory.uow.users.add(admin)
	factory.uow.users.add(customer)

	appSvc := NewApplicationService(factory, cipher, nil)
	svc := NewAdminService(
		factory,
		appSvc,
		cipher,
		dashboard.NewAggregator(logs),
		memory.NewStatsCache(),
		publisher,
		nil,
		logs,
	)

	return &adminFixture{
		factory:   factory,
		svc:       svc,
		appSvc:    appSvc,
		admin:     admin,
		customer:  customer,
		publisher: publisher,
		logs:      logs,
	}
}

func (f *adminFixture) submitCase(t *testing.T) string {
	t.Helper()
	res, err := f.appSvc.Submit(context.Background(), f.customer.Id, submitRequest("standard"))
	require.NoError(t, err)
	return res.Id
}

func TestTransitionStatusHappyPath(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	got, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "reviewing", got.Status)
	assert.Equal(t, 1, got.Version)

	trail := f.factory.uow.apps.auditFor(caseNumber)
	require.Len(t, trail, 3)
	assert.Equal(t, "Status changed to reviewing", trail[2].Action)
	assert.Equal(t, f.admin.Id.String(), trail[2].PerformedBy)

	// Downstream notification fired with both endpoints of the move.
	require.Len(t, f.publisher.published, 1)
	msg, ok := f.publisher.published[0].(dto.StatusChangedMessage)
	require.True(t, ok)
	assert.Equal(t, caseNumber, msg.ApplicationId)
	assert.Equal(t, "pending", msg.FromStatus)
	assert.Equal(t, "reviewing", msg.ToStatus)
}

func TestTransitionStatusRejectsNonAdmin(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.customer.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 0,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTransitionStatusForwardOnly(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	// Skipping stages is not allowed.
	_, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "approved",
		Version: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Neither is moving backwards.
	_, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 0,
	})
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "pending",
		Version: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionStatusRejectAvailableMidstream(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "rejected",
		Version: 0,
	})
	require.NoError(t, err)

	// Terminal: nothing moves a rejected case.
	_, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionStatusVersionConflict(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 7,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestTransitionStatusNotesLastWriteWins(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	first := "passport scan is blurry"
	_, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:     "reviewing",
		AdminNotes: &first,
		Version:    0,
	})
	require.NoError(t, err)

	// No notes on the next move: the previous note must survive.
	got, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "submitted",
		Version: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, got.AdminNotes)
	assert.Equal(t, first, *got.AdminNotes)

	second := "resubmitted to immigration"
	got, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:     "approved",
		AdminNotes: &second,
		Version:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, second, *got.AdminNotes)
}

func TestCompletionProofOnlyStoredOnCompletion(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	proof := "uploads/proof.jpg"
	got, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:          "reviewing",
		CompletionProof: &proof,
		Version:         0,
	})
	require.NoError(t, err)
	assert.Nil(t, got.CompletionProof)

	for i, status := range []string{"submitted", "approved"} {
		_, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
			Status:  status,
			Version: i + 1,
		})
		require.NoError(t, err)
	}

	got, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:          "completed",
		CompletionProof: &proof,
		Version:         3,
	})
	require.NoError(t, err)
	require.NotNil(t, got.CompletionProof)
	assert.Equal(t, proof, *got.CompletionProof)
}

func TestListApplicationsFilters(t *testing.T) {
	f := newAdminFixture(t)
	first := f.submitCase(t)
	second := f.submitCase(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.admin.Id, first, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 0,
	})
	require.NoError(t, err)

	all, err := f.svc.ListApplications(context.Background(), &dto.AdminApplicationListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.svc.ListApplications(context.Background(), &dto.AdminApplicationListRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].Id)
}

func TestGetDashboardStats(t *testing.T) {
	f := newAdminFixture(t)
	f.submitCase(t)
	f.submitCase(t)

	stats, err := f.svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalApplications)
	assert.Equal(t, 2, stats.ByStatus["pending"])
	// Two standard deposits collected, two balances outstanding.
	assert.Equal(t, 6400, stats.CollectedRevenue)
	assert.Equal(t, 6400, stats.PipelineAmount)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 2, stats.ActiveUsers)

	// Second read comes from the cache even if the store changes underneath.
	f.submitCase(t)
	cached, err := f.svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cached.TotalApplications)
}

func TestDashboardCacheInvalidatedByTransition(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	_, err := f.svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(context.Background(), f.admin.Id, caseNumber, &dto.TransitionStatusRequest{
		Status:  "reviewing",
		Version: 0,
	})
	require.NoError(t, err)

	stats, err := f.svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus["reviewing"])
	assert.Equal(t, 0, stats.ByStatus["pending"])
}

func TestUpdateUserStatus(t *testing.T) {
	f := newAdminFixture(t)

	err := f.svc.UpdateUserStatus(context.Background(), f.customer.Id, &dto.UpdateUserStatusRequest{
		Status: "blocked",
		Reason: "chargeback dispute",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusBlocked, f.factory.uow.users.users[f.customer.Id].Status)

	err = f.svc.UpdateUserStatus(context.Background(), uuid.New(), &dto.UpdateUserStatusRequest{Status: "blocked"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExportApplicationsCSVExcludesSensitiveColumns(t *testing.T) {
	f := newAdminFixture(t)
	caseNumber := f.submitCase(t)

	data, err := f.svc.ExportApplicationsCSV(context.Background())
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, caseNumber)
	assert.Contains(t, body, f.customer.Email)
	assert.NotContains(t, body, "P4811227A")
}
