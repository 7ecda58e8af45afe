package service

import (
	"context"
	"fmt"
	"time"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/pkg/logger"
	"staysure-portal-be/internal/pkg/vault"
	"staysure-portal-be/internal/repository/memory"
	"staysure-portal-be/internal/repository/specification"
	"staysure-portal-be/internal/repository/unitofwork"
	"staysure-portal-be/pkg/admin/dashboard"
	"staysure-portal-be/pkg/admin/export"
	"staysure-portal-be/pkg/caseflow"
	"staysure-portal-be/pkg/events"
	pktNats "staysure-portal-be/pkg/nats"

	"github.com/google/uuid"
)

type IAdminService interface {
	TransitionStatus(ctx context.Context, adminId uuid.UUID, caseNumber string, req *dto.TransitionStatusRequest) (*dto.ApplicationResponse, error)
	ListApplications(ctx context.Context, req *dto.AdminApplicationListRequest) ([]*dto.ApplicationResponse, error)
	ExportApplicationsCSV(ctx context.Context) ([]byte, error)
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	ListUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, req *dto.UpdateUserStatusRequest) error
	GetSystemLogs(ctx context.Context, req *dto.SystemLogListRequest) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory       unitofwork.RepositoryFactory
	applicationSvc   IApplicationService
	cipher           *vault.PassportCipher
	aggregator       *dashboard.Aggregator
	statsCache       *memory.StatsCache
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	sysLogger        logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	applicationSvc IApplicationService,
	cipher *vault.PassportCipher,
	aggregator *dashboard.Aggregator,
	statsCache *memory.StatsCache,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:       uowFactory,
		applicationSvc:   applicationSvc,
		cipher:           cipher,
		aggregator:       aggregator,
		statsCache:       statsCache,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		sysLogger:        sysLogger,
	}
}

// TransitionStatus moves a case along its lifecycle. The caller must already
// be role-checked by the route middleware; adminId identifies who to blame in
// the audit trail. Admin notes are last-write-wins but only when provided,
// and completion proof is only accepted together with the completed status.
func (s *adminService) TransitionStatus(ctx context.Context, adminId uuid.UUID, caseNumber string, req *dto.TransitionStatusRequest) (*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	admin, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: adminId})
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsAdmin() {
		return nil, ErrUnauthorized
	}

	app, err := uow.ApplicationRepository().FindOne(ctx, specification.ByCaseNumber{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}

	newStatus := entity.ApplicationStatus(req.Status)
	if !caseflow.ValidStatus(newStatus) {
		return nil, ErrInvalidTransition
	}
	if !caseflow.CanTransition(app.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	fromStatus := app.Status
	now := time.Now()

	app.Status = newStatus
	app.UpdatedAt = now
	if req.AdminNotes != nil {
		app.AdminNotes = req.AdminNotes
	}
	if newStatus == entity.StatusCompleted && req.CompletionProof != nil {
		app.CompletionProof = req.CompletionProof
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ok, err := uow.ApplicationRepository().UpdateVersioned(ctx, app, req.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVersionConflict
	}

	if err := uow.ApplicationRepository().AppendAuditEntry(ctx, &entity.AuditEntry{
		ApplicationId: caseNumber,
		Action:        fmt.Sprintf("Status changed to %s", req.Status),
		PerformedBy:   adminId.String(),
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	app.Version = req.Version + 1

	s.sysLogger.Info("Admin", "Case status changed", map[string]interface{}{
		"case_number": caseNumber,
		"from":        string(fromStatus),
		"to":          req.Status,
		"admin_id":    adminId.String(),
	})

	// Counts per status just changed.
	s.statsCache.Invalidate()

	if s.publisherService != nil {
		msg := dto.StatusChangedMessage{
			ApplicationId: caseNumber,
			UserId:        app.UserId.String(),
			UserName:      app.UserName,
			UserEmail:     app.UserEmail,
			FromStatus:    string(fromStatus),
			ToStatus:      req.Status,
		}
		if err := s.publisherService.Publish(msg); err != nil {
			s.sysLogger.Warn("Admin", "Failed to publish status message", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		event := events.NewCaseStatusChanged(caseNumber, app.UserId.String(), string(fromStatus), req.Status)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.sysLogger.Warn("Admin", "Failed to publish CASE_STATUS_CHANGED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return s.applicationSvc.GetById(ctx, adminId, true, caseNumber)
}

func (s *adminService) ListApplications(ctx context.Context, req *dto.AdminApplicationListRequest) ([]*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if req.Status != "" {
		specs = append(specs, specification.ByApplicationStatus{Status: req.Status})
	}
	if req.PaymentStatus != "" {
		specs = append(specs, specification.ByPaymentStatus{PaymentStatus: req.PaymentStatus})
	}

	apps, err := uow.ApplicationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		res = append(res, s.toListItem(app))
	}
	return res, nil
}

// toListItem maps a case for the back-office table: no audit trail, passport
// number masked like everywhere else.
func (s *adminService) toListItem(app *entity.VisaApplication) *dto.ApplicationResponse {
	masked := "****"
	if plain, err := s.cipher.Decrypt(app.PassportNumber); err == nil {
		masked = vault.Mask(plain)
	}
	return &dto.ApplicationResponse{
		Id:              app.Id,
		UserId:          app.UserId.String(),
		UserName:        app.UserName,
		UserEmail:       app.UserEmail,
		VisaType:        app.VisaType,
		PassportNumber:  masked,
		ExpiryDate:      app.ExpiryDate.Format("2006-01-02"),
		PassportFile:    app.PassportFile,
		PhotoFile:       app.PhotoFile,
		AdditionalDocs:  app.AdditionalDocs,
		Status:          string(app.Status),
		PaymentStatus:   string(app.PaymentStatus),
		ServiceType:     string(app.ServiceType),
		Amount:          app.Amount,
		DepositAmount:   app.DepositAmount,
		AdminNotes:      app.AdminNotes,
		CompletionProof: app.CompletionProof,
		Version:         app.Version,
		SubmittedAt:     app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

func (s *adminService) ExportApplicationsCSV(ctx context.Context) ([]byte, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	apps, err := uow.ApplicationRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return export.ApplicationsCSV(apps)
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	if cached, ok := s.statsCache.GetDashboardStats(); ok {
		if stats, ok := cached.(*dto.AdminDashboardStats); ok {
			return stats, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats, err := s.aggregator.GetStats(ctx, uow)
	if err != nil {
		return nil, err
	}

	s.statsCache.SaveDashboardStats(stats)
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var users []*entity.User
	var err error

	if req.Search != "" {
		users, err = uow.UserRepository().SearchUsers(ctx, req.Search, limit, offset)
	} else {
		var specs []specification.Specification
		if req.Role != "" {
			specs = append(specs, specification.ByRole{Role: req.Role})
		}
		if req.Status != "" {
			specs = append(specs, specification.ByStatus{Status: req.Status})
		}
		users, err = uow.UserRepository().FindAll(ctx, specs...)
	}
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserListResponse, 0, len(users))
	for _, u := range users {
		res = append(res, &dto.UserListResponse{
			Id:        u.Id,
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      string(u.Role),
			Status:    string(u.Status),
			CreatedAt: u.CreatedAt,
		})
	}
	return res, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, req *dto.UpdateUserStatusRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, req.Status); err != nil {
		return err
	}

	s.sysLogger.Info("Admin", "User status updated", map[string]interface{}{
		"user_id": userId.String(),
		"status":  req.Status,
		"reason":  req.Reason,
	})

	return nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, req *dto.SystemLogListRequest) ([]logger.LogEntry, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.sysLogger.GetLogs(req.Level, limit, req.Offset)
}
