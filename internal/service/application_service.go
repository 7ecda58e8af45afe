package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/pkg/vault"
	"staysure-portal-be/internal/repository/specification"
	"staysure-portal-be/internal/repository/unitofwork"
	"staysure-portal-be/pkg/caseflow"
	"staysure-portal-be/pkg/events"
	pktNats "staysure-portal-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxCaseNumberMints bounds how often Submit re-mints a case number after
// losing a race for it.
const maxCaseNumberMints = 3

type IApplicationService interface {
	GetQuote(serviceType string) (*dto.QuoteResponse, error)
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error)
	ListByOwner(ctx context.Context, userId uuid.UUID) ([]*dto.ApplicationResponse, error)
	GetById(ctx context.Context, userId uuid.UUID, isAdmin bool, caseNumber string) (*dto.ApplicationResponse, error)
	AttachDocument(ctx context.Context, userId uuid.UUID, caseNumber string, req *dto.AttachDocumentRequest) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	uowFactory     unitofwork.RepositoryFactory
	cipher         *vault.PassportCipher
	eventPublisher *pktNats.Publisher
}

func NewApplicationService(
	uowFactory unitofwork.RepositoryFactory,
	cipher *vault.PassportCipher,
	eventPublisher *pktNats.Publisher,
) IApplicationService {
	return &applicationService{
		uowFactory:     uowFactory,
		cipher:         cipher,
		eventPublisher: eventPublisher,
	}
}

func (s *applicationService) GetQuote(serviceType string) (*dto.QuoteResponse, error) {
	st := entity.ServiceType(serviceType)
	if st != entity.ServiceStandard && st != entity.ServiceExpress {
		return nil, fmt.Errorf("unknown service type: %s", serviceType)
	}

	quote := caseflow.PriceFor(st)
	serviceFee := caseflow.StandardServiceFee
	if st == entity.ServiceExpress {
		serviceFee = caseflow.ExpressServiceFee
	}

	return &dto.QuoteResponse{
		ServiceType:   serviceType,
		ServiceFee:    serviceFee,
		GovernmentFee: caseflow.GovernmentFee,
		Amount:        quote.Amount,
		DepositAmount: quote.DepositAmount,
	}, nil
}

// Submit creates a new case. The applicant pays the deposit as part of the
// submission flow, so the case is born with status "pending" and payment
// status "deposit_paid", and its audit trail opens with exactly two entries:
// the submission (attributed to the applicant) and the deposit receipt
// (attributed to the system).
func (s *applicationService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry date: %w", err)
	}

	serviceType := entity.ServiceType(req.ServiceType)
	quote := caseflow.PriceFor(serviceType)

	sealedPassport, err := s.cipher.Encrypt(req.PassportNumber)
	if err != nil {
		return nil, err
	}

	year := time.Now().Year()
	now := time.Now()
	var app *entity.VisaApplication

	// Two submits counting the year's cases at the same time mint the same
	// number; the primary key rejects the loser, who recounts and retries.
	for attempt := 1; ; attempt++ {
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}

		seq, err := uow.ApplicationRepository().NextCaseSequence(ctx, year)
		if err != nil {
			uow.Rollback()
			return nil, err
		}

		app = &entity.VisaApplication{
			Id:             caseflow.FormatCaseNumber(year, seq),
			UserId:         user.Id,
			UserName:       user.FullName,
			UserEmail:      user.Email,
			VisaType:       req.VisaType,
			PassportNumber: sealedPassport,
			ExpiryDate:     expiryDate,
			Status:         entity.StatusPending,
			PaymentStatus:  entity.PaymentDepositPaid,
			ServiceType:    serviceType,
			Amount:         quote.Amount,
			DepositAmount:  quote.DepositAmount,
			Version:        0,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if req.PassportFile != "" {
			app.PassportFile = &req.PassportFile
		}
		if req.PhotoFile != "" {
			app.PhotoFile = &req.PhotoFile
		}

		err = uow.ApplicationRepository().Create(ctx, app)
		if err == nil {
			break
		}
		uow.Rollback()
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= maxCaseNumberMints {
			return nil, err
		}
	}
	defer uow.Rollback()

	// Two entries, in this order, in the same transaction as the case.
	if err := uow.ApplicationRepository().AppendAuditEntry(ctx, &entity.AuditEntry{
		ApplicationId: app.Id,
		Action:        "Application submitted",
		PerformedBy:   user.Id.String(),
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := uow.ApplicationRepository().AppendAuditEntry(ctx, &entity.AuditEntry{
		ApplicationId: app.Id,
		Action:        "Deposit payment received",
		PerformedBy:   entity.SystemActor,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.NewCaseSubmitted(app.Id, user.Id.String(), req.ServiceType, quote.Amount)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish CASE_SUBMITTED event: %v\n", err)
		}
	}

	return &dto.SubmitApplicationResponse{
		Id:            app.Id,
		Status:        string(app.Status),
		PaymentStatus: string(app.PaymentStatus),
		Amount:        app.Amount,
		DepositAmount: app.DepositAmount,
	}, nil
}

func (s *applicationService) ListByOwner(ctx context.Context, userId uuid.UUID) ([]*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	apps, err := uow.ApplicationRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		res = append(res, s.toResponse(app, false))
	}
	return res, nil
}

func (s *applicationService) GetById(ctx context.Context, userId uuid.UUID, isAdmin bool, caseNumber string) (*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	app, err := uow.ApplicationRepository().FindOneWithAuditLog(ctx, specification.ByCaseNumber{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}

	if !isAdmin && !app.IsOwnedBy(userId) {
		return nil, ErrForbidden
	}

	return s.toResponse(app, true), nil
}

func (s *applicationService) AttachDocument(ctx context.Context, userId uuid.UUID, caseNumber string, req *dto.AttachDocumentRequest) (*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	app, err := uow.ApplicationRepository().FindOne(ctx, specification.ByCaseNumber{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if !app.IsOwnedBy(userId) {
		return nil, ErrForbidden
	}

	docType := entity.DocumentType(req.DocumentType)
	switch docType {
	case entity.DocumentPassport:
		app.PassportFile = &req.FileName
	case entity.DocumentPhoto:
		app.PhotoFile = &req.FileName
	case entity.DocumentAdditional:
		app.AdditionalDocs = append(app.AdditionalDocs, req.FileName)
	default:
		return nil, fmt.Errorf("unknown document type: %s", req.DocumentType)
	}

	now := time.Now()
	app.UpdatedAt = now

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
		Action:        fmt.Sprintf("Document uploaded: %s", req.DocumentType),
		PerformedBy:   userId.String(),
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	app.Version = req.Version + 1

	if s.eventPublisher != nil {
		event := events.NewDocumentAttached(caseNumber, userId.String(), req.DocumentType)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_ATTACHED event: %v\n", err)
		}
	}

	return s.toResponse(app, false), nil
}

func (s *applicationService) toResponse(app *entity.VisaApplication, withAudit bool) *dto.ApplicationResponse {
	res := &dto.ApplicationResponse{
		Id:              app.Id,
		UserId:          app.UserId.String(),
		UserName:        app.UserName,
		UserEmail:       app.UserEmail,
		VisaType:        app.VisaType,
		PassportNumber:  s.maskedPassport(app.PassportNumber),
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

	if withAudit {
		res.AuditLog = make([]dto.AuditEntryResponse, 0, len(app.AuditLog))
		for _, e := range app.AuditLog {
			res.AuditLog = append(res.AuditLog, dto.AuditEntryResponse{
				Action:      e.Action,
				PerformedBy: e.PerformedBy,
				Timestamp:   e.CreatedAt,
			})
		}
	}

	return res
}

// maskedPassport decrypts the stored ciphertext and stars all but the last
// four characters. If decryption fails the field is fully masked rather than
// leaking the ciphertext.
func (s *applicationService) maskedPassport(sealed string) string {
	plain, err := s.cipher.Decrypt(sealed)
	if err != nil {
		return "****"
	}
	return vault.Mask(plain)
}
