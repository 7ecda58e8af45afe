package implementation

import (
	"context"
	"errors"
	"time"

	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/mapper"
	"staysure-portal-be/internal/model"
	"staysure-portal-be/internal/repository/contract"
	"staysure-portal-be/internal/repository/scope"
	"staysure-portal-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ApplicationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *entity.VisaApplication) error {
	m := r.mapper.ToModel(app)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	auditLog := app.AuditLog
	*app = *r.mapper.ToEntity(m)
	app.AuditLog = auditLog
	return nil
}

// UpdateVersioned deliberately leaves payment_status out of the column map:
// its callers work from a copy loaded before the transaction, and writing the
// column back would let a stale copy undo a settlement that committed in the
// meantime. Only MarkFullyPaid moves payment status.
func (r *ApplicationRepositoryImpl) UpdateVersioned(ctx context.Context, app *entity.VisaApplication, expectedVersion int) (bool, error) {
	m := r.mapper.ToModel(app)
	m.Version = expectedVersion + 1

	res := r.db.WithContext(ctx).Model(&model.VisaApplication{}).
		Where("id = ? AND version = ?", m.Id, expectedVersion).
		Updates(map[string]interface{}{
			"status":           m.Status,
			"passport_file":    m.PassportFile,
			"photo_file":       m.PhotoFile,
			"additional_docs":  m.AdditionalDocs,
			"admin_notes":      m.AdminNotes,
			"completion_proof": m.CompletionProof,
			"updated_at":       m.UpdatedAt,
			"version":          m.Version,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	app.Version = m.Version
	return true, nil
}

func (r *ApplicationRepositoryImpl) MarkFullyPaid(ctx context.Context, caseNumber string, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.VisaApplication{}).
		Where("id = ? AND payment_status <> ?", caseNumber, string(entity.PaymentFullyPaid)).
		Updates(map[string]interface{}{
			"payment_status": string(entity.PaymentFullyPaid),
			"updated_at":     paidAt,
			"version":        gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ApplicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisaApplication, error) {
	var m model.VisaApplication
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindOneWithAuditLog(ctx context.Context, specs ...specification.Specification) (*entity.VisaApplication, error) {
	var m model.VisaApplication
	query := r.applySpecifications(r.db.WithContext(ctx), specs...).
		Preload("AuditLog", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VisaApplication, error) {
	var models []*model.VisaApplication
	query := r.applySpecifications(r.db.WithContext(ctx), specs...).Scopes(scope.OrderByCreatedDesc)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.VisaApplication{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Audit trail: insert-only by contract.

func (r *ApplicationRepositoryImpl) AppendAuditEntry(ctx context.Context, entry *entity.AuditEntry) error {
	m := r.mapper.AuditLogToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.Id = m.Id
	entry.CreatedAt = m.CreatedAt
	return nil
}

func (r *ApplicationRepositoryImpl) FindAuditLog(ctx context.Context, applicationId string) ([]entity.AuditEntry, error) {
	var models []model.ApplicationAuditLog
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationId).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]entity.AuditEntry, len(models))
	for i, m := range models {
		entries[i] = *r.mapper.AuditLogToEntity(&m)
	}
	return entries, nil
}

func (r *ApplicationRepositoryImpl) NextCaseSequence(ctx context.Context, year int) (int, error) {
	count, err := r.Count(ctx, specification.ByCaseYear{Year: year})
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// Dashboard aggregates

func (r *ApplicationRepositoryImpl) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.VisaApplication{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.Count
	}
	return out, nil
}

// SumCollectedRevenue is money actually received: every application has paid
// its deposit at creation, and fully paid ones have settled the balance.
func (r *ApplicationRepositoryImpl) SumCollectedRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.VisaApplication{}).
		Select("COALESCE(SUM(CASE WHEN payment_status = ? THEN amount ELSE deposit_amount END), 0)", string(entity.PaymentFullyPaid)).
		Scan(&total).Error
	return total, err
}

// SumPipelineAmount is money not yet received: the outstanding balance of
// every case that has only paid its deposit.
func (r *ApplicationRepositoryImpl) SumPipelineAmount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.VisaApplication{}).
		Where("payment_status = ?", string(entity.PaymentDepositPaid)).
		Select("COALESCE(SUM(amount - deposit_amount), 0)").
		Scan(&total).Error
	return total, err
}
