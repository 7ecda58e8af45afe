package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/pkg/logger"
	"staysure-portal-be/internal/repository/contract"
	"staysure-portal-be/internal/repository/specification"
	"staysure-portal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory doubles for the repository layer. Specifications are interpreted
// by type instead of building SQL, which keeps these tests honest about the
// filters each service actually applies.

type fakeUserRepo struct {
	users         map[uuid.UUID]*entity.User
	resetTokens   map[uuid.UUID]*entity.PasswordResetToken
	verifyTokens  map[uuid.UUID]*entity.EmailVerificationToken
	refreshTokens map[string]*entity.UserRefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[uuid.UUID]*entity.User),
		resetTokens:   make(map[uuid.UUID]*entity.PasswordResetToken),
		verifyTokens:  make(map[uuid.UUID]*entity.EmailVerificationToken),
		refreshTokens: make(map[string]*entity.UserRefreshToken),
	}
}

func (r *fakeUserRepo) add(u *entity.User) { r.users[u.Id] = u }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) matches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != sp.Email {
				return false
			}
		case specification.ByRole:
			if string(u.Role) != sp.Role {
				return false
			}
		case specification.ByStatus:
			if string(u.Status) != sp.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		if r.matches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var res []*entity.User
	for _, u := range r.users {
		if r.matches(u, specs) {
			res = append(res, u)
		}
	}
	return res, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.resetTokens[token.Id] = token
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	for _, t := range r.resetTokens {
		match := true
		for _, s := range specs {
			if sp, ok := s.(specification.ByToken); ok && t.Token != sp.Token {
				match = false
			}
		}
		if match {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	if t, ok := r.resetTokens[id]; ok {
		t.Used = true
	}
	return nil
}

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	r.verifyTokens[token.Id] = token
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	for _, t := range r.verifyTokens {
		match := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.ByToken:
				if t.Token != sp.Token {
					match = false
				}
			case specification.UserOwnedBy:
				if t.UserId != sp.UserID {
					match = false
				}
			}
		}
		if match {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	delete(r.verifyTokens, id)
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	r.refreshTokens[token.TokenHash] = token
	return nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if t, ok := r.refreshTokens[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}

func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	if u, ok := r.users[userId]; ok {
		u.Status = entity.UserStatusActive
		u.EmailVerified = true
	}
	return nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if u, ok := r.users[id]; ok {
		u.Status = entity.UserStatus(status)
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	if u, ok := r.users[userId]; ok {
		u.PasswordHash = &hash
	}
	return nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	var res []*entity.User
	for _, u := range r.users {
		if strings.Contains(u.Email, query) || strings.Contains(u.FullName, query) {
			res = append(res, u)
		}
	}
	return res, nil
}

type fakeApplicationRepo struct {
	apps    map[string]*entity.VisaApplication
	audit   []entity.AuditEntry
	nextSeq int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:    make(map[string]*entity.VisaApplication),
		nextSeq: 1,
	}
}

func (r *fakeApplicationRepo) add(app *entity.VisaApplication) { r.apps[app.Id] = app }

func (r *fakeApplicationRepo) auditFor(applicationId string) []entity.AuditEntry {
	var res []entity.AuditEntry
	for _, e := range r.audit {
		if e.ApplicationId == applicationId {
			res = append(res, e)
		}
	}
	return res
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *entity.VisaApplication) error {
	if _, exists := r.apps[app.Id]; exists {
		return gorm.ErrDuplicatedKey
	}
	copied := *app
	r.apps[app.Id] = &copied
	return nil
}

// UpdateVersioned writes the same column set as the real repository: payment
// status stays whatever the store holds, stale copies notwithstanding.
func (r *fakeApplicationRepo) UpdateVersioned(ctx context.Context, app *entity.VisaApplication, expectedVersion int) (bool, error) {
	stored, ok := r.apps[app.Id]
	if !ok {
		return false, nil
	}
	if stored.Version != expectedVersion {
		return false, nil
	}
	stored.Status = app.Status
	stored.PassportFile = app.PassportFile
	stored.PhotoFile = app.PhotoFile
	stored.AdditionalDocs = app.AdditionalDocs
	stored.AdminNotes = app.AdminNotes
	stored.CompletionProof = app.CompletionProof
	stored.UpdatedAt = app.UpdatedAt
	stored.Version = expectedVersion + 1
	return true, nil
}

func (r *fakeApplicationRepo) MarkFullyPaid(ctx context.Context, caseNumber string, paidAt time.Time) (bool, error) {
	stored, ok := r.apps[caseNumber]
	if !ok {
		return false, nil
	}
	if stored.PaymentStatus == entity.PaymentFullyPaid {
		return false, nil
	}
	stored.PaymentStatus = entity.PaymentFullyPaid
	stored.UpdatedAt = paidAt
	stored.Version++
	return true, nil
}

func (r *fakeApplicationRepo) matches(app *entity.VisaApplication, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByCaseNumber:
			if app.Id != sp.CaseNumber {
				return false
			}
		case specification.UserOwnedBy:
			if app.UserId != sp.UserID {
				return false
			}
		case specification.ByApplicationStatus:
			if string(app.Status) != sp.Status {
				return false
			}
		case specification.ByPaymentStatus:
			if string(app.PaymentStatus) != sp.PaymentStatus {
				return false
			}
		}
	}
	return true
}

func (r *fakeApplicationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisaApplication, error) {
	for _, app := range r.apps {
		if r.matches(app, specs) {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeApplicationRepo) FindOneWithAuditLog(ctx context.Context, specs ...specification.Specification) (*entity.VisaApplication, error) {
	app, err := r.FindOne(ctx, specs...)
	if err != nil || app == nil {
		return app, err
	}
	app.AuditLog = r.auditFor(app.Id)
	return app, nil
}

func (r *fakeApplicationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VisaApplication, error) {
	var res []*entity.VisaApplication
	for _, app := range r.apps {
		if r.matches(app, specs) {
			copied := *app
			res = append(res, &copied)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Id < res[j].Id })
	return res, nil
}

func (r *fakeApplicationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeApplicationRepo) AppendAuditEntry(ctx context.Context, entry *entity.AuditEntry) error {
	copied := *entry
	copied.Id = int64(len(r.audit) + 1)
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	r.audit = append(r.audit, copied)
	return nil
}

func (r *fakeApplicationRepo) FindAuditLog(ctx context.Context, applicationId string) ([]entity.AuditEntry, error) {
	return r.auditFor(applicationId), nil
}

func (r *fakeApplicationRepo) NextCaseSequence(ctx context.Context, year int) (int, error) {
	seq := r.nextSeq
	r.nextSeq++
	return seq, nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	res := make(map[string]int64)
	for _, app := range r.apps {
		res[string(app.Status)]++
	}
	return res, nil
}

func (r *fakeApplicationRepo) SumCollectedRevenue(ctx context.Context) (int64, error) {
	var sum int64
	for _, app := range r.apps {
		switch app.PaymentStatus {
		case entity.PaymentFullyPaid:
			sum += int64(app.Amount)
		case entity.PaymentDepositPaid:
			sum += int64(app.DepositAmount)
		}
	}
	return sum, nil
}

func (r *fakeApplicationRepo) SumPipelineAmount(ctx context.Context) (int64, error) {
	var sum int64
	for _, app := range r.apps {
		if app.PaymentStatus == entity.PaymentDepositPaid {
			sum += int64(app.Amount - app.DepositAmount)
		}
	}
	return sum, nil
}

type fakeUnitOfWork struct {
	users   *fakeUserRepo
	apps    *fakeApplicationRepo
	begun   int
	commits int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.begun++
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return u.users }

func (u *fakeUnitOfWork) ApplicationRepository() contract.ApplicationRepository { return u.apps }

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{
		uow: &fakeUnitOfWork{
			users: newFakeUserRepo(),
			apps:  newFakeApplicationRepo(),
		},
	}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// fakeLogger satisfies ILogger without touching the filesystem.
type fakeLogger struct {
	entries []logger.LogEntry
}

func (l *fakeLogger) log(level, module, message string) {
	l.entries = append(l.entries, logger.LogEntry{Level: level, Module: module, Message: message})
}

func (l *fakeLogger) Debug(module, message string, details map[string]interface{}) {
	l.log("debug", module, message)
}

func (l *fakeLogger) Info(module, message string, details map[string]interface{}) {
	l.log("info", module, message)
}

func (l *fakeLogger) Warn(module, message string, details map[string]interface{}) {
	l.log("warn", module, message)
}

func (l *fakeLogger) Error(module, message string, details map[string]interface{}) {
	l.log("error", module, message)
}

func (l *fakeLogger) Sync() error { return nil }

func (l *fakeLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return l.entries, nil
}

func (l *fakeLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// fakeMailer records sends; the auth service mails from goroutines, so the
// recorder has to be safe for concurrent use.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) record(kind, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, kind+":"+to)
}

func (m *fakeMailer) SendOTP(toEmail, otp string) error {
	m.record("otp", toEmail)
	return nil
}

func (m *fakeMailer) SendResetToken(toEmail, token string) error {
	m.record("reset", toEmail)
	return nil
}

func (m *fakeMailer) SendStatusUpdate(toEmail, caseNumber, newStatus string) error {
	m.record("status", toEmail)
	return nil
}

type fakePublisher struct {
	published []interface{}
}

func (p *fakePublisher) Publish(payload interface{}) error {
	p.published = append(p.published, payload)
	return nil
}
