package mapper

import (
	"encoding/json"

	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/model"

	"gorm.io/datatypes"
)

type ApplicationMapper struct{}

func NewApplicationMapper() *ApplicationMapper {
	return &ApplicationMapper{}
}

func (m *ApplicationMapper) ToEntity(a *model.VisaApplication) *entity.VisaApplication {
	if a == nil {
		return nil
	}

	var additional []string
	if len(a.AdditionalDocs) > 0 {
		// A corrupt column should not make the whole case unreadable.
		_ = json.Unmarshal(a.AdditionalDocs, &additional)
	}

	out := &entity.VisaApplication{
		Id:              a.Id,
		UserId:          a.UserId,
		UserName:        a.UserName,
		UserEmail:       a.UserEmail,
		VisaType:        a.VisaType,
		PassportNumber:  a.PassportNumber,
		ExpiryDate:      a.ExpiryDate,
		PassportFile:    a.PassportFile,
		PhotoFile:       a.PhotoFile,
		AdditionalDocs:  additional,
		Status:          entity.ApplicationStatus(a.Status),
		PaymentStatus:   entity.PaymentStatus(a.PaymentStatus),
		ServiceType:     entity.ServiceType(a.ServiceType),
		Amount:          a.Amount,
		DepositAmount:   a.DepositAmount,
		AdminNotes:      a.AdminNotes,
		CompletionProof: a.CompletionProof,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	for _, l := range a.AuditLog {
		out.AuditLog = append(out.AuditLog, *m.AuditLogToEntity(&l))
	}
	return out
}

func (m *ApplicationMapper) ToModel(a *entity.VisaApplication) *model.VisaApplication {
	if a == nil {
		return nil
	}

	var additional datatypes.JSON
	if len(a.AdditionalDocs) > 0 {
		raw, _ := json.Marshal(a.AdditionalDocs)
		additional = datatypes.JSON(raw)
	}

	return &model.VisaApplication{
		Id:              a.Id,
		UserId:          a.UserId,
		UserName:        a.UserName,
		UserEmail:       a.UserEmail,
		VisaType:        a.VisaType,
		PassportNumber:  a.PassportNumber,
		ExpiryDate:      a.ExpiryDate,
		PassportFile:    a.PassportFile,
		PhotoFile:       a.PhotoFile,
		AdditionalDocs:  additional,
		Status:          string(a.Status),
		PaymentStatus:   string(a.PaymentStatus),
		ServiceType:     string(a.ServiceType),
		Amount:          a.Amount,
		DepositAmount:   a.DepositAmount,
		AdminNotes:      a.AdminNotes,
		CompletionProof: a.CompletionProof,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m *ApplicationMapper) ToEntities(apps []*model.VisaApplication) []*entity.VisaApplication {
	entities := make([]*entity.VisaApplication, len(apps))
	for i, a := range apps {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *ApplicationMapper) AuditLogToEntity(l *model.ApplicationAuditLog) *entity.AuditEntry {
	if l == nil {
		return nil
	}
	return &entity.AuditEntry{
		Id:            l.Id,
		ApplicationId: l.ApplicationId,
		Action:        l.Action,
		PerformedBy:   l.PerformedBy,
		CreatedAt:     l.CreatedAt,
	}
}

func (m *ApplicationMapper) AuditLogToModel(l *entity.AuditEntry) *model.ApplicationAuditLog {
	if l == nil {
		return nil
	}
	return &model.ApplicationAuditLog{
		Id:            l.Id,
		ApplicationId: l.ApplicationId,
		Action:        l.Action,
		PerformedBy:   l.PerformedBy,
		CreatedAt:     l.CreatedAt,
	}
}
