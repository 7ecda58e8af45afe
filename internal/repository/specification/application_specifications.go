package specification

import (
	"fmt"

	"gorm.io/gorm"
)

type ByCaseNumber struct {
	CaseNumber string
}

func (s ByCaseNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.CaseNumber)
}

type ByApplicationStatus struct {
	Status string
}

func (s ByApplicationStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByPaymentStatus struct {
	PaymentStatus string
}

func (s ByPaymentStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ?", s.PaymentStatus)
}

type ByCaseYear struct {
	Year int
}

func (s ByCaseYear) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id LIKE ?", fmt.Sprintf("ST-%d-%%", s.Year))
}
