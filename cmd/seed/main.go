package main

import (
	"log"
	"os"
	"time"

	"staysure-portal-be/internal/model"
	"staysure-portal-be/internal/pkg/vault"
	"staysure-portal-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a local database with an admin, a demo customer, and two cases in
// different lifecycle stages. Intended for development only.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	secret := os.Getenv("PASSPORT_ENCRYPTION_SECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "default_secret"
	}
	cipher, err := vault.NewPassportCipher(secret)
	if err != nil {
		log.Fatalf("Failed to initialize passport cipher: %v", err)
	}

	if err := seed(db, cipher); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding completed successfully")
}

func seed(db *gorm.DB, cipher *vault.PassportCipher) error {
	adminHash, err := hashPassword("admin12345")
	if err != nil {
		return err
	}
	userHash, err := hashPassword("demo12345")
	if err != nil {
		return err
	}

	now := time.Now()

	admin := model.User{
		Id:              uuid.New(),
		Email:           "admin@staysure.example",
		PasswordHash:    &adminHash,
		FullName:        "Portal Admin",
		Role:            "admin",
		Status:          "active",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	demo := model.User{
		Id:              uuid.New(),
		Email:           "maria.santos@example.com",
		PasswordHash:    &userHash,
		FullName:        "Maria Santos",
		Phone:           "+63 917 555 0134",
		Nationality:     "Philippines",
		Role:            "user",
		Status:          "active",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range []model.User{admin, demo} {
			var existing model.User
			err := tx.Where("email = ?", u.Email).First(&existing).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		}

		// Re-read so re-runs against an already seeded database keep the
		// cases attached to the right accounts.
		if err := tx.Where("email = ?", admin.Email).First(&admin).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", demo.Email).First(&demo).Error; err != nil {
			return err
		}

		passport1, err := cipher.Encrypt("P4811227A")
		if err != nil {
			return err
		}
		passport2, err := cipher.Encrypt("EB5512876")
		if err != nil {
			return err
		}

		cases := []model.VisaApplication{
			{
				Id:             "ST-2026-001234",
				UserId:         demo.Id,
				UserName:       demo.FullName,
				UserEmail:      demo.Email,
				VisaType:       "Tourist Visa Extension",
				PassportNumber: passport1,
				ExpiryDate:     time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
				Status:         "reviewing",
				PaymentStatus:  "deposit_paid",
				ServiceType:    "standard",
				Amount:         6400,
				DepositAmount:  3200,
				Version:        1,
			},
			{
				Id:             "ST-2026-001235",
				UserId:         demo.Id,
				UserName:       demo.FullName,
				UserEmail:      demo.Email,
				VisaType:       "Tourist Visa Extension",
				PassportNumber: passport2,
				ExpiryDate:     time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
				Status:         "pending",
				PaymentStatus:  "deposit_paid",
				ServiceType:    "express",
				Amount:         8800,
				DepositAmount:  4400,
				Version:        0,
			},
		}

		auditTrails := map[string][]model.ApplicationAuditLog{
			"ST-2026-001234": {
				{ApplicationId: "ST-2026-001234", Action: "Application submitted", PerformedBy: demo.Id.String()},
				{ApplicationId: "ST-2026-001234", Action: "Deposit payment received", PerformedBy: "system"},
				{ApplicationId: "ST-2026-001234", Action: "Status changed to reviewing", PerformedBy: admin.Id.String()},
			},
			"ST-2026-001235": {
				{ApplicationId: "ST-2026-001235", Action: "Application submitted", PerformedBy: demo.Id.String()},
				{ApplicationId: "ST-2026-001235", Action: "Deposit payment received", PerformedBy: "system"},
			},
		}

		for _, c := range cases {
			var existing model.VisaApplication
			err := tx.Where("id = ?", c.Id).First(&existing).Error
			if err == nil {
				continue // already seeded
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			for _, entry := range auditTrails[c.Id] {
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
