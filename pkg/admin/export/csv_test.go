package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"staysure-portal-be/internal/entity"

	"github.com/google/uuid"
)

func TestApplicationsCSV(t *testing.T) {
	submitted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	apps := []*entity.VisaApplication{
		{
			Id:            "ST-2026-000001",
			UserId:        uuid.New(),
			UserName:      "Maria Santos",
			UserEmail:     "maria@example.com",
			VisaType:      "Tourist Visa",
			ServiceType:   entity.ServiceExpress,
			Status:        entity.StatusReviewing,
			PaymentStatus: entity.PaymentDepositPaid,
			Amount:        8800,
			DepositAmount: 4400,
			CreatedAt:     submitted,
			UpdatedAt:     submitted,
		},
	}

	out, err := ApplicationsCSV(apps)
	if err != nil {
		t.Fatalf("ApplicationsCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	if records[0][0] != "case_number" {
		t.Errorf("header starts with %q, want case_number", records[0][0])
	}

	row := records[1]
	if row[0] != "ST-2026-000001" {
		t.Errorf("case_number = %q", row[0])
	}
	if row[4] != "express" || row[7] != "8800" || row[8] != "4400" {
		t.Errorf("unexpected pricing columns: %v", row)
	}
	if row[9] != "2026-03-14 09:30:00" {
		t.Errorf("submitted_at = %q", row[9])
	}

	// Sensitive fields must not appear anywhere in the export.
	if strings.Contains(string(out), "passport") {
		t.Error("export should not contain passport data")
	}
}

func TestApplicationsCSVEmpty(t *testing.T) {
	out, err := ApplicationsCSV(nil)
	if err != nil {
		t.Fatalf("ApplicationsCSV: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d rows, want header only", len(records))
	}
}
