package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"staysure-portal-be/internal/entity"
)

// csvHeader is the fixed column order of the back-office export.
var csvHeader = []string{
	"case_number",
	"applicant_name",
	"applicant_email",
	"visa_type",
	"service_type",
	"status",
	"payment_status",
	"amount",
	"deposit_amount",
	"submitted_at",
	"updated_at",
}

// ApplicationsCSV renders the given applications as a CSV document, one row
// per case. Passport numbers and admin notes are deliberately not included.
func ApplicationsCSV(apps []*entity.VisaApplication) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, app := range apps {
		row := []string{
			app.Id,
			app.UserName,
			app.UserEmail,
			app.VisaType,
			string(app.ServiceType),
			string(app.Status),
			string(app.PaymentStatus),
			strconv.Itoa(app.Amount),
			strconv.Itoa(app.DepositAmount),
			app.CreatedAt.Format("2006-01-02 15:04:05"),
			app.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
