package services

import (
	"math"

	"retail-insights/internal/models"
)

// identityTolerance is the floating tolerance for the total-amount identity
// total_amount == quantity * price_per_unit.
const identityTolerance = 1e-6

// TotalAmountIdentity verifies the per-row amount identity. Mismatching rows
// are reported, never dropped.
func TotalAmountIdentity(rows []models.Transaction) []models.IdentityCheck {
	checks := make([]models.IdentityCheck, 0, len(rows))
	for _, r := range rows {
		expected := r.Quantity * r.PricePerUnit
		absErr := math.Abs(r.TotalAmount - expected)
		checks = append(checks, models.IdentityCheck{
			TransactionID: r.TransactionID,
			Date:          r.Date,
			Quantity:      r.Quantity,
			PricePerUnit:  r.PricePerUnit,
			TotalAmount:   r.TotalAmount,
			ExpectedTotal: expected,
			AbsError:      absErr,
			IsMismatch:    absErr > identityTolerance,
		})
	}
	return checks
}

// SanityChecks counts data-quality anomalies across the input. Anomalies are
// surfaced as counts; rows stay in the dataset and never raise errors.
func SanityChecks(rows []models.Transaction) models.QualitySummary {
	s := models.QualitySummary{Rows: len(rows)}

	for i, r := range rows {
		if rowHasMissing(r) {
			s.MissingAny++
		}
		if r.Quantity <= 0 {
			s.NonPositiveQuantity++
		}
		if r.PricePerUnit <= 0 {
			s.NonPositivePrice++
		}
		if r.TotalAmount <= 0 {
			s.NonPositiveTotal++
		}

		day := dateOnly(r.Date)
		if i == 0 || day.Format("2006-01-02") < s.DateMin {
			s.DateMin = day.Format("2006-01-02")
		}
		if i == 0 || day.Format("2006-01-02") > s.DateMax {
			s.DateMax = day.Format("2006-01-02")
		}
	}

	for _, c := range TotalAmountIdentity(rows) {
		if c.IsMismatch {
			s.TotalAmountMismatches++
		}
	}
	return s
}

func rowHasMissing(r models.Transaction) bool {
	if r.TransactionID == "" || r.Category == "" {
		return true
	}
	for _, v := range []float64{r.Age, r.Quantity, r.PricePerUnit, r.TotalAmount} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
