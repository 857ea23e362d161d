package services

import (
	"math"
	"testing"

	"retail-insights/internal/models"
)

func TestTotalAmountIdentity(t *testing.T) {
	tests := []struct {
		name         string
		qty          float64
		price        float64
		total        float64
		wantMismatch bool
	}{
		{"exact identity", 5, 5.00, 25.00, false},
		{"one cent off", 5, 5.00, 25.01, true},
		{"within tolerance", 2, 10, 20 + 1e-9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []models.Transaction{
				tx("T001", day(2023, 5, 1), "Beauty", tt.qty, tt.price, tt.total),
			}

			checks := TotalAmountIdentity(rows)
			if len(checks) != 1 {
				t.Fatalf("expected 1 check row, got %d", len(checks))
			}

			c := checks[0]
			if c.ExpectedTotal != tt.qty*tt.price {
				t.Errorf("expected total %v, got %v", tt.qty*tt.price, c.ExpectedTotal)
			}
			if c.IsMismatch != tt.wantMismatch {
				t.Errorf("IsMismatch = %v, want %v (abs error %v)", c.IsMismatch, tt.wantMismatch, c.AbsError)
			}
		})
	}
}

func TestSanityChecks(t *testing.T) {
	missingTotal := tx("T003", day(2023, 5, 3), "Beauty", 1, 10, 10)
	missingTotal.TotalAmount = math.NaN()

	rows := []models.Transaction{
		tx("T001", day(2023, 5, 2), "Beauty", 2, 50, 100),
		tx("T002", day(2023, 5, 1), "Clothing", -1, 0, -5),
		missingTotal,
	}

	s := SanityChecks(rows)

	if s.Rows != 3 {
		t.Errorf("expected 3 rows, got %d", s.Rows)
	}
	if s.MissingAny != 1 {
		t.Errorf("expected 1 row with missing values, got %d", s.MissingAny)
	}
	if s.NonPositiveQuantity != 1 {
		t.Errorf("expected 1 non-positive quantity, got %d", s.NonPositiveQuantity)
	}
	if s.NonPositivePrice != 1 {
		t.Errorf("expected 1 non-positive price, got %d", s.NonPositivePrice)
	}
	if s.NonPositiveTotal != 1 {
		t.Errorf("expected 1 non-positive total, got %d", s.NonPositiveTotal)
	}
	if s.DateMin != "2023-05-01" || s.DateMax != "2023-05-03" {
		t.Errorf("date range %s..%s, want 2023-05-01..2023-05-03", s.DateMin, s.DateMax)
	}
	if s.TotalAmountMismatches != 1 {
		t.Errorf("expected 1 identity mismatch, got %d", s.TotalAmountMismatches)
	}
}
