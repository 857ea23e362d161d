package models

import "time"

// Transaction is one validated input row. A transaction may span multiple
// rows; TransactionID is the grouping key for distinct-transaction counts.
// Numeric fields that failed coercion upstream are NaN, never zero.
type Transaction struct {
	TransactionID string
	Date          time.Time
	CustomerID    string
	Gender        string
	Age           float64
	Category      string
	Quantity      float64
	PricePerUnit  float64
	TotalAmount   float64
}

// DailyMetric is one row per distinct calendar date present in the input.
// AOV is the mean of per-row total amount, not revenue/txns; rows and
// transactions differ when a transaction spans multiple rows.
type DailyMetric struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Txns    int       `json:"txns"`
	Units   float64   `json:"units"`
	AOV     float64   `json:"aov"`
	Dow     string    `json:"dow"`
	Month   string    `json:"month"`
	Week    string    `json:"week"`
}

type WeeklyMetric struct {
	Week    string  `json:"week"`
	Revenue float64 `json:"revenue"`
	Txns    int     `json:"txns"`
	Units   float64 `json:"units"`
	AOV     float64 `json:"aov"`
	Days    int     `json:"n_days"`
}

// CategoryMix is one row per (date, category) pair present in the input.
// Categories with no rows on a date are absent, not zero.
type CategoryMix struct {
	Date            time.Time `json:"date"`
	Category        string    `json:"product_category"`
	CategoryRevenue float64   `json:"category_revenue"`
	DayRevenue      float64   `json:"day_revenue"`
	CategoryShare   float64   `json:"category_share"`
}

type DowSummary struct {
	Dow                string  `json:"dow"`
	AvgDailyRevenue    float64 `json:"avg_daily_revenue"`
	MedianDailyRevenue float64 `json:"median_daily_revenue"`
	AvgTxnsPerDay      float64 `json:"avg_txns_per_day"`
	AvgUnitsPerDay     float64 `json:"avg_units_per_day"`
	AvgAOV             float64 `json:"avg_aov"`
	Days               int     `json:"n_days"`
}

type MonthSummary struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Txns    int     `json:"txns"`
	Units   float64 `json:"units"`
	AvgAOV  float64 `json:"aov"`
	Days    int     `json:"n_days"`
}

// MonthDowCell distinguishes "no observed days" (nil Mean, Days == 0) from a
// cell whose observed mean revenue happens to be zero.
type MonthDowCell struct {
	Mean *float64 `json:"mean_revenue"`
	Days int      `json:"n_days"`
}

// MonthDowGrid is the month x day-of-week seasonality grid.
// Cells is indexed [month][dow], aligned with Months and Dows.
type MonthDowGrid struct {
	Months []string         `json:"months"`
	Dows   []string         `json:"dows"`
	Cells  [][]MonthDowCell `json:"cells"`
}

// ScoredDay extends a DailyMetric with the seasonal baseline and robust
// outlier scores. Residual is signed: slumps are large negative values.
type ScoredDay struct {
	DailyMetric
	ExpectedRevenue float64 `json:"expected_revenue"`
	Residual        float64 `json:"residual"`
	RobustZRevenue  float64 `json:"robust_z_revenue"`
	RobustZResidual float64 `json:"robust_z_residual"`
}

// DriverStat pairs a date's actual value with the global mean across all
// scored dates, so every card shares a common reference point.
type DriverStat struct {
	Actual       *float64 `json:"actual"`
	BaselineMean *float64 `json:"baseline_mean"`
}

type SpikeDrivers struct {
	Txns  DriverStat `json:"txns"`
	Units DriverStat `json:"units"`
	AOV   DriverStat `json:"aov"`
}

// TopCategory is all-null when the date has no category-mix rows; that is a
// valid state, not an error.
type TopCategory struct {
	Name    *string  `json:"name"`
	Revenue *float64 `json:"revenue"`
	Share   *float64 `json:"share"`
}

// SpikeCard is a self-contained, JSON-serializable explanation of one
// anomalous date. Fields that cannot be computed are null, never omitted and
// never defaulted to zero, so the schema is fixed across all cards.
type SpikeCard struct {
	Date            string       `json:"date"`
	Dow             string       `json:"dow"`
	ActualRevenue   *float64     `json:"actual_revenue"`
	ExpectedRevenue *float64     `json:"expected_revenue"`
	DeltaRevenue    *float64     `json:"delta_revenue"`
	DeltaPct        *float64     `json:"delta_pct"`
	Score           *float64     `json:"score"`
	Drivers         SpikeDrivers `json:"drivers"`
	TopCategory     TopCategory  `json:"top_category"`
	Notes           []string     `json:"notes"`
}

// IdentityCheck is the per-row total_amount == quantity * price_per_unit
// verification with a 1e-6 floating tolerance.
type IdentityCheck struct {
	TransactionID string    `json:"transaction_id"`
	Date          time.Time `json:"date"`
	Quantity      float64   `json:"quantity"`
	PricePerUnit  float64   `json:"price_per_unit"`
	TotalAmount   float64   `json:"total_amount"`
	ExpectedTotal float64   `json:"expected_total"`
	AbsError      float64   `json:"abs_error"`
	IsMismatch    bool      `json:"is_mismatch"`
}

// QualitySummary counts data-quality anomalies. Anomalous rows stay in the
// dataset; this is visibility, not filtering.
type QualitySummary struct {
	Rows                  int    `json:"n_rows"`
	MissingAny            int    `json:"n_missing_any"`
	NonPositiveQuantity   int    `json:"n_nonpositive_quantity"`
	NonPositivePrice      int    `json:"n_nonpositive_price"`
	NonPositiveTotal      int    `json:"n_nonpositive_total"`
	DateMin               string `json:"date_min"`
	DateMax               string `json:"date_max"`
	TotalAmountMismatches int    `json:"total_amount_mismatches"`
}
