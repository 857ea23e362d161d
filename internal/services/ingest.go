package services

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"retail-insights/internal/errors"
	"retail-insights/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// requiredColumns must all be present (after header normalization) before
// any aggregation runs. Passenger columns are tolerated and ignored.
var requiredColumns = []string{
	"date",
	"transaction_id",
	"product_category",
	"quantity",
	"price_per_unit",
	"total_amount",
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "2006/01/02"}

type columnMap map[string]int

func (c columnMap) get(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// LoadCSV reads and validates the transaction CSV. Header names are
// normalized to snake_case and required columns resolved by name. A missing
// required column or an unparseable date is a fatal schema error; numeric
// coercion failures become NaN and are surfaced via the quality summary.
func LoadCSV(ctx context.Context, filename string) ([]models.Transaction, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024) // 10MB buffer

	if !scanner.Scan() {
		return nil, errors.Schema("empty file: no header row")
	}

	columns, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	var rows []models.Transaction
	batch := make([]string, 0, batchSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		batch = append(batch, line)

		if len(batch) >= batchSize {
			parsed, err := parseBatch(ctx, batch, columns)
			if err != nil {
				return nil, err
			}
			rows = append(rows, parsed...)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		parsed, err := parseBatch(ctx, batch, columns)
		if err != nil {
			return nil, err
		}
		rows = append(rows, parsed...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}

	if len(rows) == 0 {
		return nil, errors.Schema("no data rows in file")
	}
	return rows, nil
}

func parseHeader(line string) (columnMap, error) {
	fields := strings.Split(line, ",")
	columns := make(columnMap, len(fields))
	for i, f := range fields {
		columns[toSnakeCase(f)] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Schema(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	return columns, nil
}

// parseBatch parses lines concurrently, preserving input order by index.
// Only sums and distinct counts are derived downstream, so the merge is
// order-independent, but keeping row order makes runs reproducible anyway.
func parseBatch(ctx context.Context, batch []string, columns columnMap) ([]models.Transaction, error) {
	out := make([]models.Transaction, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, line := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			tx, err := parseTransaction(strings.Split(line, ","), columns)
			if err != nil {
				return err
			}
			out[i] = tx
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseTransaction(record []string, columns columnMap) (models.Transaction, error) {
	rawDate := columns.get(record, "date")
	date, err := parseDate(rawDate)
	if err != nil {
		return models.Transaction{}, errors.SchemaWrap(err, fmt.Sprintf("unparseable date %q", rawDate))
	}

	return models.Transaction{
		TransactionID: columns.get(record, "transaction_id"),
		Date:          date,
		CustomerID:    columns.get(record, "customer_id"),
		Gender:        columns.get(record, "gender"),
		Age:           parseNumeric(columns.get(record, "age")),
		Category:      columns.get(record, "product_category"),
		Quantity:      parseNumeric(columns.get(record, "quantity")),
		PricePerUnit:  parseNumeric(columns.get(record, "price_per_unit")),
		TotalAmount:   parseNumeric(columns.get(record, "total_amount")),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("no matching date layout for %q", s)
}

// parseNumeric coerces a field to float64, producing NaN for blank or
// malformed values. Never substitutes zero for a missing value.
func parseNumeric(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func toSnakeCase(name string) string {
	replacer := strings.NewReplacer(" ", "_", "-", "_", "/", "_")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(name)))
}
