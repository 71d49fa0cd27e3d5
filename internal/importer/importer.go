package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopcart/internal/domain"
	"shopcart/internal/service/catalog"
	"shopcart/internal/service/shop"
)

type ProductWriter interface {
	ImportProducts(ctx context.Context, shopKey string, products []domain.Product) (shop.ImportReport, error)
}

// CSVImporter reads product rows and adds them to a shop's catalog.
//
// Columns: name, description, price, stock, discounts, recommended. The
// discounts cell lists tiers as "quantity:rate" pairs separated by ";".
// A row with a blank name continues the previous product and contributes
// only its discounts.
type CSVImporter struct {
	reader  *csv.Reader
	writer  ProductWriter
	shopKey string
	limits  catalog.Limits
}

func NewCSVImporter(r io.Reader, w ProductWriter, shopKey string, limits catalog.Limits) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if limits == (catalog.Limits{}) {
		limits = catalog.DefaultLimits()
	}
	return &CSVImporter{
		reader:  csvr,
		writer:  w,
		shopKey: shopKey,
		limits:  limits,
	}
}

// RowError describes a row that could not be turned into a product.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Result summarises a Run.
type Result struct {
	Imported  int        `json:"imported"`
	Skipped   int        `json:"skipped"`
	RowErrors []RowError `json:"rowErrors"`
}

// Parse reads every row. Rows that fail to parse are reported, not fatal.
func (i *CSVImporter) Parse() ([]domain.Product, []RowError, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read headers: %w: %w", err, domain.ErrInvalidInput)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return nil, nil, fmt.Errorf("read headers: name column required: %w", domain.ErrInvalidInput)
	}

	var (
		products  []domain.Product
		rowErrors []RowError
		current   *domain.Product
	)
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w: %w", line, err, domain.ErrInvalidInput)
		}

		name := pick(record, index, "name")
		discounts, err := parseDiscounts(pick(record, index, "discounts"))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Reason: err.Error()})
			continue
		}

		if name == "" {
			// Continuation rows extend the current product's tiers.
			if current != nil && len(discounts) > 0 {
				current.Discounts = append(current.Discounts, discounts...)
			}
			continue
		}

		p, reason := i.parseProduct(record, index, name)
		if reason != "" {
			rowErrors = append(rowErrors, RowError{Line: line, Reason: reason})
			current = nil
			continue
		}
		p.Discounts = discounts
		products = append(products, p)
		current = &products[len(products)-1]
	}
	return products, rowErrors, nil
}

// Run parses the input and writes the valid products in one batch.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	products, rowErrors, err := i.Parse()
	if err != nil {
		return Result{}, err
	}
	res := Result{RowErrors: rowErrors, Skipped: len(rowErrors)}
	if len(products) == 0 {
		return res, nil
	}
	report, err := i.writer.ImportProducts(ctx, i.shopKey, products)
	if err != nil {
		return res, fmt.Errorf("import products: %w", err)
	}
	res.Imported = len(report.Added)
	res.Skipped += len(report.Skipped)
	for _, s := range report.Skipped {
		res.RowErrors = append(res.RowErrors, RowError{Line: 0, Reason: fmt.Sprintf("%s: %s", s.Name, s.Reason)})
	}
	return res, nil
}

func (i *CSVImporter) parseProduct(record []string, index map[string]int, name string) (domain.Product, string) {
	price := i.limits.ParsePrice(pick(record, index, "price"))
	if !price.Valid {
		return domain.Product{}, price.Message
	}
	stock := i.limits.ParseStock(pick(record, index, "stock"))
	if !stock.Valid {
		return domain.Product{}, stock.Message
	}
	recommended := false
	if v := pick(record, index, "recommended"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Product{}, fmt.Sprintf("recommended: %q is not a boolean", v)
		}
		recommended = b
	}
	return domain.Product{
		Name:        name,
		Description: pick(record, index, "description"),
		Price:       price.Value,
		Stock:       int(stock.Value),
		Recommended: recommended,
	}, ""
}

func parseDiscounts(cell string) ([]domain.Discount, error) {
	if cell == "" {
		return nil, nil
	}
	var out []domain.Discount
	for _, part := range strings.Split(cell, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		qty, rate, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("discount %q: want quantity:rate", part)
		}
		q, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("discount %q: bad quantity", part)
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil {
			return nil, fmt.Errorf("discount %q: bad rate", part)
		}
		out = append(out, domain.Discount{Quantity: q, Rate: r})
	}
	if err := catalog.ValidateDiscounts(out); err != nil {
		return nil, err
	}
	return out, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
