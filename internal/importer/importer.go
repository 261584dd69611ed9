package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.CartProduct) (*domain.CartProduct, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	ID          string
	SKU         string
	Name        string
	ListPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	InStock     int64
	IsAvailable bool
	IsBuyable   bool
	TierPrices  []domain.TierPrice
}

// Run parses CSV rows and upserts products grouped by SKU. Rows with an
// empty sku column are tier price continuation rows for the preceding
// product.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.SKU != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (tier prices) belong to the current product.
		if current != nil && len(row.TierPrices) > 0 {
			current.TierPrices = append(current.TierPrices, row.TierPrices...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.SKU == "" || row.Name == "" || row.ListPrice.IsZero() {
		return fmt.Errorf("invalid product row (missing required fields) for sku %q", row.SKU)
	}
	if row.ID != "" && len(row.ID) != 36 {
		return fmt.Errorf("invalid id for sku %q: %s", row.SKU, row.ID)
	}

	sale := row.SalePrice
	if sale.IsZero() {
		sale = row.ListPrice
	}

	p := domain.CartProduct{
		ID:          row.ID,
		SKU:         row.SKU,
		Name:        row.Name,
		ListPrice:   row.ListPrice,
		SalePrice:   sale,
		TierPrices:  row.TierPrices,
		InStock:     row.InStock,
		IsAvailable: row.IsAvailable,
		IsBuyable:   row.IsBuyable,
	}

	_, err := i.productRepo.Upsert(ctx, p)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", row.SKU, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	id := pick(record, index, "id")
	sku := pick(record, index, "sku")
	name := pick(record, index, "name")
	listStr := pick(record, index, "listPrice")
	saleStr := pick(record, index, "salePrice")
	stockStr := pick(record, index, "inStock")
	tierQtyStr := pick(record, index, "tierPrices.quantity")
	tierPriceStr := pick(record, index, "tierPrices.price")

	if sku == "" && tierQtyStr == "" {
		return nil
	}

	row := &csvRow{
		ID:          id,
		SKU:         sku,
		Name:        name,
		IsAvailable: parseBool(pick(record, index, "isAvailable"), true),
		IsBuyable:   parseBool(pick(record, index, "isBuyable"), true),
	}
	if listStr != "" {
		row.ListPrice, _ = decimal.NewFromString(listStr)
	}
	if saleStr != "" {
		row.SalePrice, _ = decimal.NewFromString(saleStr)
	}
	if stockStr != "" {
		row.InStock, _ = strconv.ParseInt(stockStr, 10, 64)
	}
	if tierQtyStr != "" && tierPriceStr != "" {
		qty, err := strconv.ParseInt(tierQtyStr, 10, 64)
		price, perr := decimal.NewFromString(tierPriceStr)
		if err == nil && perr == nil {
			row.TierPrices = []domain.TierPrice{{Quantity: int(qty), Price: price}}
		}
	}
	return row
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
