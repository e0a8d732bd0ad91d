// Package importer loads catalog products from CSV into their Storefront
// wire shape.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/commerce"
	"storefront/internal/money"
)

const defaultCurrency = "USD"

type ProductWriter interface {
	Upsert(ctx context.Context, product commerce.Product) error
}

// Collector keeps imported products in memory.
type Collector struct {
	Products []commerce.Product
}

func (c *Collector) Upsert(_ context.Context, p commerce.Product) error {
	c.Products = append(c.Products, p)
	return nil
}

// CSVImporter reads catalog rows grouped by handle. A row with a handle
// starts a product; following rows without one add variants and images to it.
type CSVImporter struct {
	reader *csv.Reader
	writer ProductWriter
}

func NewCSVImporter(r io.Reader, writer ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, writer: writer}
}

// Load parses r into products without persisting them.
func Load(ctx context.Context, r io.Reader) ([]commerce.Product, error) {
	var c Collector
	if _, err := NewCSVImporter(r, &c).Run(ctx); err != nil {
		return nil, err
	}
	return c.Products, nil
}

type variantRow struct {
	ID        string
	Title     string
	Price     string
	CompareAt string
	Currency  string
	Available string
	Quantity  string
	Options   string
}

type productRow struct {
	ID          string
	Handle      string
	Title       string
	Description string
	Vendor      string
	ProductType string
	Tags        []string
	CreatedAt   string
	Variants    []variantRow
	ImageURLs   []string
}

// Run parses CSV rows and writes one product per handle.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["handle"]; !ok {
		return 0, errors.New("read headers: missing handle column")
	}

	var (
		current  *productRow
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

		if row.Handle != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows belong to the current product.
		if current != nil {
			current.Variants = append(current.Variants, row.Variants...)
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
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

func (i *CSVImporter) save(ctx context.Context, row *productRow) error {
	p, err := build(row)
	if err != nil {
		return err
	}
	if err := i.writer.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Handle, err)
	}
	return nil
}

func build(row *productRow) (commerce.Product, error) {
	if row.Title == "" {
		return commerce.Product{}, fmt.Errorf("invalid product row (missing title) for handle %q", row.Handle)
	}
	if len(row.Variants) == 0 {
		return commerce.Product{}, fmt.Errorf("invalid product row (no variants) for handle %q", row.Handle)
	}
	if row.CreatedAt != "" {
		if _, err := time.Parse(time.RFC3339, row.CreatedAt); err != nil {
			return commerce.Product{}, fmt.Errorf("invalid createdAt for handle %q: %w", row.Handle, err)
		}
	}

	id := row.ID
	if id == "" {
		id = money.GID("Product", row.Handle)
	}
	p := commerce.Product{
		ID:          id,
		Title:       row.Title,
		Handle:      row.Handle,
		Description: row.Description,
		Vendor:      row.Vendor,
		ProductType: row.ProductType,
		Tags:        row.Tags,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.CreatedAt,
	}

	for n, u := range row.ImageURLs {
		p.Images.Edges = append(p.Images.Edges, commerce.ImageEdge{Node: commerce.Image{
			ID:      fmt.Sprintf("%s-image-%d", row.Handle, n+1),
			URL:     u,
			AltText: row.Title,
		}})
	}

	var lo, hi decimal.Decimal
	currency := defaultCurrency
	optionValues := map[string][]string{}
	var optionNames []string
	for n, v := range row.Variants {
		variant, price, err := buildVariant(row.Handle, v)
		if err != nil {
			return commerce.Product{}, err
		}
		if n == 0 || price.LessThan(lo) {
			lo = price
		}
		if n == 0 || price.GreaterThan(hi) {
			hi = price
		}
		currency = variant.Price.CurrencyCode
		for _, o := range variant.SelectedOptions {
			if _, seen := optionValues[o.Name]; !seen {
				optionNames = append(optionNames, o.Name)
			}
			if !contains(optionValues[o.Name], o.Value) {
				optionValues[o.Name] = append(optionValues[o.Name], o.Value)
			}
		}
		p.Variants.Edges = append(p.Variants.Edges, commerce.VariantEdge{Node: variant})
	}
	for n, name := range optionNames {
		p.Options = append(p.Options, commerce.ProductOption{
			ID:     fmt.Sprintf("%s-option-%d", row.Handle, n+1),
			Name:   name,
			Values: optionValues[name],
		})
	}
	p.PriceRange = commerce.PriceRange{
		MinVariantPrice: commerce.Money{Amount: lo.StringFixed(2), CurrencyCode: currency},
		MaxVariantPrice: commerce.Money{Amount: hi.StringFixed(2), CurrencyCode: currency},
	}
	return p, nil
}

func buildVariant(handle string, v variantRow) (commerce.ProductVariant, decimal.Decimal, error) {
	if v.ID == "" {
		return commerce.ProductVariant{}, decimal.Zero, fmt.Errorf("invalid variant (missing id) for handle %q", handle)
	}
	price, err := decimal.NewFromString(v.Price)
	if err != nil || price.IsNegative() {
		return commerce.ProductVariant{}, decimal.Zero, fmt.Errorf("invalid price %q for variant %q", v.Price, v.ID)
	}
	currency := strings.ToUpper(v.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	title := v.Title
	if title == "" {
		title = "Default Title"
	}

	out := commerce.ProductVariant{
		ID:               v.ID,
		Title:            title,
		Price:            commerce.Money{Amount: price.StringFixed(2), CurrencyCode: currency},
		AvailableForSale: true,
	}
	if v.CompareAt != "" {
		compareAt, err := decimal.NewFromString(v.CompareAt)
		if err != nil {
			return commerce.ProductVariant{}, decimal.Zero, fmt.Errorf("invalid compareAtPrice %q for variant %q", v.CompareAt, v.ID)
		}
		out.CompareAtPrice = &commerce.Money{Amount: compareAt.StringFixed(2), CurrencyCode: currency}
	}
	if v.Available != "" {
		available, err := strconv.ParseBool(v.Available)
		if err != nil {
			return commerce.ProductVariant{}, decimal.Zero, fmt.Errorf("invalid available %q for variant %q", v.Available, v.ID)
		}
		out.AvailableForSale = available
	}
	if v.Quantity != "" {
		qty, err := strconv.Atoi(v.Quantity)
		if err != nil {
			return commerce.ProductVariant{}, decimal.Zero, fmt.Errorf("invalid quantity %q for variant %q", v.Quantity, v.ID)
		}
		out.QuantityAvailable = &qty
	}
	out.SelectedOptions = parseOptions(v.Options)
	return out, price, nil
}

// parseOptions reads "Size=M;Color=Red".
func parseOptions(s string) []commerce.SelectedOption {
	var out []commerce.SelectedOption
	for _, part := range splitList(s) {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		out = append(out, commerce.SelectedOption{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return out
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *productRow {
	handle := pick(record, index, "handle")
	variantID := pick(record, index, "variant.id")
	imageURL := pick(record, index, "image.url")

	if handle == "" && variantID == "" && imageURL == "" {
		return nil
	}

	row := &productRow{
		ID:          pick(record, index, "id"),
		Handle:      handle,
		Title:       pick(record, index, "title"),
		Description: pick(record, index, "description"),
		Vendor:      pick(record, index, "vendor"),
		ProductType: pick(record, index, "productType"),
		Tags:        splitList(pick(record, index, "tags")),
		CreatedAt:   pick(record, index, "createdAt"),
	}
	if variantID != "" {
		row.Variants = []variantRow{{
			ID:        variantID,
			Title:     pick(record, index, "variant.title"),
			Price:     pick(record, index, "variant.price"),
			CompareAt: pick(record, index, "variant.compareAtPrice"),
			Currency:  pick(record, index, "variant.currency"),
			Available: pick(record, index, "variant.available"),
			Quantity:  pick(record, index, "variant.quantity"),
			Options:   pick(record, index, "variant.options"),
		}}
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
