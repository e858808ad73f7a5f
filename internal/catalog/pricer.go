package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

var (
	one  = decimal.NewFromInt(1)
	five = decimal.NewFromInt(5)
)

type UnitPricer interface {
	UnitPrice(ctx context.Context) decimal.Decimal
}

type Pricer struct {
	Source Source
	Oracle UnitPricer
}

// Price derives display fields for records against a single unit price.
// IDs are 1-based positions in records.
func Price(records []ProductRecord, unitPrice decimal.Decimal) []PricedProduct {
	out := make([]PricedProduct, 0, len(records))
	for i, rec := range records {
		out = append(out, priceRecord(rec, i+1, unitPrice))
	}
	return out
}

func priceRecord(rec ProductRecord, id int, unitPrice decimal.Decimal) PricedProduct {
	return PricedProduct{
		ProductRecord:    rec,
		ID:               id,
		Price:            rec.PopularityScore.Add(one).Mul(rec.Weight).Mul(unitPrice).Round(2),
		PopularityRating: rec.PopularityScore.Mul(five).Round(1),
		GoldPrice:        unitPrice.Round(2),
	}
}

// PriceAll prices every record with one unit price lookup, then applies f.
func (p *Pricer) PriceAll(ctx context.Context, f Filter) ([]PricedProduct, error) {
	records, err := p.records(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(Price(records, p.Oracle.UnitPrice(ctx))), nil
}

// PriceOne prices the record at 1-based position id.
func (p *Pricer) PriceOne(ctx context.Context, id int) (PricedProduct, error) {
	records, err := p.records(ctx)
	if err != nil {
		return PricedProduct{}, err
	}
	if id < 1 || id > len(records) {
		return PricedProduct{}, ErrNotFound
	}
	return priceRecord(records[id-1], id, p.Oracle.UnitPrice(ctx)), nil
}

func (p *Pricer) records(ctx context.Context) ([]ProductRecord, error) {
	records, err := p.Source.Records(ctx)
	if err != nil {
		return nil, &DataSourceError{Err: err}
	}
	return records, nil
}
