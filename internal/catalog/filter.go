package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter holds optional inclusive bounds. Price bounds apply to the derived
// price; popularity bounds apply to the raw score, not the 5-point rating.
type Filter struct {
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	MinPopularity *decimal.Decimal
	MaxPopularity *decimal.Decimal
}

// ParseFilter reads minPrice, maxPrice, minPopularity and maxPopularity.
// Empty values are treated as absent.
func ParseFilter(q url.Values) (Filter, error) {
	var (
		f   Filter
		err error
	)
	fields := []struct {
		key string
		dst **decimal.Decimal
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"minPopularity", &f.MinPopularity},
		{"maxPopularity", &f.MaxPopularity},
	}
	for _, fld := range fields {
		if *fld.dst, err = parseBound(q, fld.key); err != nil {
			return Filter{}, err
		}
	}
	return f, nil
}

func parseBound(q url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return &d, nil
}

func (f Filter) Match(p PricedProduct) bool {
	return within(p.Price, f.MinPrice, f.MaxPrice) &&
		within(p.PopularityScore, f.MinPopularity, f.MaxPopularity)
}

func (f Filter) Apply(in []PricedProduct) []PricedProduct {
	out := make([]PricedProduct, 0, len(in))
	for _, p := range in {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func within(v decimal.Decimal, lo, hi *decimal.Decimal) bool {
	if lo != nil && v.LessThan(*lo) {
		return false
	}
	if hi != nil && v.GreaterThan(*hi) {
		return false
	}
	return true
}
