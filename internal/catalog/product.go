package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// DataSourceError means the product list could not be read or parsed.
// It is distinct from ErrNotFound: the request was fine, the data was not.
type DataSourceError struct {
	Err error
}

func (e *DataSourceError) Error() string { return fmt.Sprintf("product source: %v", e.Err) }
func (e *DataSourceError) Unwrap() error { return e.Err }

// ProductRecord is one entry of the static product list.
type ProductRecord struct {
	Name            string            `json:"name"`
	PopularityScore decimal.Decimal   `json:"popularityScore"`
	Weight          decimal.Decimal   `json:"weight"`
	Images          map[string]string `json:"images"`
}

// PricedProduct is a record with its derived display fields. It lives for one response.
type PricedProduct struct {
	ProductRecord
	ID               int
	Price            decimal.Decimal
	PopularityRating decimal.Decimal
	GoldPrice        decimal.Decimal
}

type productJSON struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	PopularityScore  json.Number       `json:"popularityScore"`
	Weight           json.Number       `json:"weight"`
	Images           map[string]string `json:"images"`
	Price            json.Number       `json:"price"`
	PopularityRating json.Number       `json:"popularityRating"`
	GoldPrice        json.Number       `json:"goldPrice"`
}

// MarshalJSON writes decimals as bare JSON numbers.
func (p PricedProduct) MarshalJSON() ([]byte, error) {
	images := p.Images
	if images == nil {
		images = map[string]string{}
	}
	return json.Marshal(productJSON{
		ID:               p.ID,
		Name:             p.Name,
		PopularityScore:  num(p.PopularityScore),
		Weight:           num(p.Weight),
		Images:           images,
		Price:            num(p.Price),
		PopularityRating: num(p.PopularityRating),
		GoldPrice:        num(p.GoldPrice),
	})
}

func num(d decimal.Decimal) json.Number { return json.Number(d.String()) }
