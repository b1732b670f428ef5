package dolibarr

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// flexDecimal decodes a JSON value that may arrive as a number, a numeric
// string, null, or garbage. Unparseable values decode to zero.
type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		f.Decimal = decimal.Zero
		return nil
	}
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		f.Decimal = decimal.Zero
		return nil
	}
	f.Decimal = d
	return nil
}

// flexInt decodes a JSON value that may arrive as a number or a numeric
// string. Unparseable values decode to zero. Fractional stock counts are
// truncated toward zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(v)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int64(v))
		return nil
	}
	*f = 0
	return nil
}

// flexString decodes a JSON value that may arrive as a string or a number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	*f = flexString(s)
	return nil
}

// rawCategory mirrors the shape of a Dolibarr category record
type rawCategory struct {
	ID          flexString `json:"id"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	FkParent    flexString `json:"fk_parent"`
}

// rawProduct mirrors the shape of a Dolibarr product record
type rawProduct struct {
	ID          flexInt     `json:"id"`
	Ref         string      `json:"ref"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Price       flexDecimal `json:"price"`
	PriceTTC    flexDecimal `json:"price_ttc"`
	StockReel   flexInt     `json:"stock_reel"`
	FkCategory  flexString  `json:"fk_categorie"`
}
