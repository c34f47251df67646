package punchout

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// OCI call-up field names. The catalog flattens its line items into
// dash/bracket keys (`NEW_ITEM-PRICE[1]`, `NEW_ITEM-PRICE[2]`, ...), with
// indices starting at 1. Only the fields needed for the order document are
// extracted here; no attempt is made to reconstruct the full item list.
const (
	callUpKeyProductID   = "NEW_ITEM-EXT_PRODUCT_ID[1]"
	callUpKeyDescription = "NEW_ITEM-DESCRIPTION[1]"
	callUpKeyFirstPrice  = "NEW_ITEM-PRICE[1]"
	callUpPricePrefix    = "NEW_ITEM-PRICE"
)

// CallUpFields holds the values extracted from a call-up payload that feed
// the order document.
type CallUpFields struct {
	ProductID      string
	Description    string
	FirstItemPrice decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ExtractCallUpFields reads the loosely-typed call-up payload and produces
// the order document fields. Extraction is all-or-nothing: a missing
// required field, a non-string where a string is required, or any price
// entry that does not parse as a decimal fails the whole extraction with a
// MALFORMED_CALL_UP error. The payload is never mutated.
func ExtractCallUpFields(payload map[string]any) (*CallUpFields, error) {
	if payload == nil {
		return nil, NewMalformedCallUpError("no call-up data has been recorded for this process")
	}

	productID, err := requireString(payload, callUpKeyProductID)
	if err != nil {
		return nil, err
	}
	description, err := requireString(payload, callUpKeyDescription)
	if err != nil {
		return nil, err
	}

	firstRaw, ok := payload[callUpKeyFirstPrice]
	if !ok {
		return nil, NewMalformedCallUpError("call-up data is missing required field %s", callUpKeyFirstPrice)
	}
	firstPrice, err := parsePrice(callUpKeyFirstPrice, firstRaw)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for key, value := range payload {
		if !strings.HasPrefix(key, callUpPricePrefix) {
			continue
		}
		price, err := parsePrice(key, value)
		if err != nil {
			return nil, err
		}
		total = total.Add(price)
	}

	return &CallUpFields{
		ProductID:      productID,
		Description:    description,
		FirstItemPrice: firstPrice,
		TotalAmount:    total,
	}, nil
}

func requireString(payload map[string]any, key string) (string, error) {
	value, ok := payload[key]
	if !ok {
		return "", NewMalformedCallUpError("call-up data is missing required field %s", key)
	}
	s, ok := value.(string)
	if !ok {
		return "", NewMalformedCallUpError("call-up field %s must be a string, got %T", key, value)
	}
	return s, nil
}

// parsePrice accepts the scalar shapes a call-up payload can carry: form
// values arrive as strings, JSON bodies as float64 or json.Number.
func parsePrice(key string, value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, NewMalformedCallUpError("call-up field %s is not a valid price: %q", key, v)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, NewMalformedCallUpError("call-up field %s is not a valid price: %q", key, v.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, NewMalformedCallUpError("call-up field %s must be a number, got %T", key, value)
	}
}
