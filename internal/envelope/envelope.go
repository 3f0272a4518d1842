// Package envelope decodes the response envelopes of the back office into
// typed records. Endpoints wrap their payload in different ways depending on
// their age; every known wrapping is a variant, tried in a fixed order.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"shop-admin/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Variant names a known envelope shape.
type Variant string

const (
	VariantBareArray Variant = "array"
	VariantData      Variant = "data"
	VariantItems     Variant = "items"
	VariantObject    Variant = "object"
)

// ListVariants is the order in which list envelopes are matched. Newer
// endpoints use data, so it wins over items when both are present.
var ListVariants = []Variant{VariantBareArray, VariantData, VariantItems}

// ShapeError reports a body that matches no known envelope, or whose records
// cannot be decoded.
type ShapeError struct {
	Resource string
	Variant  Variant
	Reason   string
	Err      error
}

func (e *ShapeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: unrecognized response shape", e.Resource)
	if e.Variant != "" {
		fmt.Fprintf(&b, " (variant %s)", e.Variant)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// Match returns the variant the body matches and the raw array it carries.
func Match(resource string, body []byte) (Variant, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", nil, &ShapeError{Resource: resource, Reason: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		return VariantBareArray, trimmed, nil
	case '{':
	default:
		return "", nil, &ShapeError{Resource: resource, Reason: "body is neither an array nor an object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return "", nil, &ShapeError{Resource: resource, Reason: "malformed object", Err: err}
	}

	for _, variant := range ListVariants[1:] {
		raw, ok := fields[string(variant)]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			return variant, raw, nil
		}
	}

	return "", nil, &ShapeError{Resource: resource, Reason: "no data or items array"}
}

// DecodeList extracts the ordered records of a listing response.
func DecodeList[T any](resource string, body []byte) ([]T, error) {
	variant, raw, err := Match(resource, body)
	if err != nil {
		return nil, err
	}

	records := []T{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &ShapeError{Resource: resource, Variant: variant, Reason: "records do not decode", Err: err}
	}
	return records, nil
}

// DecodeObject decodes a single-object response. A top-level data key must
// carry the object itself. Bodies without any field, and records failing their
// validate tags (an error payload such as {"detail":"Not found"} decoded as a
// record), are ShapeErrors.
func DecodeObject[T any](resource string, body []byte) (*T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &ShapeError{Resource: resource, Reason: "empty body"}
	}
	if trimmed[0] != '{' {
		return nil, &ShapeError{Resource: resource, Reason: "body is not an object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &ShapeError{Resource: resource, Reason: "malformed object", Err: err}
	}

	variant := VariantObject
	if data, ok := fields[string(VariantData)]; ok {
		data = bytes.TrimSpace(data)
		if len(data) == 0 || data[0] != '{' {
			return nil, &ShapeError{Resource: resource, Variant: VariantData, Reason: "data is not an object"}
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, &ShapeError{Resource: resource, Variant: VariantData, Reason: "malformed object", Err: err}
		}
		trimmed, variant = data, VariantData
	}
	if len(fields) == 0 {
		return nil, &ShapeError{Resource: resource, Variant: variant, Reason: "object has no fields"}
	}

	var record T
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, &ShapeError{Resource: resource, Variant: variant, Reason: "object does not decode", Err: err}
	}
	if err := validate.Struct(&record); err != nil {
		return nil, &ShapeError{Resource: resource, Variant: variant, Reason: "object is not a record", Err: err}
	}
	return &record, nil
}

// NormalizeProducts decodes a product listing and mirrors quantity into the
// legacy stock field on every record.
func NormalizeProducts(body []byte) ([]domain.Product, error) {
	products, err := DecodeList[domain.Product]("products", body)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].SyncStock()
	}
	return products, nil
}
