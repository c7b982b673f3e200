package frappe

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

// Document is one record of a doctype, keyed by field name. No schema is
// enforced client-side; the remote service is authoritative.
type Document map[string]any

// Name returns the document's primary key, or "" when absent.
func (d Document) Name() string {
	n, _ := d["name"].(string)
	return n
}

// Decode maps the document onto a typed struct at the call site.
func (d Document) Decode(out any) error {
	return mapstructure.Decode(map[string]any(d), out)
}

// Filter is one query condition. Operators ("=", "like", "in", ...) are
// opaque strings interpreted by the remote service.
type Filter struct {
	Field    string
	Operator string
	Value    any
}

// MarshalJSON renders the wire form, a three-element array.
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Field, f.Operator, f.Value})
}

// UnmarshalJSON accepts the three-element array wire form.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var tuple []any
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("filter must have 3 elements, got %d", len(tuple))
	}
	field, ok := tuple[0].(string)
	if !ok {
		return fmt.Errorf("filter field must be a string")
	}
	op, ok := tuple[1].(string)
	if !ok {
		return fmt.Errorf("filter operator must be a string")
	}
	f.Field = field
	f.Operator = op
	f.Value = tuple[2]
	return nil
}

// OrderBy names a sort field and direction. Order is "asc" or "desc" and
// defaults to "asc" when empty.
type OrderBy struct {
	Field string
	Order string
}

// ListArgs is the optional configuration bundle for List. Nil pointer and
// slice fields are omitted from the query string entirely; a nil *ListArgs
// sends no query parameters at all.
type ListArgs struct {
	// Fields to project, sent as a JSON array. Nil means server default.
	Fields []string

	// Filters are AND-combined conditions.
	Filters []Filter

	// OrFilters are OR-combined conditions.
	OrFilters []Filter

	// OrderBy is flattened to a "field direction" string.
	OrderBy *OrderBy

	// GroupBy is a field name, passed through unmodified.
	GroupBy string

	// Limit and LimitStart are pagination bounds, passed through as numbers.
	Limit      *int
	LimitStart *int

	// AsDict selects keyed objects over positional arrays. Defaults to true.
	AsDict *bool
}

// Encode produces the query parameters for a list request.
func (a *ListArgs) Encode() (url.Values, error) {
	params := url.Values{}
	if a == nil {
		return params, nil
	}

	var errs *multierror.Error

	if a.Fields != nil {
		if b, err := json.Marshal(a.Fields); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("fields: %w", err))
		} else {
			params.Set("fields", string(b))
		}
	}
	if a.Filters != nil {
		if b, err := json.Marshal(a.Filters); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("filters: %w", err))
		} else {
			params.Set("filters", string(b))
		}
	}
	if a.OrFilters != nil {
		if b, err := json.Marshal(a.OrFilters); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("or_filters: %w", err))
		} else {
			params.Set("or_filters", string(b))
		}
	}
	if a.OrderBy != nil {
		order := a.OrderBy.Order
		if order == "" {
			order = "asc"
		}
		params.Set("order_by", a.OrderBy.Field+" "+order)
	}
	if a.GroupBy != "" {
		params.Set("group_by", a.GroupBy)
	}
	if a.Limit != nil {
		params.Set("limit", strconv.Itoa(*a.Limit))
	}
	if a.LimitStart != nil {
		params.Set("limit_start", strconv.Itoa(*a.LimitStart))
	}

	asDict := true
	if a.AsDict != nil {
		asDict = *a.AsDict
	}
	params.Set("as_dict", strconv.FormatBool(asDict))

	return params, errs.ErrorOrNil()
}

// Int returns a pointer to v, for ListArgs literals.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for ListArgs literals.
func Bool(v bool) *bool { return &v }
