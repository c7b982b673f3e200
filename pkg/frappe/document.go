package frappe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Operation-specific default failure messages, matching the wire contract of
// existing SDK clients byte for byte.
const (
	msgFetchFailed  = "There was an error while fetching the document."
	msgListFailed   = "There was an error while fetching the documents."
	msgCreateFailed = "There was an error while creating the document."
	msgUpdateFailed = "There was an error while updating the document."
	msgDeleteFailed = "There was an error while deleting the document."
	msgCountFailed  = "There was an error while getting the count."
)

const countMethod = "/api/method/frappe.client.get_count"

// DocumentClient performs CRUD, count and last-document operations against
// the resource endpoints of a remote service. Every operation is a single
// stateless request/response exchange; GetLast is the one composite.
type DocumentClient struct {
	client *Client
}

// NewDocumentClient creates a DocumentClient over an existing Client.
func NewDocumentClient(client *Client) *DocumentClient {
	return &DocumentClient{client: client}
}

func resourcePath(doctype, name string) string {
	return fmt.Sprintf("/api/resource/%s/%s", url.PathEscape(doctype), url.PathEscape(name))
}

// Get retrieves one document by name. An empty name produces an empty
// trailing path segment; the server decides what that means.
func (d *DocumentClient) Get(ctx context.Context, doctype, name string) (Document, error) {
	body, err := d.client.do(ctx, http.MethodGet, resourcePath(doctype, name), nil, nil,
		errorPolicy{defaultMessage: msgFetchFailed})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data Document `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode document response: %w", err)
	}
	return envelope.Data, nil
}

// List retrieves documents of a doctype. A nil args sends no query
// parameters and the server applies its own defaults.
func (d *DocumentClient) List(ctx context.Context, doctype string, args *ListArgs) ([]Document, error) {
	params, err := args.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode list arguments: %w", err)
	}

	path := fmt.Sprintf("/api/resource/%s", url.PathEscape(doctype))
	body, err := d.client.do(ctx, http.MethodGet, path, params, nil,
		errorPolicy{defaultMessage: msgListFailed})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Document `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode document list response: %w", err)
	}
	return envelope.Data, nil
}

// Create inserts a new document. The document's own fields form the
// top-level request body; the server assigns the name unless one is given.
func (d *DocumentClient) Create(ctx context.Context, doctype string, value Document) (Document, error) {
	path := fmt.Sprintf("/api/resource/%s", url.PathEscape(doctype))
	body, err := d.client.do(ctx, http.MethodPost, path, nil, value,
		errorPolicy{defaultMessage: msgCreateFailed, preferServerMessage: true})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data Document `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}
	return envelope.Data, nil
}

// Update applies a partial document to an existing record. Only the fields
// present in value change.
func (d *DocumentClient) Update(ctx context.Context, doctype, name string, value Document) (Document, error) {
	body, err := d.client.do(ctx, http.MethodPut, resourcePath(doctype, name), nil, value,
		errorPolicy{defaultMessage: msgUpdateFailed, preferServerMessage: true})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data Document `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}
	return envelope.Data, nil
}

// Delete removes a document. Unlike the other operations it returns the raw
// response body ({"message":"ok"} on success) rather than unwrapping data.
func (d *DocumentClient) Delete(ctx context.Context, doctype, name string) (Document, error) {
	body, err := d.client.do(ctx, http.MethodDelete, resourcePath(doctype, name), nil, nil,
		errorPolicy{defaultMessage: msgDeleteFailed})
	if err != nil {
		return nil, err
	}

	var raw Document
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return raw, nil
}

// Count returns the number of documents matching filters via the
// frappe.client.get_count RPC endpoint. Nil filters send an empty JSON
// array; cache and debug appear in the query only when true.
func (d *DocumentClient) Count(ctx context.Context, doctype string, filters []Filter, cache, debug bool) (int64, error) {
	params := url.Values{}
	params.Set("doctype", doctype)

	if filters == nil {
		params.Set("filters", "[]")
	} else {
		b, err := json.Marshal(filters)
		if err != nil {
			return 0, fmt.Errorf("failed to encode count filters: %w", err)
		}
		params.Set("filters", string(b))
	}
	if cache {
		params.Set("cache", "true")
	}
	if debug {
		params.Set("debug", "true")
	}

	body, err := d.client.do(ctx, http.MethodGet, countMethod, params, nil,
		errorPolicy{defaultMessage: msgCountFailed})
	if err != nil {
		return 0, err
	}

	var envelope struct {
		Message int64 `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return envelope.Message, nil
}

// GetLast retrieves the full most-recent document of a doctype, by creation
// time unless the caller orders otherwise. Resolves to an empty document
// when the doctype has no matching records.
func (d *DocumentClient) GetLast(ctx context.Context, doctype string, args *ListArgs) (Document, error) {
	// Three-stage composition; the stages are ordered and must stay
	// separate: defaults, then caller args, then the forced projection.
	merged := ListArgs{
		OrderBy: &OrderBy{Field: "creation", Order: "desc"},
	}
	if args != nil {
		defaultOrder := merged.OrderBy
		merged = *args
		if merged.OrderBy == nil {
			merged.OrderBy = defaultOrder
		}
	}
	merged.Limit = Int(1)
	merged.Fields = []string{"name"}

	list, err := d.List(ctx, doctype, &merged)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return Document{}, nil
	}

	return d.Get(ctx, doctype, list[0].Name())
}
