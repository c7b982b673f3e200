// Package frappe provides a client for Frappe-compatible document REST APIs.
//
// # Overview
//
// The package is a thin request/response mapping layer over net/http. A
// Client holds the base URL, transport handle and credentials; a
// DocumentClient built on top of it exposes the document operations:
//
//   - Get      GET    /api/resource/{doctype}/{name}
//   - List     GET    /api/resource/{doctype}
//   - Create   POST   /api/resource/{doctype}
//   - Update   PUT    /api/resource/{doctype}/{name}
//   - Delete   DELETE /api/resource/{doctype}/{name}
//   - Count    GET    /api/method/frappe.client.get_count
//   - GetLast  List + Get composite
//
// Successful resource responses unwrap the {"data": ...} envelope; the count
// RPC unwraps {"message": ...}; Delete returns the raw body. Every failure,
// transport-level or application-level, surfaces as a *RemoteError carrying
// the HTTP status, the server's exception fields and an operation-specific
// message.
//
// # Usage
//
//	client, err := frappe.New(&frappe.Config{
//		BaseURL:       "https://erp.example.com",
//		UseToken:      true,
//		TokenType:     frappe.TokenTypeToken,
//		TokenProvider: func() string { return os.Getenv("FRAPPE_API_TOKEN") },
//	})
//	if err != nil {
//		return err
//	}
//	db := frappe.NewDocumentClient(client)
//
//	tasks, err := db.List(ctx, "Task", &frappe.ListArgs{
//		Fields:  []string{"name", "subject"},
//		Filters: []frappe.Filter{{Field: "status", Operator: "=", Value: "Open"}},
//		OrderBy: &frappe.OrderBy{Field: "creation", Order: "desc"},
//		Limit:   frappe.Int(20),
//	})
//
// Documents are untyped maps at the transport boundary; call sites that want
// structs use Document.Decode.
//
// # What this package does not do
//
// No caching, no offline queueing, no schema validation, no transactions
// spanning calls, and no pagination iteration beyond limit/limit_start
// passthrough. Retries are off by default and, when enabled, live entirely
// in the transport layer.
package frappe
