// Package api implements the REST client for the interview pipeline
// backend. The backend wraps successful payloads in a {data, meta} envelope
// and reports failures as {"detail": "..."} with a 4xx/5xx status; both
// conventions are absorbed here so callers work with domain types and typed
// errors only.
package api
