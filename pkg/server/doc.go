// Package server exposes the depiction pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz       liveness and version
//	POST /v1/layout     molfile or SD body → laid out molfile, SD or JSON
//	POST /v1/render     molfile body → SVG, PNG or PDF
//
// Both POST endpoints accept the query parameters
//
//	mode     inventor mode, e.g. "remove-hydrogen|keep-marked"
//	seed     random seed (default 42)
//	random   "true" for an unseeded, uncached layout
//	marked   1-based atom numbers, e.g. "1,2,5-7"
//	record   1-based SD record
//
// /v1/layout also takes format=mol|json and bond_length. /v1/render takes
// format=svg|graphviz-svg|png|pdf, scale and atom_numbers.
//
// # Errors
//
// Failures are returned as JSON with the error code of [errors.Code] and the
// request ID:
//
//	{"error": "invalid mode: unknown inventor mode \"x\"", "code": "INVALID_MODE", "request_id": "..."}
//
// Every response carries X-Request-ID, echoing the request header if set.
package server
