// Package site serves the rendered forms over HTTP.
//
// Routes:
//
//	GET  /                    registration page
//	GET  /contact             contact page
//	GET  /forms               form names as JSON
//	GET  /forms/{name}        any loaded form
//	POST /forms/{name}        server-side submission (form-encoded or JSON)
//	GET  /schema/{name}.json  OpenAPI document for a form
//	GET  /metrics             Prometheus exposition
//	GET  /healthz             liveness probe
//
// Submissions run through the same form.Controller the pages bind to, so the
// server enforces the rules the page shows and answers with the same
// messages.
package site
