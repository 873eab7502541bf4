// Package openapi exports form definitions as OpenAPI 3 documents so the same
// rule chains can be enforced or documented outside the page.
package openapi
