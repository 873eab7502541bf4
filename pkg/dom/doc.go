// Package dom is the element boundary the form controller works against. It
// parses rendered pages with golang.org/x/net/html and exposes the handful of
// operations the controller needs: lookup by id, value and text access, class
// list toggling and next-sibling navigation.
//
// Documents are not safe for concurrent mutation; callers serialize access.
package dom
