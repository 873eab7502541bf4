// Package html renders form definitions as standalone HTML pages using
// embedded pongo2 templates. Label, help and description text pass through
// the inline markup policy; every other value is autoescaped.
package html
