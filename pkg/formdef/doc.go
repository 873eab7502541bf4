// Package formdef loads form definitions (fields, rule chains, style profiles
// and messages) from JSON or YAML files and compiles rule chains into
// validation tables. The registration and contact forms ship embedded; see
// Default.
package formdef
