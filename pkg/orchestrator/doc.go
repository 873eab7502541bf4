// Package orchestrator wires form definitions, optional preset transformers
// and the renderer registry behind a single Generate call.
package orchestrator
