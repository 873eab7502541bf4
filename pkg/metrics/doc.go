// Package metrics exposes Prometheus collectors for form activity.
//
// Collector implements form.Observer so a controller reports every field
// evaluation, submission outcome and cancelled debounce. HTTPMetrics records
// request durations for the demo site using chi route patterns as labels.
package metrics
