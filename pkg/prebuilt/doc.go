// Package prebuilt provides ready-made pipeline graphs for common
// patterns: a linear summarize pipeline, a fan-out with an independent
// branch, and an API enrichment chain. Each builder returns a validated
// graph built from the builtin template catalog that can be run with the
// default runtime or customized further.
package prebuilt
