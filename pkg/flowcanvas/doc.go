// Package flowcanvas provides a minimal public facade for authoring,
// executing, and translating workflow graphs without importing internal
// packages. It re-exports the core types for convenience and exposes a
// Runtime wired with in-memory components suitable for local usage and
// tests.
package flowcanvas
