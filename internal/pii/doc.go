// Package pii detects and redacts personally identifiable information in
// free text before it is sent to an external LLM provider.
//
// Detection is deterministic: a fixed table of regular expressions plus a
// heuristic person-name detector. Every accepted span is replaced with a typed,
// numbered placeholder such as [SSN_1], and the mapping back to the original
// value is returned to the caller for local restoration only. Restored text
// must never leave the process.
package pii
