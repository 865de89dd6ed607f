// Package resolver runs the ordered provider chains for character lookup
// and mnemonic generation.
//
// Each chain is walked strictly in order. Providers that report
// themselves unavailable are skipped, every other provider gets one call
// bounded by a per-call timeout, and the first success wins. A lookup
// always yields a record, falling back to locally derived data, and a
// mnemonic request always yields text, falling back to a fixed notice.
// Availability is re-checked on every request; nothing is cached between
// requests.
package resolver
