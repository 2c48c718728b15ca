// Package generator derives test cases from numeric seeds.
//
// Ownership boundary:
// - seeded random source
//
// - fixed draw order and boundary seed overrides
//
// Generation is pure: no I/O besides debug logging, no shared state.
package generator
