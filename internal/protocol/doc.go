// Package protocol owns the line-oriented wire contract between the judge
// and a candidate solver.
//
// Ownership boundary:
// - request encoding (judge side) and decoding (candidate side)
//
// - response decoding (judge side) and encoding (candidate side)
//
// Every value travels as one newline-terminated line.
package protocol
