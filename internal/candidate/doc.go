// Package candidate runs an external solver process and exchanges one
// request/response pair with it.
//
// Ownership boundary:
// - process spawn and forced termination
//
// - stdin/stdout exchange with an optional deadline
//
// - stderr draining for the whole process lifetime
//
// A Process belongs to one run and is never reused.
package candidate
