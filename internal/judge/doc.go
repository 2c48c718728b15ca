// Package judge runs one seed end to end: generate the test case, exchange
// it with a candidate, validate the answer and score it.
//
// Ownership boundary:
// - judge owns stage ordering and the mapping of stage failures to verdicts.
// - judge does not parse the wire format or inspect attack geometry.
package judge
