// Package tools provides process helpers shared by the candidate adapter and
// the command-line front ends.
//
// Ownership boundary:
// - command line splitting
//
// - exit status classification
package tools
