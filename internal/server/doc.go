// Package server exposes the judge over HTTP.
//
// Ownership boundary:
// - server owns request decoding, status codes and run admission.
// - verdicts and scores come from package judge unchanged.
package server
