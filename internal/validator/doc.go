// Package validator decides whether a candidate response is a legal,
// attack-free placement for a test case.
package validator
