// Package render draws finished runs. It only reads judge.Snapshot values
// and never touches live run state.
package render
