// Package puzzle owns the domain vocabulary shared by every judging stage.
//
// Ownership boundary:
// - board symbols and the closed piece set
//
// - piece movement models
//
// - test case and validated placement shapes
package puzzle
