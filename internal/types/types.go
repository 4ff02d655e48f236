// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// every other package can import types without depending on the others.
package types

// Registration is one submitted registration form.
//
// Struct tags serve two purposes:
//
//  1. json:"..." controls how the field appears when encoded to JSON.
//     The keys match the RegisterForm column names.
//
//  2. validate:"required" is checked by the HTTP layer before anything else.
//     It only enforces that every field was filled in. The per-field format
//     rules live in package validation.
//
// ID is assigned by the store on insert and never changes afterwards.
type Registration struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"      validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required"`
	BirthDate string `json:"birthDate" validate:"required"`
	Password  string `json:"password"  validate:"required"`
}
