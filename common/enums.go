// Enums shared between configuration and template engine, kept separately
// so both could depend on them without depending on each other.
package common

//go:generate go tool go-enum --marshal --names --values

// Specification of declaration value substitution.
// ENUM(default, whole-value, filter-pair)
type SubstitutionPolicy string
