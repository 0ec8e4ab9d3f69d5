// Package disalloweq provides a method for disallowing struct comparisons
// with the `==` operator.
package disalloweq

// DisallowEqual can be embedded in a struct to make the compiler reject
// attempts to compare instances with the `==` operator.  Field elements
// and points are held in Montgomery form or projective coordinates, so
// `==` would compare representations rather than values.
type DisallowEqual [0]func()
