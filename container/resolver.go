package container

import "github.com/east-lang/east/value"

// ConflictResolver is the Go shape of a key-collision resolver (spec
// §4.E.4): given the existing and incoming values for the same key, it
// returns the value to keep, or an error. Dict.Merge takes a function of
// this shape; the toDict/flattenToDict builtins instead take an East
// Function value and, when none is supplied, raise DuplicateKey (see
// builtin/collections_common.go).
type ConflictResolver func(existing, incoming value.Value) (value.Value, error)
