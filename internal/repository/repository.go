package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Services translate
// it into user-facing "invalid code" / "entity does not exist" outcomes.
var ErrNotFound = errors.New("not found")
