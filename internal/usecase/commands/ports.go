package commands

import (
	"library-api/internal/pkg/patch"

	"github.com/google/uuid"
)

// Write-side snapshots keep the command layer off the read-side query types.
type BookSnapshot struct {
	ID              uuid.UUID
	Title           string
	AvailableCopies int32
}

// BookPatch holds the mutable catalog fields; nil fields are left untouched.
// Defined in pkg/patch so the request DTO layer can build one without
// importing this package.
type BookPatch = patch.BookPatch
