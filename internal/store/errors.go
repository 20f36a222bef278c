package store

import (
	domainerrors "github.com/NYPL-Simplified/circulation-core/internal/errors"
)

// Sentinel errors returned by store implementations. They wrap the domain
// error codes so callers can switch on errors.Is without importing a
// concrete store package.
var (
	ErrNotFound      = domainerrors.NotFound("record not found")
	ErrAlreadyExists = domainerrors.AlreadyExists("record already exists")
)
