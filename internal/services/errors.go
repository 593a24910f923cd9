package services

import (
	"errors"
	"strings"
)

// Service-level error taxonomy. Handlers map these to HTTP responses with
// errors.Is; every one of them aborts the enclosing atomic operation.
var (
	// ErrItemNotFound is returned when a transaction references an unknown
	// inventory item.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrEntryNotFound is returned when a ledger timestamp does not name an
	// existing entry (including a second revert of the same entry).
	ErrEntryNotFound = errors.New("log entry not found")

	// ErrCyclicRecipe is returned when cost resolution encounters a cycle in
	// the recipe graph.
	ErrCyclicRecipe = errors.New("recipe graph contains a cycle")

	// ErrUniqueKeyExhausted is returned when the bounded timestamp-collision
	// retry loop runs out of attempts.
	ErrUniqueKeyExhausted = errors.New("exhausted retries for a unique log timestamp")

	// ErrUnauthorized is returned when the acting principal may not perform a
	// privileged operation.
	ErrUnauthorized = errors.New("operation not permitted for this principal")

	// ErrValidation is returned for malformed request payloads.
	ErrValidation = errors.New("validation failed")
)

// Role names carried in JWT claims.
const (
	RoleAdmin  = "Admin"
	RoleWorker = "Worker"
)

// Actor is the authenticated principal on whose behalf a service call runs.
// Populated by the auth middleware from token claims.
type Actor struct {
	ID   int64
	Name string
	Role string
}

// IsPrivileged reports whether the actor may run payroll closing and revert
// operations.
func (a Actor) IsPrivileged() bool {
	return strings.EqualFold(a.Role, RoleAdmin)
}
