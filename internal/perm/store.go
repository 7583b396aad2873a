package perm

import "context"

// Store is the grant set backing the lattice: (user, permission name,
// object) -> granted. Absence means "not granted".
//
// Assign and Remove are idempotent: re-assigning an existing grant and
// removing a missing one are silent no-ops. Propagation code relies on this
// and never pre-checks existence.
type Store interface {
	Assign(ctx context.Context, name string, userID int64, obj ObjectRef) error
	Remove(ctx context.Context, name string, userID int64, obj ObjectRef) error
	Has(ctx context.Context, name string, userID int64, obj ObjectRef) (bool, error)

	// PurgeUser removes every grant held by the user; PurgeObject removes
	// every grant targeting the object. Both back entity deletion so no
	// orphaned grants survive a cascade.
	PurgeUser(ctx context.Context, userID int64) error
	PurgeObject(ctx context.Context, obj ObjectRef) error
}
