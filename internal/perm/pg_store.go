package perm

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
)

// PGStore persists grants in the object_permissions table. It runs against
// either a pool or a transaction, so propagation writes share the
// relationship row's transaction.
type PGStore struct {
	q database.Querier
}

// NewPGStore creates a PGStore over the given querier.
func NewPGStore(q database.Querier) *PGStore {
	return &PGStore{q: q}
}

// Assign inserts a grant. Duplicate grants are a no-op via ON CONFLICT.
func (s *PGStore) Assign(ctx context.Context, name string, userID int64, obj ObjectRef) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO object_permissions (user_id, permission, object_kind, object_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, permission, object_kind, object_id) DO NOTHING`,
		userID, name, obj.Kind, obj.ID,
	)
	return err
}

// Remove deletes a grant. Removing a missing grant is a no-op.
func (s *PGStore) Remove(ctx context.Context, name string, userID int64, obj ObjectRef) error {
	_, err := s.q.Exec(ctx,
		`DELETE FROM object_permissions
		 WHERE user_id = $1 AND permission = $2 AND object_kind = $3 AND object_id = $4`,
		userID, name, obj.Kind, obj.ID,
	)
	return err
}

// Has reports whether the grant exists.
func (s *PGStore) Has(ctx context.Context, name string, userID int64, obj ObjectRef) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM object_permissions
			WHERE user_id = $1 AND permission = $2 AND object_kind = $3 AND object_id = $4
		 )`,
		userID, name, obj.Kind, obj.ID,
	).Scan(&exists)
	return exists, err
}

// PurgeUser removes every grant held by the user.
func (s *PGStore) PurgeUser(ctx context.Context, userID int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM object_permissions WHERE user_id = $1`, userID)
	return err
}

// PurgeObject removes every grant targeting the object.
func (s *PGStore) PurgeObject(ctx context.Context, obj ObjectRef) error {
	_, err := s.q.Exec(ctx,
		`DELETE FROM object_permissions WHERE object_kind = $1 AND object_id = $2`,
		obj.Kind, obj.ID,
	)
	return err
}
