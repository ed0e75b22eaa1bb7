package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SetBeforeVoteInsert installs a hook that runs inside the vote transaction
// after the lookup found no row and before the insert
func SetBeforeVoteInsert(s *Store, hook func(ctx context.Context, tx *sqlx.Tx) error) {
	s.beforeVoteInsert = hook
}
