package leasing

import (
	"context"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
)

// Tx exposes the repositories of one unit of work. Everything written through
// them commits or rolls back together.
type Tx interface {
	Spaces() space.Repository
	Contracts() contract.Repository
	Parking() parking.Repository
	Users() user.Repository
	Activity() activity.Repository
}

// Store runs fn inside a transaction, committing when fn returns nil.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
