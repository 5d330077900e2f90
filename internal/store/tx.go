package store

import (
	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
)

// txRepos binds every repository to one transaction.
type txRepos struct {
	spaces    *SpaceRepository
	contracts *ContractRepository
	parking   *ParkingRepository
	users     *UserRepository
	activity  *ActivityRepository
}

func newTxRepos(c conn) *txRepos {
	return &txRepos{
		spaces:    &SpaceRepository{c: c},
		contracts: &ContractRepository{c: c},
		parking:   &ParkingRepository{c: c},
		users:     &UserRepository{c: c},
		activity:  &ActivityRepository{c: c},
	}
}

func (t *txRepos) Spaces() space.Repository       { return t.spaces }
func (t *txRepos) Contracts() contract.Repository { return t.contracts }
func (t *txRepos) Parking() parking.Repository    { return t.parking }
func (t *txRepos) Users() user.Repository         { return t.users }
func (t *txRepos) Activity() activity.Repository  { return t.activity }

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
