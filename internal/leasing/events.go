package leasing

import (
	"fmt"

	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/notify"
)

// newContractEvents tells the owner, and the contracts topic, about c.
func newContractEvents(c *contract.Contract, sp *space.Space) []notify.Event {
	msg := "New contract for your space: " + sp.Name
	return []notify.Event{
		notify.ForUser(notify.TypeNewContract, sp.OwnerID, msg, *c),
		notify.New(notify.TypeNewContract, notify.TopicContracts, msg, *c),
	}
}

func contractUpdateEvent(c *contract.Contract, sp *space.Space) notify.Event {
	msg := fmt.Sprintf("Your contract for %s has been updated to %s", sp.Name, c.Status)
	return notify.ForUser(notify.TypeContractUpdate, c.TenantID, msg, *c)
}
