package space

import (
	"fmt"

	"github.com/rpggio/spacelease/internal/notify"
)

// NewSpaceEvent announces a newly listed space.
func NewSpaceEvent(sp *Space) notify.Event {
	return notify.New(notify.TypeNewSpace, notify.TopicSpaces, statusMessage(sp), *sp)
}

// StatusChangeEvent announces an availability flip.
func StatusChangeEvent(sp *Space) notify.Event {
	return notify.New(notify.TypeSpaceStatusChange, notify.TopicSpaces, statusMessage(sp), *sp)
}

func statusMessage(sp *Space) string {
	state := "unavailable"
	if sp.Available {
		state = "available"
	}
	return fmt.Sprintf("Space '%s' is now %s", sp.Name, state)
}
