package compositor

import (
	"fmt"

	"github.com/patrick9487/Smart-dashboard/registry"
)

type EventKind int

const (
	// EventCreated is raised when a client creates a surface.
	EventCreated EventKind = iota

	// EventMapped is raised once per surface, the first time it is
	// seen with content.
	EventMapped

	// EventCommitted is raised on every commit.
	EventCommitted

	// EventDestroyed is raised after the surface has been removed from
	// the registry.
	EventDestroyed

	// EventMatched is raised when a pending package is bound to a
	// surface by a title observation.
	EventMatched

	// EventUnbound is raised for each package whose surface was
	// destroyed.
	EventUnbound
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventMapped:
		return "mapped"
	case EventCommitted:
		return "committed"
	case EventDestroyed:
		return "destroyed"
	case EventMatched:
		return "matched"
	case EventUnbound:
		return "unbound"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes a change in the compositor's surface state. Package
// is only set for EventMatched and EventUnbound.
type Event struct {
	Kind    EventKind
	Surface registry.SurfaceID
	Package string
}
