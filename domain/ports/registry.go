package ports

import "github.com/amalgam-lang/amalgam-go/domain/entities"

// EntityRegistry tracks the entities loaded through a runtime by handle.
type EntityRegistry interface {
	// Register records an entity. It fails in strict mode when the handle is already tracked.
	Register(record entities.EntityRecord) error

	// Reserve claims a handle for an entity about to be created. In strict
	// mode it fails when the handle is tracked or already reserved. The claim
	// ends with Register or Release.
	Reserve(handle string) error

	// Release drops a reservation made by Reserve. Tracked records are kept.
	Release(handle string)

	// Get returns the record for a handle.
	Get(handle string) (entities.EntityRecord, bool)

	// Remove forgets a handle. Removing an unknown handle is a no-op.
	Remove(handle string)

	// List returns all tracked handles in sorted order.
	List() []string
}
