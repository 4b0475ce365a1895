package ecs

import "errors"

var (
	// Entity and component errors

	ErrComponentAttached = errors.New("component already attached to an entity")
	ErrComponentNotFound = errors.New("component not found on entity")
	ErrTypeMismatch      = errors.New("component does not match the requested type")
	ErrEntityLocked      = errors.New("entity is enabled or owned by a registry")

	// Registry errors

	ErrEntityOwned      = errors.New("entity already added to a registry")
	ErrEntityEnabled    = errors.New("entity is already enabled")
	ErrEntityNotEnabled = errors.New("entity is not enabled")
	ErrEntityNotFound   = errors.New("entity not added to this registry")
	ErrNotOwned         = errors.New("entity not owned by this registry")
	ErrUpdating         = errors.New("registry is updating")
	ErrSystemNotBound   = errors.New("system not bound to this registry")
	ErrSystemBound      = errors.New("system already bound to another registry")

	// Query errors

	ErrEmptyFamily    = errors.New("family must have at least one type")
	ErrNotInHierarchy = errors.New("entity is not part of the hierarchy")
	ErrInHierarchy    = errors.New("entity is already part of the hierarchy")
)
