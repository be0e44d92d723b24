package assembly

import "errors"

var (
	ErrInvalidBlueprint     = errors.New("invalid blueprint")
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrAlreadySpawned       = errors.New("component type already spawned")
	ErrNotInitialized       = errors.New("engine not initialized")
)
