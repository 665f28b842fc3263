package gateAuth

import "errors"

var (
	// ErrNoUserDataProvider is an exported constant or variable used by the login gate.
	ErrNoUserDataProvider = errors.New("no user data provider configured - cannot work without one")
	// ErrInvalidLoginPath is an exported constant or variable used by the login gate.
	ErrInvalidLoginPath = errors.New("login path must start and end with '/'")
	// ErrBuilderUsed is an exported constant or variable used by the login gate.
	ErrBuilderUsed = errors.New("builder already used")
)
