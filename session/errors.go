package session

import "errors"

var (
	// ErrSessionStopped is returned by every action on a stopped session.
	ErrSessionStopped = errors.New("session is stopped")

	// ErrUnknownEngine is returned by Build for an unregistered engine name.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrInvalidIdentifier is returned for view and function names that are
	// not plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrParameterizedView is returned when a DataFrame with bound arguments
	// is registered as a view.
	ErrParameterizedView = errors.New("cannot create a view from a query with bound arguments")

	// ErrFunctionExists is returned when a function name is registered twice.
	ErrFunctionExists = errors.New("function already registered")
)
