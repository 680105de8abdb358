package repository

import "errors"

// ErrClosed is returned by a driver used after Close or after its connection was lost.
var ErrClosed = errors.New("repository: connection is closed")
