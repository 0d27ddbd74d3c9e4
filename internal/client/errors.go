package client

import "errors"

var (
	ErrNoServerAddress      = errors.New("no server address configured")
	ErrInvalidAddressFormat = errors.New("invalid server address format")
	ErrUnsupportedScheme    = errors.New("unsupported address scheme")
	ErrConnectionFailed     = errors.New("failed to connect to server")
)
