package vfs

import "errors"

var (
	// ErrInvalidAddress is used when an address cannot be decoded, or
	// when an operation is given addresses of incompatible gists.
	ErrInvalidAddress = errors.New("vfs: invalid address")
	// ErrNotSupported is used for operations the flat remote model
	// cannot express, like listing below the file level.
	ErrNotSupported = errors.New("vfs: operation not supported")
	// ErrExists is used when a write or rename would replace an existing
	// file and overwriting was not allowed.
	ErrExists = errors.New("vfs: destination already exists")
	// ErrReadOnly is used for mutations of a gist the authenticated user
	// does not own.
	ErrReadOnly = errors.New("vfs: gist is read-only")
	// ErrReservedName is used when a filename collides with the remote
	// store's auto-generated naming pattern.
	ErrReservedName = errors.New("vfs: filename is reserved by the remote store")
)
