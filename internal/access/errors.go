// Package access decides who can see which files. It owns the share
// grant/revoke lifecycle, per-viewer stars and the derived owned /
// shared-with-me / shared-by-me views.
package access

import "errors"

var (
	ErrNotOwner         = errors.New("you don't own this file")
	ErrInvalidRecipient = errors.New("invalid recipient email provided")
	ErrNoActiveShare    = errors.New("file is not shared with this recipient")
	ErrFileNotFound     = errors.New("file not found")
	ErrNotVisible       = errors.New("file is not visible to you")
)
