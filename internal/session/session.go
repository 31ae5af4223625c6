// Package session issues typed identifiers for server-side view sessions
// and connected clients.
package session

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Identifier prefixes.
const (
	PrefixView   = "view"
	PrefixClient = "client"
	PrefixFrame  = "frame"
)

// New returns a fresh identifier with the given prefix.
func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

// NewViewID identifies one shared grid view for the lifetime of a server.
func NewViewID() string { return New(PrefixView) }

// NewClientID identifies a websocket client. Clients that reconnect may
// present it again to keep their identity.
func NewClientID() string { return New(PrefixClient) }

// NewFrameID identifies one encoded frame image.
func NewFrameID() string { return New(PrefixFrame) }

// Validate checks that id parses and carries expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("session: invalid id %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("session: expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
