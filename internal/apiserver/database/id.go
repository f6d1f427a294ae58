package database

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID returns a ULID: a millisecond timestamp followed by monotonic
// randomness, so two IDs made in the same millisecond never collide.
func NewID() string {
	return ulid.Make().String()
}

// NewAccessToken returns a fresh opaque member access token
func NewAccessToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// OptString maps an empty string to nil
func OptString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// StringValue returns the pointed-to string, or "" for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
