// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the write authorization primitive for mutating endpoints.
//
// # Architecture
//
// Writes are authorized by one process-wide shared secret carried in the
// request payload. The secret is injected from configuration at startup and
// never read from the environment by domain code.
package sec

import (
	"crypto/subtle"
	"errors"
)

// ErrNoSecret is returned when a [WriteToken] is built without any secret.
var ErrNoSecret = errors.New("sec: write token secret is empty")

// WriteToken verifies caller-supplied tokens against the configured secret.
type WriteToken struct {
	plain []byte
	hash  string
}

// NewWriteToken builds a verifier from a plain secret or a bcrypt hash.
// The hash wins when both are provided.
func NewWriteToken(plain, hash string) (*WriteToken, error) {
	if hash != "" {
		return &WriteToken{hash: hash}, nil
	}
	if plain == "" {
		return nil, ErrNoSecret
	}
	return &WriteToken{plain: []byte(plain)}, nil
}

// Verify reports whether candidate matches the configured secret.
// An empty candidate never matches.
func (token *WriteToken) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}
	if token.hash != "" {
		return CheckTokenHash(candidate, token.hash)
	}
	return subtle.ConstantTimeCompare([]byte(candidate), token.plain) == 1
}
