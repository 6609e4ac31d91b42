// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashToken hashes a plain-text secret using the bcrypt algorithm.
// Operators use it (via `shicictl hash-token`) to produce TOKEN_HASH.
func HashToken(plainText string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainText), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash token: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckTokenHash compares a plain-text secret with its hashed version.
func CheckTokenHash(plainText, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainText))
	return err == nil
}
