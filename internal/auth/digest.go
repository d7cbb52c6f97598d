package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CloudPassword derives the digest the camera expects in the login handshake.
// Tapo firmware compares against an uppercase hex SHA-256 of the TP-Link
// cloud account password, not the password itself.
func CloudPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}
