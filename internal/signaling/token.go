// Package signaling is the client side of the conference session
// subsystem: it joins a room, long-polls the backend for presence
// events, measures connection latency and feeds everything to the
// store. The backend itself is an external collaborator; only its
// wire format is known here.
package signaling

import (
	"crypto/sha256"
	"encoding/base64"
)

// RoomToken derives the deterministic access key for a room from the
// deployment passphrase. The backend derives the same value, so no
// key ever crosses the wire in the clear.
func RoomToken(room, passphrase string) string {
	key := sha256.Sum256([]byte(passphrase))
	combined := append(key[:], []byte(room)...)
	combined = append(combined, []byte("ACCESS_GRANTED")...)
	hash := sha256.Sum256(combined)
	return base64.StdEncoding.EncodeToString(hash[:16])
}
