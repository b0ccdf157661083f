package util

import (
	"github.com/google/uuid"
)

// RandomPlayerID generates a random, opaque player identifier
func RandomPlayerID() string {
	return "player-" + uuid.New().String()
}
