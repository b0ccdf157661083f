package util

import (
	"fmt"

	"siglo-server/internal/rng"
)

var adjectives = []string{
	"Lucky", "Bold", "Quiet", "Swift", "Steady", "Brave", "Sly", "Calm", "Wild", "Clever", "Grand",
	"Golden", "Silver", "Crimson", "Azure", "Jade", "Amber", "Fuzzy", "Smiling", "Daring", "Prime",
}

var animals = []string{
	"Jaguar", "Condor", "Llama", "Alpaca", "Puma", "Toucan", "Iguana", "Tapir", "Coati", "Ocelot",
	"Armadillo", "Macaw", "Otter", "Dolphin", "Fox", "Owl", "Heron", "Tortoise", "Gecko", "Lynx",
}

// GetRandomName returns a random display name by combining an adjective with an animal
// It is used when a player joins a room without a name
func GetRandomName(gen rng.Generator) string {
	return fmt.Sprintf("%s %s", adjectives[gen.Intn(len(adjectives))], animals[gen.Intn(len(animals))])
}
