package player

import (
	"math/rand/v2"
	"strings"
)

var (
	adjectives = []string{
		"brave", "calm", "clever", "eager", "fancy", "gentle", "happy", "jolly",
		"kind", "lively", "lucky", "mighty", "nimble", "proud", "quick", "quiet",
		"silly", "swift", "tiny", "witty", "bold", "big", "sleepy", "sneaky",
	}
	colors = []string{
		"amber", "azure", "black", "blue", "coral", "crimson", "cyan", "gold",
		"green", "grey", "indigo", "ivory", "lime", "magenta", "olive", "orange",
		"pink", "purple", "red", "silver", "teal", "violet", "white", "yellow",
	}
	animals = []string{
		"badger", "bat", "bear", "beaver", "camel", "cat", "crow", "deer",
		"donkey", "eagle", "ferret", "fox", "gecko", "goat", "heron", "koala",
		"lemur", "lynx", "moose", "otter", "panda", "raven", "tiger", "walrus",
	}
)

// randomName joins an adjective, a color and an animal, e.g. big_red_donkey.
func randomName(r *rand.Rand) string {
	return strings.Join([]string{
		adjectives[r.IntN(len(adjectives))],
		colors[r.IntN(len(colors))],
		animals[r.IntN(len(animals))],
	}, "_")
}
