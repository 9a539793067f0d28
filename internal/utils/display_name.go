package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var moods = []string{
	"Bold", "Bright", "Curious", "Daring", "Gentle",
	"Lively", "Lucky", "Mellow", "Quiet", "Vivid",
	"Witty", "Sunny", "Clever", "Brave", "Swift",
}

var crafts = []string{
	"Painter", "Sketcher", "Writer", "Designer", "Maker",
	"Sculptor", "Poet", "Doodler", "Inker", "Dreamer",
	"Builder", "Storyteller", "Composer", "Crafter", "Snapper",
}

func pick(n int) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// GenerateDisplayName creates a random display name like "Vivid Sketcher 0427"
// for accounts registered without a name
func GenerateDisplayName() (string, error) {
	moodIdx, err := pick(len(moods))
	if err != nil {
		return "", fmt.Errorf("failed to pick mood: %w", err)
	}

	craftIdx, err := pick(len(crafts))
	if err != nil {
		return "", fmt.Errorf("failed to pick craft: %w", err)
	}

	suffix, err := pick(10000)
	if err != nil {
		return "", fmt.Errorf("failed to generate suffix: %w", err)
	}

	return fmt.Sprintf("%s %s %04d", moods[moodIdx], crafts[craftIdx], suffix), nil
}
