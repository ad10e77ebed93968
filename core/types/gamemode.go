package types

import (
	"errors"
	"fmt"
	"strings"
)

// GameMode identifies one of the playable arcade variants. Each mode keeps its
// own leaderboard and plausibility bound.
type GameMode uint8

const (
	ModeClassic GameMode = iota
	ModeArcade
	ModeWhackLight

	gameModeCount
)

// ErrInvalidGameMode indicates an unknown game mode identifier.
var ErrInvalidGameMode = errors.New("types: invalid game mode")

// GameModes returns every known mode in declaration order.
func GameModes() []GameMode {
	return []GameMode{ModeClassic, ModeArcade, ModeWhackLight}
}

// Valid reports whether the mode is one of the known variants.
func (m GameMode) Valid() bool {
	return m < gameModeCount
}

func (m GameMode) String() string {
	switch m {
	case ModeClassic:
		return "classic"
	case ModeArcade:
		return "arcade"
	case ModeWhackLight:
		return "whacklight"
	default:
		return fmt.Sprintf("gamemode(%d)", uint8(m))
	}
}

// ParseGameMode resolves the canonical lowercase mode name.
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic":
		return ModeClassic, nil
	case "arcade":
		return ModeArcade, nil
	case "whacklight":
		return ModeWhackLight, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGameMode, s)
	}
}
