package types

import (
	"fmt"
	"strings"
)

// OutputLevel selects how much detail an exported document carries.
// Levels form a total order of increasing verbosity.
type OutputLevel int

const (
	LevelCompact OutputLevel = iota
	LevelStandard
	LevelDetailed
	LevelForensic
)

var levelNames = [...]string{
	LevelCompact:  "compact",
	LevelStandard: "standard",
	LevelDetailed: "detailed",
	LevelForensic: "forensic",
}

// Levels returns every output level from least to most verbose.
func Levels() []OutputLevel {
	return []OutputLevel{LevelCompact, LevelStandard, LevelDetailed, LevelForensic}
}

// String returns the lowercase level name.
func (l OutputLevel) String() string {
	if l < LevelCompact || l > LevelForensic {
		return fmt.Sprintf("OutputLevel(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the four defined levels.
func (l OutputLevel) Valid() bool {
	return l >= LevelCompact && l <= LevelForensic
}

// Next returns the next more verbose level, wrapping from forensic back to compact.
func (l OutputLevel) Next() OutputLevel {
	if !l.Valid() || l == LevelForensic {
		return LevelCompact
	}
	return l + 1
}

// ParseOutputLevel converts a level name (case-insensitive) into an OutputLevel.
func ParseOutputLevel(s string) (OutputLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return OutputLevel(i), nil
		}
	}
	return LevelStandard, fmt.Errorf("unknown output level %q (valid: %s)", s, strings.Join(levelNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (l OutputLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid output level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *OutputLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseOutputLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
