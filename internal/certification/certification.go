// Package certification defines the certification value types: referee
// levels, rulebook versions, and the ordering between credentials.
package certification

import (
	"fmt"

	dErrors "refcert/pkg/domain-errors"
)

// Level is a referee skill level. Basic, Intermediate and Advanced are earned
// strictly in sequence per rulebook version; Scorekeeper stands alone.
type Level string

const (
	LevelScorekeeper  Level = "scorekeeper"
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// levelRank orders levels for comparison. Scorekeeper ranks below the
// sequential chain; it has no prerequisite and is prerequisite to nothing.
var levelRank = map[Level]int{
	LevelScorekeeper:  0,
	LevelBasic:        1,
	LevelIntermediate: 2,
	LevelAdvanced:     3,
}

// ParseLevel validates and returns a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := levelRank[l]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown level: %q", s))
	}
	return l, nil
}

func (l Level) String() string { return string(l) }

// Rank returns the level's position in the total order.
func (l Level) Rank() int { return levelRank[l] }

// RequiredPrerequisite returns the level that must be held before l can be
// earned. Scorekeeper and Basic require nothing.
func RequiredPrerequisite(l Level) (Level, bool) {
	switch l {
	case LevelIntermediate:
		return LevelBasic, true
	case LevelAdvanced:
		return LevelIntermediate, true
	default:
		return "", false
	}
}

// RulebookVersion is the rulebook edition a certification or exam applies to.
type RulebookVersion int

func (v RulebookVersion) String() string { return fmt.Sprintf("v%d", int(v)) }

// Certification is an immutable (level, rulebook version) credential.
type Certification struct {
	Level   Level
	Version RulebookVersion
}

func New(level Level, version RulebookVersion) Certification {
	return Certification{Level: level, Version: version}
}

func (c Certification) String() string {
	return fmt.Sprintf("%s(%s)", c.Level, c.Version)
}

// Prerequisite returns the certification required before c can be earned:
// the previous level of the same rulebook version, or nil for levels with
// no prerequisite.
func (c Certification) Prerequisite() *Certification {
	prev, ok := RequiredPrerequisite(c.Level)
	if !ok {
		return nil
	}
	return &Certification{Level: prev, Version: c.Version}
}

// Compare orders certifications by (version, level rank). It returns a
// negative value when a sorts before b, zero when equal, positive otherwise.
func Compare(a, b Certification) int {
	if a.Version != b.Version {
		return int(a.Version) - int(b.Version)
	}
	return a.Level.Rank() - b.Level.Rank()
}

// Lowest returns the smallest certification in the set per Compare.
// The second return is false for an empty set.
func Lowest(certs []Certification) (Certification, bool) {
	if len(certs) == 0 {
		return Certification{}, false
	}
	lowest := certs[0]
	for _, c := range certs[1:] {
		if Compare(c, lowest) < 0 {
			lowest = c
		}
	}
	return lowest, true
}

// Highest returns the largest certification in the set per Compare.
// The second return is false for an empty set.
func Highest(certs []Certification) (Certification, bool) {
	if len(certs) == 0 {
		return Certification{}, false
	}
	highest := certs[0]
	for _, c := range certs[1:] {
		if Compare(c, highest) > 0 {
			highest = c
		}
	}
	return highest, true
}

// Contains reports whether the set holds exactly cert.
func Contains(certs []Certification, cert Certification) bool {
	for _, c := range certs {
		if c == cert {
			return true
		}
	}
	return false
}
