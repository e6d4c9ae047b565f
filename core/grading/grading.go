// Package grading maps numeric scores to letter grades.
package grading

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyPolicy = errors.New("grading policy has no bands")
	ErrNoCatchAll  = errors.New("grading policy has no band with min 0")
)

// Band is one row of a grading table: every score >= Min (and below the next band) gets Grade.
type Band struct {
	Min    int    `json:"min" yaml:"min"`
	Grade  string `json:"grade" yaml:"grade"`
	Points int    `json:"points" yaml:"points"`
}

// Policy is an ordered grading table, sorted descending by Band.Min.
type Policy []Band

// NewPolicy sorts bands descending and checks the table is total over scores >= 0.
func NewPolicy(bands []Band) (Policy, error) {
	if len(bands) == 0 {
		return nil, ErrEmptyPolicy
	}
	p := make(Policy, len(bands))
	copy(p, bands)
	sort.SliceStable(p, func(i, j int) bool { return p[i].Min > p[j].Min })

	for i, b := range p {
		if b.Grade == "" {
			return nil, fmt.Errorf("band with min %d has no grade", b.Min)
		}
		if i > 0 && p[i-1].Min == b.Min {
			return nil, fmt.Errorf("duplicate band min %d", b.Min)
		}
	}
	if p[len(p)-1].Min != 0 {
		return nil, ErrNoCatchAll
	}
	return p, nil
}

// Band returns the first band whose minimum the score reaches.
// Negative scores fall through to the lowest band.
func (p Policy) Band(score int) Band {
	for _, b := range p {
		if score >= b.Min {
			return b
		}
	}
	return p[len(p)-1]
}

// GradeOf returns the grade label for score.
func (p Policy) GradeOf(score int) string {
	return p.Band(score).Grade
}

// Highest returns the top band.
func (p Policy) Highest() Band { return p[0] }

// Lowest returns the catch-all band.
func (p Policy) Lowest() Band { return p[len(p)-1] }
