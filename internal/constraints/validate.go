package constraints

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
)

var (
	numberedPointPattern      = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	bulletPointPattern        = regexp.MustCompile(`(?m)^\s*[-*]\s+`)
	parentheticalPointPattern = regexp.MustCompile(`\(\d+\)`)
)

// CountPoints counts the points of a response.
//
// Numbered lines ("1. ") are tried first, then bullet lines ("- " or "* "),
// then "(n)" markers anywhere in the text. The first strategy that finds
// anything wins, even if a later one would fit the target better.
func CountPoints(response string) int {
	if n := len(numberedPointPattern.FindAllStringIndex(response, -1)); n > 0 {
		return n
	}
	if n := len(bulletPointPattern.FindAllStringIndex(response, -1)); n > 0 {
		return n
	}
	return len(parentheticalPointPattern.FindAllStringIndex(response, -1))
}

// Evaluate reports whether a single constraint holds for the response.
// Structure values are checked when the ConstraintSet is built; an
// unparsable value here simply does not hold.
func Evaluate(response string, c models.Constraint) bool {
	switch c.Kind {
	case models.KindStructure:
		target, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			return false
		}
		return CountPoints(response) == target
	case models.KindWordInclusion:
		return containsFolded(response, c.Value)
	case models.KindWordExclusion:
		return !containsFolded(response, c.Value)
	default:
		return true
	}
}

func containsFolded(response, value string) bool {
	return strings.Contains(strings.ToLower(response), strings.ToLower(strings.TrimSpace(value)))
}

// Validate checks the response against every group and returns whether all of
// them are satisfied together with the violations found.
//
// AND groups report each failing constraint, OR groups report the whole group
// once when nothing in it holds, NOT groups report each constraint that holds.
func Validate(response string, groups []models.LogicalGroup) (bool, []models.Violation) {
	var violations []models.Violation
	satisfied := true

	for _, group := range groups {
		results := make([]bool, len(group.Constraints))
		for i, c := range group.Constraints {
			results[i] = Evaluate(response, c)
		}

		switch group.Operator {
		case models.OperatorAnd:
			for i, ok := range results {
				if !ok {
					satisfied = false
					c := group.Constraints[i]
					violations = append(violations, models.Violation{
						Operator:   models.OperatorAnd,
						Constraint: &c,
					})
				}
			}
		case models.OperatorOr:
			if !anyTrue(results) {
				satisfied = false
				violations = append(violations, models.Violation{
					Operator:         models.OperatorOr,
					GroupConstraints: slices.Clone(group.Constraints),
				})
			}
		case models.OperatorNot:
			for i, ok := range results {
				if ok {
					satisfied = false
					c := group.Constraints[i]
					violations = append(violations, models.Violation{
						Operator:   models.OperatorNot,
						Constraint: &c,
					})
				}
			}
		}
	}

	return satisfied, violations
}

func anyTrue(results []bool) bool {
	for _, ok := range results {
		if ok {
			return true
		}
	}
	return false
}
