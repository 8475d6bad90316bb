package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
)

// NoConstraintsRule replaces the rule list when a request has no groups.
const NoConstraintsRule = "No constraints provided. Answer the question naturally."

const orGroupHeader = "- For the OR group, at least one of the following constraints must be satisfied:"

const orFramingSuffix = " (OR group: at least one of these rules must hold)"

// Rule phrases a single constraint as an imperative sentence. negate flips
// the required polarity, which is how constraints of a NOT group read.
func Rule(c models.Constraint, negate bool) string {
	value := strings.TrimSpace(c.Value)
	switch c.Kind {
	case models.KindStructure:
		if negate {
			return fmt.Sprintf("The response must not have exactly %s points.", value)
		}
		return fmt.Sprintf("The response must have exactly %s points.", value)
	case models.KindWordInclusion:
		if negate {
			return fmt.Sprintf("The response must not include the word '%s'.", value)
		}
		return fmt.Sprintf("The response must include the word '%s'.", value)
	case models.KindWordExclusion:
		if negate {
			return fmt.Sprintf("The response must include the word '%s'.", value)
		}
		return fmt.Sprintf("The response must not include the word '%s'.", value)
	default:
		return fmt.Sprintf("The response must satisfy '%s'.", value)
	}
}

// FramingRules lists every constraint as a bullet for the system framing.
// Structure constraints are only stated when they sit in an AND group, so a
// set holding nothing else yields no bullets at all.
func FramingRules(groups []models.LogicalGroup) string {
	if len(groups) == 0 {
		return NoConstraintsRule
	}

	var rules []string
	for _, group := range groups {
		for _, c := range group.Constraints {
			if c.Kind == models.KindStructure && group.Operator != models.OperatorAnd {
				continue
			}
			rule := "- " + Rule(c, group.Operator == models.OperatorNot)
			if group.Operator == models.OperatorOr {
				rule += orFramingSuffix
			}
			rules = append(rules, rule)
		}
	}
	return strings.Join(rules, "\n\n")
}

// RenderViolation turns a violation into the bullet used in correction and
// analysis prompts. OR violations span several lines.
func RenderViolation(v models.Violation) string {
	if v.Operator == models.OperatorOr {
		lines := []string{orGroupHeader}
		for _, c := range v.GroupConstraints {
			lines = append(lines, "  - "+Rule(c, false))
		}
		return strings.Join(lines, "\n")
	}
	if v.Constraint == nil {
		return ""
	}
	return "- " + Rule(*v.Constraint, v.Operator == models.OperatorNot)
}

// RenderViolations renders all violations, one bullet (block) per line.
func RenderViolations(violations []models.Violation) string {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		if line := RenderViolation(v); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// FormattingExample shows the numbered layout expected for a structure
// target. There is nothing to show for a target of zero.
func FormattingExample(target int) string {
	if target <= 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "For example, if there is a structure constraint that requires exactly %d points, "+
		"ensure your response has %d distinct points, each marked with a number like this:\n", target, target)
	b.WriteString("1. First point.")
	if target >= 2 {
		b.WriteString("\n2. Second point.")
	}
	if target >= 3 {
		b.WriteString("\n... up to " + strconv.Itoa(target) + ". Last point.")
	}
	return b.String()
}

// StructureExplanation states why a structure violation failed without
// asking the model.
func StructureExplanation(rendered string, actual, target int, negated bool) string {
	if negated {
		return fmt.Sprintf("The constraint '%s' failed because the response has %d points, but it should not have exactly %d points.",
			rendered, actual, target)
	}
	return fmt.Sprintf("The constraint '%s' failed because the response has %d points, but it should have exactly %d points.",
		rendered, actual, target)
}
