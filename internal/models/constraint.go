package models

// ConstraintKind identifies what a single constraint checks
type ConstraintKind string

const (
	KindStructure     ConstraintKind = "structure"      // exact number of points
	KindWordInclusion ConstraintKind = "word_inclusion" // word or phrase must appear
	KindWordExclusion ConstraintKind = "word_exclusion" // word or phrase must not appear
)

// Operator combines the constraints of a LogicalGroup
type Operator string

const (
	OperatorAnd Operator = "AND" // every constraint must hold
	OperatorOr  Operator = "OR"  // at least one constraint must hold
	OperatorNot Operator = "NOT" // no constraint may hold
)

// Constraint is one atomic rule a response must or must not satisfy.
// Value holds a decimal point count for structure constraints and a word or
// phrase otherwise.
type Constraint struct {
	Kind  ConstraintKind `json:"type" validate:"required,oneof=structure word_inclusion word_exclusion"`
	Value string         `json:"value" validate:"required,notblank"`
}

// LogicalGroup is a set of constraints combined by one operator.
// Constraint order does not affect evaluation; it is kept for display.
type LogicalGroup struct {
	Operator    Operator     `json:"operator" validate:"required,oneof=AND OR NOT"`
	Constraints []Constraint `json:"constraints" validate:"required,min=1,dive"`
}

// Violation records which constraint(s) of a group failed validation.
//
// AND and NOT violations carry the single offending Constraint. An OR
// violation carries every constraint of the group in GroupConstraints since
// any one of them would have satisfied it.
type Violation struct {
	Operator         Operator     `json:"operator"`
	Constraint       *Constraint  `json:"constraint,omitempty"`
	GroupConstraints []Constraint `json:"group_constraints,omitempty"`
}

// IsStructure reports whether the violation concerns a single structure constraint
func (v Violation) IsStructure() bool {
	return v.Constraint != nil && v.Constraint.Kind == KindStructure
}
