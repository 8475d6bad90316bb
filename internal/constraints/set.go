package constraints

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConstraintSet is returned when a request's constraint groups are
// malformed. It is a caller-input error: no model call is made.
var ErrInvalidConstraintSet = errors.New("invalid constraint set")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := validate.RegisterValidation("notblank", notBlank); err != nil {
			panic(fmt.Sprintf("constraints: register notblank: %v", err))
		}
	})
	return validate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ConstraintSet is a validated, request-level collection of logical groups
type ConstraintSet struct {
	groups    []models.LogicalGroup
	structure *models.Constraint
	target    int
	andScoped bool
}

// NewConstraintSet validates groups and returns the constraint set.
// At most one structure constraint may exist across all groups, and its value
// must be a non-negative integer.
func NewConstraintSet(groups []models.LogicalGroup) (*ConstraintSet, error) {
	set := &ConstraintSet{groups: groups}

	for i, group := range groups {
		if err := structValidator().Struct(group); err != nil {
			return nil, fmt.Errorf("%w: group %d: %s", ErrInvalidConstraintSet, i, describeValidationError(err))
		}

		for j := range group.Constraints {
			c := group.Constraints[j]
			if c.Kind != models.KindStructure {
				continue
			}
			if set.structure != nil {
				return nil, fmt.Errorf("%w: only one structure constraint is allowed", ErrInvalidConstraintSet)
			}
			target, err := strconv.Atoi(strings.TrimSpace(c.Value))
			if err != nil || target < 0 {
				return nil, fmt.Errorf("%w: structure value %q is not a non-negative integer", ErrInvalidConstraintSet, c.Value)
			}
			set.structure = &c
			set.target = target
			set.andScoped = group.Operator == models.OperatorAnd
		}
	}

	return set, nil
}

// Groups returns the validated groups in their original order
func (s *ConstraintSet) Groups() []models.LogicalGroup {
	return s.groups
}

// IsEmpty reports whether the set carries no groups at all
func (s *ConstraintSet) IsEmpty() bool {
	return len(s.groups) == 0
}

// HasStructureConstraint reports whether a structure constraint sits in an AND
// group. Only then is the response expected to start at its first point.
func (s *ConstraintSet) HasStructureConstraint() bool {
	return s.structure != nil && s.andScoped
}

// StructureTarget returns the point count of the structure constraint, in any group
func (s *ConstraintSet) StructureTarget() (int, bool) {
	if s.structure == nil {
		return 0, false
	}
	return s.target, true
}

func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must contain at least %s constraint", fe.Namespace(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
