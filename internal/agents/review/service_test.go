package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Conceptual-Machines/constraint-api/internal/agents/constrained"
	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel answers the question with draft and any review prompt with review
type stubModel struct {
	mu     sync.Mutex
	draft  string
	review string
	seen   [][]models.Turn
}

func (m *stubModel) Generate(_ context.Context, turns []models.Turn, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, turns)

	last := turns[len(turns)-1].Text
	if strings.Contains(last, "STRENGTHS") {
		return m.review, nil
	}
	return m.draft, nil
}

func TestReview_CrossReviews(t *testing.T) {
	a := &stubModel{draft: "Intro text. 1. red 2. green", review: "STRENGTHS: short"}
	b := &stubModel{draft: "1. blue\n2. yellow", review: "WEAKNESSES: none"}
	svc := NewService(a, b)

	groups := []models.LogicalGroup{{
		Operator:    models.OperatorAnd,
		Constraints: []models.Constraint{{Kind: models.KindStructure, Value: "2"}},
	}}
	result, err := svc.Review(context.Background(), "Name two colors", groups)
	require.NoError(t, err)

	assert.Equal(t, "1. red\n\n2. green", result.ResponseA)
	assert.Equal(t, "1. blue\n\n2. yellow", result.ResponseB)
	assert.Equal(t, "WEAKNESSES:\n\nnone", result.AnalysisBOfA)
	assert.Equal(t, "STRENGTHS:\n\nshort", result.AnalysisAOfB)
	assert.True(t, result.HasConstraints)
	assert.NotEmpty(t, result.ID)

	// B reviewed A's raw draft inside B's own conversation.
	require.Len(t, b.seen, 2)
	reviewTurns := b.seen[1]
	require.Len(t, reviewTurns, 3)
	assert.Equal(t, "1. blue\n2. yellow", reviewTurns[1].Text)
	assert.Contains(t, reviewTurns[2].Text, "Intro text. 1. red 2. green")

	require.Len(t, a.seen, 2)
	assert.Contains(t, a.seen[1][2].Text, "1. blue\n2. yellow")
}

func TestReview_NoConstraintsKeepsIntro(t *testing.T) {
	a := &stubModel{draft: "Sure. Here you go", review: "ok"}
	b := &stubModel{draft: "Fine", review: "ok"}

	result, err := NewService(a, b).Review(context.Background(), "Hi", nil)
	require.NoError(t, err)

	assert.Equal(t, "Sure.\n\nHere you go", result.ResponseA)
	assert.False(t, result.HasConstraints)
}

func TestReview_EmptyQuestion(t *testing.T) {
	a := &stubModel{draft: "x"}
	b := &stubModel{draft: "y"}

	_, err := NewService(a, b).Review(context.Background(), "", nil)

	assert.ErrorIs(t, err, constrained.ErrEmptyQuestion)
	assert.Empty(t, a.seen)
	assert.Empty(t, b.seen)
}

func TestReview_InvalidConstraintSet(t *testing.T) {
	a := &stubModel{draft: "x"}
	b := &stubModel{draft: "y"}

	groups := []models.LogicalGroup{{Operator: "XOR", Constraints: []models.Constraint{{Kind: models.KindWordInclusion, Value: "a"}}}}
	_, err := NewService(a, b).Review(context.Background(), "Hi", groups)

	assert.ErrorIs(t, err, constraints.ErrInvalidConstraintSet)
}

func TestReview_ModelFailure(t *testing.T) {
	a := &stubModel{draft: "x", review: "ok"}
	failing := llm.GeneratorFunc(func(context.Context, []models.Turn, string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	_, err := NewService(a, failing).Review(context.Background(), "Hi", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrGenerationUnavailable)
}
