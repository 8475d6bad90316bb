package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		hasStructure bool
		want         string
	}{
		{
			name:         "numbered points get paragraph breaks",
			input:        "1. red\n2. green\n3. blue",
			hasStructure: true,
			want:         "1. red\n\n2. green\n\n3. blue",
		},
		{
			name:         "intro before first point is dropped",
			input:        "Here are the colors:\n1. red\n2. green",
			hasStructure: true,
			want:         "1. red\n\n2. green",
		},
		{
			name:         "intro kept without structure constraint",
			input:        "Here are the colors:\n1. red\n2. green",
			hasStructure: false,
			want:         "Here are the colors:\n\n1. red\n\n2. green",
		},
		{
			name:         "no marker keeps all content",
			input:        "Just prose. More prose.",
			hasStructure: true,
			want:         "Just prose.\n\nMore prose.",
		},
		{
			name:         "parenthetical numbering normalized",
			input:        "(1) red (2) green",
			hasStructure: true,
			want:         "1. red\n\n2. green",
		},
		{
			name:         "emphasis stripped",
			input:        "1. **Red** is *warm*",
			hasStructure: true,
			want:         "1. Red is warm",
		},
		{
			name:         "colon starts a new paragraph",
			input:        "Note: be careful",
			hasStructure: false,
			want:         "Note:\n\nbe careful",
		},
		{
			name:         "star bullets become dashes",
			input:        "Intro\n* a\n* b",
			hasStructure: false,
			want:         "Intro\n\n- a\n\n- b",
		},
		{
			name:         "blank line runs collapse",
			input:        "first\n\n\n   \n\nsecond\n",
			hasStructure: false,
			want:         "first\n\nsecond",
		},
		{
			name:         "decimals untouched",
			input:        "Pi is 3.14 roughly",
			hasStructure: false,
			want:         "Pi is 3.14 roughly",
		},
		{
			name:         "inline list drops intro under structure",
			input:        "Here are the colors: 1. red 2. green 3. blue",
			hasStructure: true,
			want:         "1. red\n\n2. green\n\n3. blue",
		},
		{
			name:         "adjacent markers each start a paragraph",
			input:        "Steps: 2. \n(3) go",
			hasStructure: false,
			want:         "Steps:\n\n2.\n\n3. go",
		},
		{
			name:         "stray star before a tab gap",
			input:        "End.*\tNext",
			hasStructure: false,
			want:         "End.\n\nNext",
		},
		{
			name:         "marker glued to a word stays inline",
			input:        " word2. 2. \n(3) word",
			hasStructure: true,
			want:         "2.\n\n3. word",
		},
		{
			name:         "empty input",
			input:        "",
			hasStructure: true,
			want:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.input, tt.hasStructure))
		})
	}
}

var idempotenceSeeds = []string{
	"1. red\n2. green\n3. blue",
	"Sure! Here you go:\n\n**1. Apples**: crunchy. Sweet.\n**2. Pears**: soft.",
	"(1) first (2) second (3) third",
	"Intro text.\n* one\n* two *three*",
	"1. 2. 3. x",
	"A list: - a - b",
	"No structure at all, just a sentence. And another: with a colon.",
	"   \n\n  leading and trailing   \n\n",
	"Version 2. Next step 10. Done",
	"End.*\tNext",
	" word2. 2. \n(3) word",
	": 2. \n(3) x",
	"(*1*) hidden marker",
	"a * 1. b",
	"5\v\n1. x",
	"\u00a01. a. b",
	"12 3. y 4.\t z",
}

func TestFormat_Idempotent(t *testing.T) {
	for _, input := range idempotenceSeeds {
		for _, hasStructure := range []bool{true, false} {
			once := Format(input, hasStructure)
			twice := Format(once, hasStructure)
			assert.Equal(t, once, twice, "input %q structure=%v", input, hasStructure)
		}
	}
}

func FuzzFormat(f *testing.F) {
	for _, seed := range idempotenceSeeds {
		f.Add(seed, true)
		f.Add(seed, false)
	}

	f.Fuzz(func(t *testing.T, input string, hasStructure bool) {
		once := Format(input, hasStructure)
		if twice := Format(once, hasStructure); twice != once {
			t.Fatalf("Format not stable for %q (structure=%v):\nonce:  %q\ntwice: %q", input, hasStructure, once, twice)
		}
	})
}
