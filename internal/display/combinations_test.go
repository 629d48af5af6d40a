package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noor7086/Obyyo-sub002/internal/generator"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

func TestFormatCombination(t *testing.T) {
	bonus := 13
	assert.Equal(t, "01 07 22 45 60 | 13", FormatCombination(lottery.Combination{
		Primary:   []int{1, 7, 22, 45, 60},
		Secondary: &bonus,
	}))
	assert.Equal(t, "03 09 10", FormatCombination(lottery.Combination{Primary: []int{3, 9, 10}}))
}

func TestResult(t *testing.T) {
	game := lottery.Game{ID: "demo", Name: "Demo", PrimaryMin: 1, PrimaryMax: 10, PickCount: 2}
	result := &generator.Result{
		Game:               game,
		ViablePrimaryCount: 8,
		Combinations: []lottery.Combination{
			{Primary: []int{2, 5}},
			{Primary: []int{3, 10}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Result(&buf, result))
	assert.Equal(t, "Demo: 8 viable numbers\n  1. 02 05\n  2. 03 10\n", buf.String())
}

func TestResult_Secondary(t *testing.T) {
	game := lottery.Game{ID: "demo", Name: "Demo", PrimaryMin: 1, PrimaryMax: 10, PickCount: 1,
		SecondaryMin: 1, SecondaryMax: 5, SecondaryName: "Star Ball"}
	bonus := 2
	result := &generator.Result{
		Game:                 game,
		ViablePrimaryCount:   9,
		ViableSecondaryCount: 4,
		Combinations:         []lottery.Combination{{Primary: []int{7}, Secondary: &bonus}},
	}

	var buf bytes.Buffer
	require.NoError(t, Result(&buf, result))
	assert.Equal(t, "Demo: 9 viable numbers, 4 viable Star Ball\n  1. 07 | 2\n", buf.String())
}
