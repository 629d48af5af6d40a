package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Games(t *testing.T) {
	games := DefaultCatalog().Games()
	require.Len(t, games, 5)

	ids := make([]GameID, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	assert.Equal(t, []GameID{Powerball, MegaMillions, LottoAmerica, Gopher5, Pick3}, ids)
}

func TestDefaultCatalog_Lookup(t *testing.T) {
	g, nv, err := DefaultCatalog().Lookup(Pick3)
	require.NoError(t, err)

	assert.Equal(t, 0, g.PrimaryMin)
	assert.Equal(t, 9, g.PrimaryMax)
	assert.Equal(t, 3, g.PickCount)
	assert.False(t, g.HasSecondary())
	assert.ElementsMatch(t, []int{0, 2, 4, 6, 8}, nv.Primary)
}

func TestDefaultCatalog_LookupUnknown(t *testing.T) {
	_, _, err := DefaultCatalog().Lookup("keno")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGame)
}

func TestStaticCatalog_LookupReturnsCopies(t *testing.T) {
	c := DefaultCatalog()
	_, nv, err := c.Lookup(Pick3)
	require.NoError(t, err)
	nv.Primary[0] = 7

	_, again, err := c.Lookup(Pick3)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Primary[0])
}

func TestNewStaticCatalog_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{
			name:  "missing id",
			entry: Entry{Game: Game{PrimaryMin: 1, PrimaryMax: 10, PickCount: 3}},
		},
		{
			name:  "pick larger than range",
			entry: Entry{Game: Game{ID: "tiny", PrimaryMin: 1, PrimaryMax: 3, PickCount: 5}},
		},
		{
			name: "non-viable out of range",
			entry: Entry{
				Game:      Game{ID: "g", PrimaryMin: 1, PrimaryMax: 10, PickCount: 3},
				NonViable: NonViableSet{Primary: []int{11}},
			},
		},
		{
			name: "secondary list without secondary draw",
			entry: Entry{
				Game:      Game{ID: "g", PrimaryMin: 1, PrimaryMax: 10, PickCount: 3},
				NonViable: NonViableSet{Secondary: []int{1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaticCatalog([]Entry{tt.entry})
			assert.Error(t, err)
		})
	}
}

func TestNewStaticCatalog_RejectsDuplicates(t *testing.T) {
	e := Entry{Game: Game{ID: "g", PrimaryMin: 1, PrimaryMax: 10, PickCount: 3}}
	_, err := NewStaticCatalog([]Entry{e, e})
	assert.Error(t, err)
}

func TestParseGameID(t *testing.T) {
	assert.Equal(t, Powerball, ParseGameID("  PowerBall "))
}

func TestGame_Ranges(t *testing.T) {
	g, ok := BuiltinGame(Powerball)
	require.True(t, ok)
	assert.Equal(t, 69, g.PrimaryRange())
	assert.Equal(t, 26, g.SecondaryRange())

	g, ok = BuiltinGame(Gopher5)
	require.True(t, ok)
	assert.Equal(t, 0, g.SecondaryRange())
}
