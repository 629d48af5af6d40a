package lottery

// builtinEntries are the games shipped with the service. The non-viable lists
// are hand-curated constants, not the output of any model.
var builtinEntries = []Entry{
	{
		Game: Game{
			ID: Powerball, Name: "Powerball",
			PrimaryMin: 1, PrimaryMax: 69, PickCount: 5,
			SecondaryMin: 1, SecondaryMax: 26, SecondaryName: "Powerball",
		},
		NonViable: NonViableSet{
			Primary:   []int{2, 9, 13, 26, 29, 34, 41, 49, 51, 57, 60, 65},
			Secondary: []int{3, 7, 16, 22},
		},
	},
	{
		Game: Game{
			ID: MegaMillions, Name: "Mega Millions",
			PrimaryMin: 1, PrimaryMax: 70, PickCount: 5,
			SecondaryMin: 1, SecondaryMax: 25, SecondaryName: "Mega Ball",
		},
		NonViable: NonViableSet{
			Primary:   []int{1, 6, 12, 19, 23, 33, 38, 45, 52, 59, 63, 68},
			Secondary: []int{5, 11, 18, 24},
		},
	},
	{
		Game: Game{
			ID: LottoAmerica, Name: "Lotto America",
			PrimaryMin: 1, PrimaryMax: 52, PickCount: 5,
			SecondaryMin: 1, SecondaryMax: 10, SecondaryName: "Star Ball",
		},
		NonViable: NonViableSet{
			Primary:   []int{4, 11, 17, 25, 30, 38, 44, 50},
			Secondary: []int{2, 9},
		},
	},
	{
		Game: Game{
			ID: Gopher5, Name: "Gopher 5",
			PrimaryMin: 1, PrimaryMax: 47, PickCount: 5,
		},
		NonViable: NonViableSet{Primary: []int{}},
	},
	{
		Game: Game{
			ID: Pick3, Name: "Pick 3",
			PrimaryMin: 0, PrimaryMax: 9, PickCount: 3,
		},
		NonViable: NonViableSet{Primary: []int{0, 2, 4, 6, 8}},
	},
}

var defaultCatalog = mustStaticCatalog(builtinEntries)

func mustStaticCatalog(entries []Entry) *StaticCatalog {
	c, err := NewStaticCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *StaticCatalog {
	return defaultCatalog
}

// BuiltinGame returns the built-in rules for id.
func BuiltinGame(id GameID) (Game, bool) {
	g, _, err := defaultCatalog.Lookup(id)
	return g, err == nil
}
