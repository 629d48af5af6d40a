package lottery

// ViablePool is the sampling universe of a game, ascending.
type ViablePool struct {
	Primary   []int `json:"primary"`
	Secondary []int `json:"secondary"`
}

// DerivePool returns the numbers of each range that are not listed as non-viable.
// Non-viable values outside the game's ranges remove nothing.
func DerivePool(g Game, nv NonViableSet) ViablePool {
	pool := ViablePool{
		Primary:   complement(g.PrimaryMin, g.PrimaryMax, nv.Primary),
		Secondary: []int{},
	}
	if g.HasSecondary() {
		pool.Secondary = complement(g.SecondaryMin, g.SecondaryMax, nv.Secondary)
	}
	return pool
}

func complement(lo, hi int, excluded []int) []int {
	skip := make(map[int]struct{}, len(excluded))
	for _, v := range excluded {
		skip[v] = struct{}{}
	}
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		if _, ok := skip[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// distinctCount returns the number of unique values in nums.
func distinctCount(nums []int) int {
	seen := make(map[int]struct{}, len(nums))
	for _, v := range nums {
		seen[v] = struct{}{}
	}
	return len(seen)
}
