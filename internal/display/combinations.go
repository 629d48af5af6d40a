// Package display renders generation results for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Noor7086/Obyyo-sub002/internal/generator"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// FormatCombination renders a combination as "01 07 22 45 60 | 13".
func FormatCombination(c lottery.Combination) string {
	parts := make([]string, len(c.Primary))
	for i, n := range c.Primary {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	s := strings.Join(parts, " ")
	if c.Secondary != nil {
		s += " | " + strconv.Itoa(*c.Secondary)
	}
	return s
}

// Result writes a header line followed by one numbered line per combination.
func Result(w io.Writer, result *generator.Result) error {
	g := result.Game
	header := fmt.Sprintf("%s: %d viable numbers", g.Name, result.ViablePrimaryCount)
	if g.HasSecondary() {
		name := g.SecondaryName
		if name == "" {
			name = "bonus numbers"
		}
		header += fmt.Sprintf(", %d viable %s", result.ViableSecondaryCount, name)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for i, c := range result.Combinations {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, FormatCombination(c)); err != nil {
			return err
		}
	}
	return nil
}
