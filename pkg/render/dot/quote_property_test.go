package dot

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// labelPieces mixes quotes, backslashes and DOT punctuation. No piece is a
// Graphviz escape letter, so every backslash in a generated label is literal.
var labelPieces = []string{"a", "b", " ", `"`, `\`, "\n", ";", "]", "[", "->", "{", "=", "é"}

func genLabel() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(labelPieces)-1)).Map(func(idx []int) string {
		var b strings.Builder
		for _, i := range idx {
			b.WriteString(labelPieces[i])
		}
		return b.String()
	})
}

func TestQuoteProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("quoted label is one DOT string that reads back unchanged", prop.ForAll(
		func(label string) bool {
			got, ok := unquote(quote(label))
			return ok && got == label
		},
		genLabel(),
	))

	properties.TestingRun(t)
}
