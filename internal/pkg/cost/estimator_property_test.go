package cost

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: the estimated token count and cost are monotonically
// non-decreasing in the length of the input, for inputs of the same
// character composition.

// genAlphaString generates alphabetic strings with length between min and max.
func genAlphaString(minLen, maxLen int) gopter.Gen {
	return gen.IntRange(minLen, maxLen).FlatMap(func(length interface{}) gopter.Gen {
		n := length.(int)
		return gen.SliceOfN(n, gen.Rune()).Map(func(runes []rune) string {
			for i := range runes {
				runes[i] = 'a' + (runes[i] % 26)
			}
			return string(runes)
		})
	}, reflect.TypeOf(""))
}

func TestEstimate_Monotonic_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)
	est := NewEstimatorWithCounter("gpt-4o-mini", HeuristicCounter{})

	properties.Property("appending text never lowers the token count", prop.ForAll(
		func(base, suffix string) bool {
			shorter := est.Estimate(base)
			longer := est.Estimate(base + suffix)
			return longer.Tokens >= shorter.Tokens && longer.USD >= shorter.USD
		},
		genAlphaString(0, 2000),
		genAlphaString(0, 2000),
	))

	properties.Property("cost scales linearly with token count", prop.ForAll(
		func(text string) bool {
			e := est.Estimate(text)
			expected := float64(e.Tokens) / 1000.0 * InputPricePerKiloToken
			return e.USD == expected
		},
		genAlphaString(0, 4000),
	))

	properties.TestingRun(t)
}
