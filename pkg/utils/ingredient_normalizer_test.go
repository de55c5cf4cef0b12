package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAliases() map[string]string {
	return map[string]string{
		"scallion":    "green onion",
		"scallions":   "green onion",
		"cilantro":    "coriander",
		"garbanzo":    "chickpea",
		"aubergine":   "eggplant",
		"courgette":   "zucchini",
		"corn starch": "cornstarch",
	}
}

func TestNewIngredientNormalizer_CleansAliasTable(t *testing.T) {
	n := NewIngredientNormalizer(map[string]string{
		"  Scallions ": "Green Onions",
		"tomato":       "tomato", // self mapping dropped
		"":             "nothing",
	})

	assert.Equal(t, "green onion", n.Normalize("scallion"))
	assert.Equal(t, "tomato", n.Normalize("tomato"))
}

func TestNewIngredientNormalizer_CollapsesAliasChains(t *testing.T) {
	n := NewIngredientNormalizer(map[string]string{
		"spring onion": "scallion",
		"scallion":     "green onion",
	})

	assert.Equal(t, "green onion", n.Normalize("spring onion"))
	assert.Equal(t, "green onion", n.Normalize("scallion"))
}

func TestNormalize_CasingAndWhitespace(t *testing.T) {
	n := NewIngredientNormalizer(nil)

	testCases := []struct {
		input    string
		expected string
	}{
		{"  Chicken  ", "chicken"},
		{"OLIVE   OIL", "olive oil"},
		{"garlic,", "garlic"},
		{"(butter)", "butter"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, n.Normalize(tc.input))
		})
	}
}

func TestNormalize_Depluralization(t *testing.T) {
	n := NewIngredientNormalizer(nil)

	testCases := []struct {
		input    string
		expected string
	}{
		{"tomatoes", "tomato"},
		{"potatoes", "potato"},
		{"berries", "berry"},
		{"cherries", "cherry"},
		{"eggs", "egg"},
		{"carrots", "carrot"},
		{"radishes", "radish"},
		{"peaches", "peach"},
		{"chickpeas", "chickpea"},
		{"brussels sprouts", "brussels sprout"},
		// protected endings stay as they are
		{"hummus", "hummus"},
		{"couscous", "couscous"},
		{"asparagus", "asparagus"},
		{"swiss chard", "swiss chard"},
		{"watercress", "watercress"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, n.Normalize(tc.input))
		})
	}
}

func TestNormalize_AliasResolution(t *testing.T) {
	n := NewIngredientNormalizer(testAliases())

	assert.Equal(t, "green onion", n.Normalize("Scallions"))
	assert.Equal(t, "coriander", n.Normalize("cilantro"))
	assert.Equal(t, "eggplant", n.Normalize(" Aubergine "))
	assert.Equal(t, "cornstarch", n.Normalize("Corn Starch"))
}

func TestNormalize_UnknownNameFallsBackToItself(t *testing.T) {
	n := NewIngredientNormalizer(testAliases())

	assert.Equal(t, "dragonfruit", n.Normalize("Dragonfruit"))
	assert.Equal(t, "yuzu kosho", n.Normalize("  Yuzu   Kosho "))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewIngredientNormalizer(testAliases())

	inputs := []string{
		"Scallions", "tomatoes", "BERRIES", "hummus", "olive  oil",
		"green onions", "dragonfruit", "brussels sprouts", "molasses",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		require.Equal(t, once, twice, "normalize must be idempotent for %q", input)
	}
}

func TestNormalizeAll_DedupesPreservingOrder(t *testing.T) {
	n := NewIngredientNormalizer(testAliases())

	result := n.NormalizeAll([]string{"Chicken", "scallions", "green onion", "", "chicken", "Rice"})
	assert.Equal(t, []string{"chicken", "green onion", "rice"}, result)
}
