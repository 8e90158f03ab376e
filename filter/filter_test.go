package filter

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkarrer/knuspr/knuspr"
)

func product(name, brand string, price float64, inStock bool) knuspr.SearchResult {
	return knuspr.SearchResult{
		ID:      gofakeit.Int64(),
		Name:    name,
		Brand:   brand,
		Price:   knuspr.Price{Amount: decimal.NewFromFloat(price)},
		InStock: inStock,
	}
}

func testProducts() []knuspr.SearchResult {
	return []knuspr.SearchResult{
		product("Bio Vollmilch 3,5%", "Berchtesgadener Land", 1.49, true),
		product("Haferdrink Barista", "Oatly", 2.29, true),
		product("Frische Vollmilch", "Knuspr", 1.19, false),
	}
}

func TestCompileAndApply(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantNames  []string
	}{
		{
			name:       "price comparison",
			expression: "Price < 2.0",
			wantNames:  []string{"Bio Vollmilch 3,5%", "Frische Vollmilch"},
		},
		{
			name:       "stock and price",
			expression: "InStock and cheaperThan(2.0)",
			wantNames:  []string{"Bio Vollmilch 3,5%"},
		},
		{
			name:       "name contains",
			expression: `contains(Name, "vollmilch")`,
			wantNames:  []string{"Bio Vollmilch 3,5%", "Frische Vollmilch"},
		},
		{
			name:       "brand match is case-insensitive",
			expression: `brandIs("OATLY")`,
			wantNames:  []string{"Haferdrink Barista"},
		},
		{
			name:       "prefix helper",
			expression: `startsWith(Name, "bio")`,
			wantNames:  []string{"Bio Vollmilch 3,5%"},
		},
		{
			name:       "no matches",
			expression: "Price > 100",
			wantNames:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			matched := Apply(testProducts(), f)
			names := make([]string, 0, len(matched))
			for _, p := range matched {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestCompileEmptyExpressionMatchesAll(t *testing.T) {
	for _, expression := range []string{"", "   ", "\t"} {
		f, err := Compile(expression)
		require.NoError(t, err)
		assert.Len(t, Apply(testProducts(), f), 3)
	}
}

func TestCompileInvalidExpression(t *testing.T) {
	for _, expression := range []string{"Price <", "((", "Name ~!~ 3"} {
		_, err := Compile(expression)
		var compErr *CompilationError
		require.ErrorAs(t, err, &compErr, "expression %q", expression)
		assert.Equal(t, expression, compErr.Expression)
		assert.NotNil(t, compErr.Unwrap())
	}
}

func TestCompileNonBooleanExpression(t *testing.T) {
	_, err := Compile("1 + 2")
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
}

func TestFilterRuntimeErrorSkipsProduct(t *testing.T) {
	// Undefined variables compile but fail at run time; affected products
	// are dropped rather than aborting the whole listing.
	f, err := Compile(`NoSuchField > 3`)
	require.NoError(t, err)
	assert.Empty(t, Apply(testProducts(), f))
}

func TestApplyPreservesOrder(t *testing.T) {
	f, err := Compile("Price < 3.0")
	require.NoError(t, err)

	matched := Apply(testProducts(), f)
	require.Len(t, matched, 3)
	assert.Equal(t, "Bio Vollmilch 3,5%", matched[0].Name)
	assert.Equal(t, "Haferdrink Barista", matched[1].Name)
	assert.Equal(t, "Frische Vollmilch", matched[2].Name)
}
