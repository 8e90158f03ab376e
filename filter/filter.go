// Package filter compiles expression-language filters over search results,
// for narrowing CLI output beyond what the API's search supports.
//
// Expressions evaluate to a boolean per product, e.g.:
//
//	Price < 2.0 and contains(Brand, "bio")
//	InStock and cheaperThan(1.50)
package filter

import (
	"strings"

	"github.com/expr-lang/expr"

	"github.com/fkarrer/knuspr/knuspr"
)

// ProductFilter reports whether a search result passes the filter.
type ProductFilter func(knuspr.SearchResult) bool

// Compile compiles an expression into an executable product filter. An
// empty expression matches everything.
func Compile(expression string) (ProductFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return func(knuspr.SearchResult) bool { return true }, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(staticEnvironment()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return func(product knuspr.SearchResult) bool {
		result, err := expr.Run(program, runtimeEnvironment(product))
		if err != nil {
			// A filter that errors on a product skips that product.
			return false
		}
		return result.(bool)
	}, nil
}

// Apply returns the products matching the filter, preserving order.
func Apply(products []knuspr.SearchResult, f ProductFilter) []knuspr.SearchResult {
	matched := make([]knuspr.SearchResult, 0, len(products))
	for _, p := range products {
		if f(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// staticEnvironment declares the helpers available at compile time.
func staticEnvironment() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	return env
}

func addHelperFunctions(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnvironment exposes the product's fields and product-bound
// helpers to the expression.
func runtimeEnvironment(product knuspr.SearchResult) map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)

	env["Product"] = product
	env["ID"] = product.ID
	env["Name"] = product.Name
	env["Brand"] = product.Brand
	env["Amount"] = product.Amount
	env["Price"] = product.Price.Float64()
	env["InStock"] = product.InStock
	env["Favourite"] = product.Favourite

	env["cheaperThan"] = func(limit float64) bool {
		return product.Price.Float64() < limit
	}
	env["brandIs"] = func(brand string) bool {
		return strings.EqualFold(product.Brand, brand)
	}

	return env
}
