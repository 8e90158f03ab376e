package knuspr

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		currency string
	}{
		{name: "bare float", input: `1.49`, want: "1.49"},
		{name: "bare integer", input: `3`, want: "3.00"},
		{name: "object", input: `{"full": 1.49, "currency": "EUR"}`, want: "1.49", currency: "EUR"},
		{name: "object without currency", input: `{"full": 12.9}`, want: "12.90"},
		{name: "null", input: `null`, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.Equal(t, tt.want, p.String())
			assert.Equal(t, tt.currency, p.Currency)
		})
	}
}

func TestPriceUnmarshalRejectsGarbage(t *testing.T) {
	var p Price
	require.Error(t, json.Unmarshal([]byte(`"not a price"`), &p))
}

func TestPriceMarshal(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`{"full": 1.49, "currency": "EUR"}`), &p))
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"full": "1.49", "currency": "EUR"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`2.99`), &p))
	out, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `"2.99"`, string(out))
}

func TestPriceFloat64(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`1.49`), &p))
	assert.InDelta(t, 1.49, p.Float64(), 0.0001)
	assert.False(t, p.IsZero())

	assert.True(t, Price{}.IsZero())
}

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "string", input: `"ord-001"`, want: "ord-001"},
		{name: "number", input: `1002`, want: "1002"},
		{name: "large number", input: `9007199254740993`, want: "9007199254740993"},
		{name: "null", input: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestFlexIDMarshal(t *testing.T) {
	// Numeric values round-trip back to JSON numbers, everything else
	// stays a string.
	out, err := json.Marshal(FlexID("1002"))
	require.NoError(t, err)
	assert.Equal(t, `1002`, string(out))

	out, err = json.Marshal(FlexID("ord-001"))
	require.NoError(t, err)
	assert.Equal(t, `"ord-001"`, string(out))

	out, err = json.Marshal(FlexID(""))
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
	assert.True(t, FlexID("").IsZero())
}

func TestSearchResultExtraRoundTrip(t *testing.T) {
	src := `{
		"productId": 1001,
		"productName": "Bio Vollmilch",
		"price": 1.49,
		"countryOfOrigin": "DE",
		"nutritionScore": {"grade": "B", "value": 2},
		"salesUnit": "piece"
	}`

	var r SearchResult
	require.NoError(t, json.Unmarshal([]byte(src), &r))
	assert.Contains(t, r.Extra, "countryOfOrigin")
	assert.Contains(t, r.Extra, "nutritionScore")
	assert.NotContains(t, r.Extra, "productId")

	out, err := json.Marshal(r)
	require.NoError(t, err)

	var got, want map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	require.NoError(t, json.Unmarshal([]byte(src), &want))
	for key := range want {
		if diff := cmp.Diff(want[key], got[key]); key != "price" && diff != "" {
			t.Errorf("field %q changed across round trip (-want +got):\n%s", key, diff)
		}
	}
}

func TestSearchResultInStockDefault(t *testing.T) {
	var r SearchResult
	require.NoError(t, json.Unmarshal([]byte(`{"productId": 1, "productName": "x"}`), &r))
	assert.True(t, r.InStock)

	require.NoError(t, json.Unmarshal([]byte(`{"productId": 1, "productName": "x", "inStock": false}`), &r))
	assert.False(t, r.InStock)
}

func TestSearchResultIsPromoted(t *testing.T) {
	var r SearchResult
	require.NoError(t, json.Unmarshal([]byte(`{"productId": 1, "productName": "x", "badge": [{"slug": "promoted"}]}`), &r))
	assert.True(t, r.IsPromoted())

	require.NoError(t, json.Unmarshal([]byte(`{"productId": 1, "productName": "x", "badge": [{"slug": "bio"}]}`), &r))
	assert.False(t, r.IsPromoted())
}

func TestDecodeRecordMissingRequiredField(t *testing.T) {
	var r SearchResult
	err := decodeRecord([]byte(`{"productName": "nameless"}`), &r)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "productId")

	err = decodeRecord([]byte(`{"productId": 7}`), &r)
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "productName")
}

func TestCartItemValidate(t *testing.T) {
	var item CartItem
	err := decodeRecord([]byte(`{"productId": 1, "productName": "x"}`), &item)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "orderFieldId")
}

func TestDeliverySlotAvailableDefault(t *testing.T) {
	var s DeliverySlot
	require.NoError(t, json.Unmarshal([]byte(`{"id": "slot-1"}`), &s))
	assert.True(t, s.IsAvailable)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "slot-2", "is_available": false}`), &s))
	assert.False(t, s.IsAvailable)
}

func TestOrderProductDisplayName(t *testing.T) {
	assert.Equal(t, "Milch", OrderProduct{ProductName: "Milch"}.DisplayName())
	assert.Equal(t, "Butter", OrderProduct{Name: "Butter"}.DisplayName())
	assert.Equal(t, "Unknown", OrderProduct{}.DisplayName())
}

func TestOrderHelpers(t *testing.T) {
	var order Order
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "ord-001",
		"totalPrice": 45.67,
		"price": 40.0,
		"deliveredAt": "2025-07-01T10:00:00Z",
		"createdAt": "2025-06-30T09:00:00Z",
		"items": [{"productId": 1, "name": "Milch", "quantity": 1}]
	}`), &order))

	require.NotNil(t, order.Total())
	assert.Equal(t, "45.67", order.Total().String())
	assert.Equal(t, "2025-07-01T10:00:00Z", order.Date())
	assert.Len(t, order.AllProducts(), 1)

	var fallback Order
	require.NoError(t, json.Unmarshal([]byte(`{"id": 5, "price": 12.5, "createdAt": "2025-06-01"}`), &fallback))
	assert.Equal(t, "12.50", fallback.Total().String())
	assert.Equal(t, "2025-06-01", fallback.Date())
	assert.Nil(t, Order{}.Total())
}

func TestPremiumProfileExtra(t *testing.T) {
	var p PremiumProfile
	require.NoError(t, json.Unmarshal([]byte(`{"is_premium": true, "valid_until": "2026-01-01", "tier": "plus"}`), &p))
	assert.True(t, p.IsPremium)
	assert.Contains(t, p.Extra, "tier")
}
