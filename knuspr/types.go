package knuspr

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount. The API is inconsistent about the shape: some
// endpoints send a bare number, others an object like
// {"full": 1.49, "currency": "EUR"}. Both decode into the same value.
type Price struct {
	Amount   decimal.Decimal
	Currency string
}

type priceObject struct {
	Full     decimal.Decimal `json:"full"`
	Currency string          `json:"currency"`
}

func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Price{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj priceObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*p = Price{Amount: obj.Full, Currency: obj.Currency}
		return nil
	}
	var amount decimal.Decimal
	if err := json.Unmarshal(data, &amount); err != nil {
		return err
	}
	*p = Price{Amount: amount}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Currency != "" {
		return json.Marshal(priceObject{Full: p.Amount, Currency: p.Currency})
	}
	return json.Marshal(p.Amount)
}

// Float64 returns the amount as a float, losing precision beyond what a
// shelf price needs. Display formatting should prefer String.
func (p Price) Float64() float64 {
	f, _ := p.Amount.Float64()
	return f
}

// String formats the amount with two decimal places, e.g. "1.49".
func (p Price) String() string {
	return p.Amount.StringFixed(2)
}

// IsZero reports whether the price is unset or zero.
func (p Price) IsZero() bool {
	return p.Amount.IsZero()
}

// FlexID is an identifier the API sends either as a JSON string or as a
// number, depending on the endpoint. It round-trips in its numeric form
// when the value is purely numeric.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id FlexID) String() string { return string(id) }

// IsZero reports whether the identifier is absent.
func (id FlexID) IsZero() bool { return id == "" }

// Badge is a marker the API attaches to search results, e.g. promoted
// (sponsored) placements.
type Badge struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (b *Badge) UnmarshalJSON(data []byte) error {
	type alias Badge
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Badge(a)
	return captureExtra(data, b)
}

func (b Badge) MarshalJSON() ([]byte, error) {
	type alias Badge
	return marshalWithExtra(alias(b), b.Extra)
}

// SearchResult is an immutable snapshot of a catalog entry returned by
// product search.
type SearchResult struct {
	ID        int64   `json:"productId"`
	Name      string  `json:"productName"`
	Price     Price   `json:"price"`
	Brand     string  `json:"brand"`
	Amount    string  `json:"textualAmount"`
	Badges    []Badge `json:"badge"`
	Favourite bool    `json:"favourite"`
	InStock   bool    `json:"inStock"`
	ImagePath string  `json:"imgPath"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	type alias SearchResult
	a := alias{InStock: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = SearchResult(a)
	return captureExtra(data, r)
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	type alias SearchResult
	return marshalWithExtra(alias(r), r.Extra)
}

func (r SearchResult) validate() error {
	if r.ID == 0 {
		return missingField("productId")
	}
	if r.Name == "" {
		return missingField("productName")
	}
	return nil
}

// IsPromoted reports whether the entry carries the promoted (sponsored)
// badge. Promoted entries are excluded from search results by policy.
func (r SearchResult) IsPromoted() bool {
	for _, b := range r.Badges {
		if b.Slug == "promoted" {
			return true
		}
	}
	return false
}

// CartItem is a line item in the cart. OrderFieldID, not ProductID, is the
// identifier required to remove the item again.
type CartItem struct {
	OrderFieldID        string `json:"orderFieldId"`
	ProductID           int64  `json:"productId"`
	ProductName         string `json:"productName"`
	Quantity            int    `json:"quantity"`
	Price               Price  `json:"price"`
	PrimaryCategoryName string `json:"primaryCategoryName"`
	Brand               string `json:"brand"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (c *CartItem) UnmarshalJSON(data []byte) error {
	type alias CartItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = CartItem(a)
	return captureExtra(data, c)
}

func (c CartItem) MarshalJSON() ([]byte, error) {
	type alias CartItem
	return marshalWithExtra(alias(c), c.Extra)
}

func (c CartItem) validate() error {
	if c.OrderFieldID == "" {
		return missingField("orderFieldId")
	}
	if c.ProductID == 0 {
		return missingField("productId")
	}
	return nil
}

// Cart is a computed aggregate of the current cart state. It is rebuilt on
// every GetCart call, never mutated in place.
type Cart struct {
	TotalPrice   Price      `json:"totalPrice"`
	TotalItems   int        `json:"totalItems"`
	CanMakeOrder bool       `json:"canMakeOrder"`
	Items        []CartItem `json:"items"`
}

// OrderProduct is a line item within a past or upcoming order.
type OrderProduct struct {
	ProductID   FlexID `json:"productId"`
	ProductName string `json:"productName"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       *Price `json:"price"`
	TotalPrice  *Price `json:"totalPrice"`
	Brand       string `json:"brand"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (p *OrderProduct) UnmarshalJSON(data []byte) error {
	type alias OrderProduct
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = OrderProduct(a)
	return captureExtra(data, p)
}

func (p OrderProduct) MarshalJSON() ([]byte, error) {
	type alias OrderProduct
	return marshalWithExtra(alias(p), p.Extra)
}

// DisplayName picks whichever name field the endpoint populated.
func (p OrderProduct) DisplayName() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	if p.Name != "" {
		return p.Name
	}
	return "Unknown"
}

// Order is a snapshot of a past or upcoming purchase.
type Order struct {
	ID           FlexID         `json:"id"`
	OrderNumber  string         `json:"orderNumber"`
	Status       string         `json:"status"`
	CreatedAt    string         `json:"createdAt"`
	DeliveredAt  string         `json:"deliveredAt"`
	DeliveryDate string         `json:"deliveryDate"`
	TotalPrice   *Price         `json:"totalPrice"`
	Price        *Price         `json:"price"`
	Products     []OrderProduct `json:"products"`
	Items        []OrderProduct `json:"items"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Order(a)
	return captureExtra(data, o)
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return marshalWithExtra(alias(o), o.Extra)
}

// AllProducts returns the order's line items regardless of which of the two
// list fields the endpoint used.
func (o Order) AllProducts() []OrderProduct {
	if len(o.Products) > 0 {
		return o.Products
	}
	return o.Items
}

// Total returns the order total, preferring totalPrice over price. Nil when
// the endpoint sent neither.
func (o Order) Total() *Price {
	if o.TotalPrice != nil {
		return o.TotalPrice
	}
	return o.Price
}

// Date returns the most meaningful date the endpoint provided.
func (o Order) Date() string {
	switch {
	case o.DeliveredAt != "":
		return o.DeliveredAt
	case o.DeliveryDate != "":
		return o.DeliveryDate
	default:
		return o.CreatedAt
	}
}

// DeliverySlot is a delivery time window with availability and price.
type DeliverySlot struct {
	ID          FlexID `json:"id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsAvailable bool   `json:"is_available"`
	Price       *Price `json:"price"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (s *DeliverySlot) UnmarshalJSON(data []byte) error {
	type alias DeliverySlot
	a := alias{IsAvailable: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = DeliverySlot(a)
	return captureExtra(data, s)
}

func (s DeliverySlot) MarshalJSON() ([]byte, error) {
	type alias DeliverySlot
	return marshalWithExtra(alias(s), s.Extra)
}

// PremiumProfile describes the premium subscription state of the account.
type PremiumProfile struct {
	IsPremium  bool   `json:"is_premium"`
	ValidUntil string `json:"valid_until"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (p *PremiumProfile) UnmarshalJSON(data []byte) error {
	type alias PremiumProfile
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PremiumProfile(a)
	return captureExtra(data, p)
}

func (p PremiumProfile) MarshalJSON() ([]byte, error) {
	type alias PremiumProfile
	return marshalWithExtra(alias(p), p.Extra)
}

// AccountData aggregates identity, premium, and cart state. It has no
// independent lifecycle and is recomputed on every call.
type AccountData struct {
	UserID    int64           `json:"userId"`
	AddressID int64           `json:"addressId"`
	Premium   *PremiumProfile `json:"premium"`
	Cart      *Cart           `json:"cart"`
}

// Session is the authenticated state obtained via login.
type Session struct {
	UserID    int64
	AddressID int64
	LoggedIn  bool
}
