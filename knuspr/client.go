package knuspr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Client wraps the knuspr.de frontend API. Operations require an open
// session: either bracket them with Open/Close or use Run, which logs in,
// invokes the callback, and always logs out once on every exit path.
//
// A Client is intended for a single logical call stream. Its rate limiter
// is safe under concurrent use, but callers that need real concurrency
// should hold one Client each.
type Client struct {
	baseURL string
	opts    *clientOptions

	limiter   *rateLimiter
	auth      *authHandler
	transport *transport
}

// NewClient creates a client for the given account. The client is
// LoggedOut until Open is called.
func NewClient(baseURL, username, password string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Client{
		baseURL: baseURL,
		opts:    o,
		limiter: newRateLimiter(o.minInterval),
		auth: &authHandler{
			username: username,
			password: password,
			logger:   o.logger,
		},
	}, nil
}

// Open establishes the HTTP session and logs in.
func (c *Client) Open(ctx context.Context) error {
	if c.transport == nil {
		t, err := newTransport(c.baseURL, c.opts, c.limiter, c.opts.logger)
		if err != nil {
			return err
		}
		c.transport = t
	}
	_, err := c.auth.login(ctx, c.transport)
	return err
}

// Close logs out best-effort and discards the session. It never fails;
// errors during logout are logged and swallowed so scoped teardown always
// completes.
func (c *Client) Close(ctx context.Context) {
	if c.transport == nil {
		return
	}
	c.auth.logout(ctx, c.transport)
	c.transport = nil
}

// Run opens the session, invokes fn, and closes the session exactly once
// whether fn succeeds or fails.
func (c *Client) Run(ctx context.Context, fn func(ctx context.Context, c *Client) error) error {
	if err := c.Open(ctx); err != nil {
		return err
	}
	defer c.Close(ctx)
	return fn(ctx, c)
}

// Session returns the current session state.
func (c *Client) Session() Session {
	return c.auth.session()
}

// request gates every operation on an open session and reacts to
// authentication failures by invalidating the session state.
func (c *Client) request(ctx context.Context, method, path string, opts requestOptions) (json.RawMessage, error) {
	if c.transport == nil || !c.auth.authenticated {
		return nil, ErrNotLoggedIn
	}
	data, err := c.transport.request(ctx, method, path, opts)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			c.auth.invalidate()
		}
		return nil, err
	}
	return data, nil
}

// SearchProducts searches the catalog. Entries flagged as promoted
// (sponsored) are dropped before the result is truncated to limit.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}

	params := url.Values{
		"search":     {query},
		"offset":     {"0"},
		"limit":      {strconv.Itoa(limit)},
		"companyId":  {"1"},
		"filterData": {`{"filters":[]}`},
		"canCorrect": {"true"},
	}
	data, err := c.request(ctx, http.MethodGet, endpointSearch, requestOptions{query: params})
	if err != nil {
		return nil, err
	}

	var payload struct {
		ProductList []json.RawMessage `json:"productList"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, schemaError(err)
	}

	results := make([]SearchResult, 0, len(payload.ProductList))
	for _, raw := range payload.ProductList {
		var r SearchResult
		if err := decodeRecord(raw, &r); err != nil {
			return nil, err
		}
		if r.IsPromoted() {
			continue
		}
		results = append(results, r)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// AddToCart adds quantity units of a product to the cart.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if productID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", productID)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	payload := map[string]any{
		"actionId":  nil,
		"productId": productID,
		"quantity":  quantity,
		"recipeId":  nil,
		"source":    "true:Search Results",
	}
	_, err := c.request(ctx, http.MethodPost, endpointCart, requestOptions{body: payload})
	return err
}

// GetCart fetches the current cart contents as a computed aggregate.
// Depending on frontend version the API keys items by product id or sends
// a plain list; both shapes are accepted.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	data, err := c.request(ctx, http.MethodGet, endpointCart, requestOptions{})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items        json.RawMessage `json:"items"`
		TotalPrice   Price           `json:"totalPrice"`
		CanMakeOrder bool            `json:"canMakeOrder"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, schemaError(err)
	}

	items, err := decodeCartItems(payload.Items)
	if err != nil {
		return nil, err
	}

	return &Cart{
		TotalPrice:   payload.TotalPrice,
		TotalItems:   len(items),
		CanMakeOrder: payload.CanMakeOrder,
		Items:        items,
	}, nil
}

func decodeCartItems(raw json.RawMessage) ([]CartItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, schemaError(err)
		}
		items := make([]CartItem, 0, len(list))
		for _, entry := range list {
			var item CartItem
			if err := decodeRecord(entry, &item); err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, schemaError(err)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]CartItem, 0, len(ids))
	for _, id := range ids {
		var item CartItem
		if err := json.Unmarshal(byID[id], &item); err != nil {
			return nil, schemaError(err)
		}
		// The map key is the product id.
		if item.ProductID == 0 {
			pid, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return nil, schemaError(fmt.Errorf("cart item key %q is not a product id", id))
			}
			item.ProductID = pid
		}
		if err := item.validate(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// RemoveFromCart removes the line item identified by its order-field id
// (see CartItem.OrderFieldID, not the product id). An unknown id reports
// false rather than an error.
func (c *Client) RemoveFromCart(ctx context.Context, orderFieldID string) (bool, error) {
	if orderFieldID == "" {
		return false, fmt.Errorf("order field id must not be empty")
	}

	params := url.Values{"orderFieldId": {orderFieldID}}
	_, err := c.request(ctx, http.MethodDelete, endpointCart, requestOptions{query: params})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetDeliverySlots fetches the available delivery time windows for the
// logged-in account's address.
func (c *Client) GetDeliverySlots(ctx context.Context) ([]DeliverySlot, error) {
	session := c.auth.session()
	if session.UserID == 0 || session.AddressID == 0 {
		return nil, fmt.Errorf("%w: user and address ids missing", ErrNotLoggedIn)
	}

	params := url.Values{
		"userId":                 {strconv.FormatInt(session.UserID, 10)},
		"addressId":              {strconv.FormatInt(session.AddressID, 10)},
		"reasonableDeliveryTime": {"true"},
	}
	data, err := c.request(ctx, http.MethodGet, endpointTimeslots, requestOptions{query: params})
	if err != nil {
		return nil, err
	}

	raws, err := listPayload(data, "slots")
	if err != nil {
		return nil, err
	}
	slots := make([]DeliverySlot, 0, len(raws))
	for _, raw := range raws {
		var s DeliverySlot
		if err := decodeRecord(raw, &s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// GetOrderHistory fetches delivered orders, newest first.
func (c *Client) GetOrderHistory(ctx context.Context, limit, offset int) ([]Order, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative, got %d", offset)
	}

	params := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	data, err := c.request(ctx, http.MethodGet, endpointDeliveredOrders, requestOptions{query: params})
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

// GetOrderDetail fetches a single order with its line items.
func (c *Client) GetOrderDetail(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id must not be empty")
	}

	data, err := c.request(ctx, http.MethodGet, endpointOrderDetail+url.PathEscape(orderID), requestOptions{})
	if err != nil {
		return nil, err
	}

	var order Order
	if err := decodeRecord(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUpcomingOrders fetches orders that have not been delivered yet.
func (c *Client) GetUpcomingOrders(ctx context.Context) ([]Order, error) {
	data, err := c.request(ctx, http.MethodGet, endpointUpcomingOrders, requestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

func decodeOrders(data json.RawMessage) ([]Order, error) {
	raws, err := listPayload(data, "orders")
	if err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(raws))
	for _, raw := range raws {
		var o Order
		if err := decodeRecord(raw, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// listPayload accepts either a bare JSON array or an object wrapping the
// array under the given key.
func listPayload(data json.RawMessage, key string) ([]json.RawMessage, error) {
	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, schemaError(err)
		}
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, schemaError(err)
	}
	inner, ok := wrapped[key]
	if !ok {
		return nil, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, schemaError(err)
	}
	return list, nil
}

// GetPremiumInfo fetches the premium subscription state.
func (c *Client) GetPremiumInfo(ctx context.Context) (*PremiumProfile, error) {
	data, err := c.request(ctx, http.MethodGet, endpointPremiumProfile, requestOptions{})
	if err != nil {
		return nil, err
	}

	var profile PremiumProfile
	if err := decodeRecord(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetAccountData aggregates identity, premium, and cart state into one
// view. The sub-calls run in a group that still passes the rate-limiter
// gate one at a time; if any of them fails the whole operation fails and
// no partial aggregate is returned.
func (c *Client) GetAccountData(ctx context.Context) (*AccountData, error) {
	session := c.auth.session()
	if !session.LoggedIn {
		return nil, ErrNotLoggedIn
	}

	var (
		premium *PremiumProfile
		cart    *Cart
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.GetPremiumInfo(gctx)
		if err != nil {
			return err
		}
		premium = p
		return nil
	})
	g.Go(func() error {
		ct, err := c.GetCart(gctx)
		if err != nil {
			return err
		}
		cart = ct
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &AccountData{
		UserID:    session.UserID,
		AddressID: session.AddressID,
		Premium:   premium,
		Cart:      cart,
	}, nil
}
