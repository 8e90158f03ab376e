// Package knuspr provides a client for the knuspr.de grocery-delivery web
// API: product search, cart management, delivery slots, order history, and
// account info behind cookie-based session authentication.
//
// The API is reverse-engineered and uncontrolled, so the response mapper
// tolerates additive schema drift: unrecognized payload fields are kept on
// each record's Extra map instead of being dropped.
//
// # Usage
//
//	client, err := knuspr.NewClient(
//		"https://www.knuspr.de",
//		"user@example.com",
//		"secret",
//		knuspr.WithMinRequestInterval(100*time.Millisecond),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.Run(ctx, func(ctx context.Context, c *knuspr.Client) error {
//		results, err := c.SearchProducts(ctx, "Milch", 10)
//		if err != nil {
//			return err
//		}
//		for _, r := range results {
//			fmt.Printf("%d %s %s\n", r.ID, r.Name, r.Price)
//		}
//		return nil
//	})
//
// Run logs in before the callback and always logs out afterwards, whether
// the callback succeeds or fails. Logout is best-effort and never fails.
//
// # Rate limiting
//
// All calls of one client pass a single gate that enforces a minimum
// interval between the starts of consecutive requests. There is no
// automatic retry; on RateLimitError, raise the interval.
//
// # Error handling
//
// Operations fail with one of four types: AuthError (login failure or a
// session invalidated mid-use), RateLimitError (HTTP 429), NetworkError
// (connection or timeout failure), and APIError (any other non-success
// status or an unexpected response shape). Match them with errors.As, or
// broadly with IsClientError.
package knuspr
