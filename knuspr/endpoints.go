package knuspr

// API paths, reverse-engineered from the knuspr.de web frontend. The API is
// not controlled by us; the mapper tolerates additive schema drift but path
// changes require updating these.
const (
	endpointLogin           = "/services/frontend-service/login"
	endpointLogout          = "/services/frontend-service/logout"
	endpointSearch          = "/services/frontend-service/search-metadata"
	endpointCart            = "/services/frontend-service/v2/cart"
	endpointTimeslots       = "/services/frontend-service/timeslots-api"
	endpointDeliveredOrders = "/api/v3/orders/delivered"
	endpointUpcomingOrders  = "/api/v3/orders/upcoming"
	endpointOrderDetail     = "/api/v3/orders/"
	endpointPremiumProfile  = "/api/v1/premium/profile"
)
