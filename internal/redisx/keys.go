package redisx

import (
	"fmt"
	"strings"
	"time"
)

// Cache keys. Lists are keyed by filter, single rows by id.
const (
	KeyAllOrders      = "all_orders"
	KeyOrder          = "order_%d"
	KeyOrdersCustomer = "orders_customer_%s"
	KeyOrdersMerchant = "orders_merchant_%s"

	KeyAllTrips = "AllTrips"
	KeyTrip     = "Trip_%d"

	KeyAllPayments      = "all_payments"
	KeyPayment          = "payment_%d"
	KeyPaymentsCustomer = "payments_customer_%s"
	KeyPaymentsMerchant = "payments_merchant_%s"

	KeyAllDeliveries = "all_deliveries"
	KeyDelivery      = "delivery_%d"

	// Dedup of consumed notifications: dedup:{service}:{notification id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLList  = 2 * time.Minute
	TTLEntry = 5 * time.Minute
	TTLDedup = 48 * time.Hour
)

// ByEmail formats a per-party list key. Emails are case-insensitive identities.
func ByEmail(format, email string) string {
	return fmt.Sprintf(format, strings.ToLower(email))
}
