package marketplace

import (
	"context"
	"time"
)

// Lookups return (zero, false, nil) when the row does not exist.

type ProfileRepository interface {
	CustomerByID(ctx context.Context, id int64) (Customer, bool, error)
	CustomerByEmail(ctx context.Context, email string) (Customer, bool, error)
	InsertCustomer(ctx context.Context, c *Customer) error
	ListCustomers(ctx context.Context) ([]Customer, error)

	MerchantByID(ctx context.Context, id int64) (Merchant, bool, error)
	MerchantByEmail(ctx context.Context, email string) (Merchant, bool, error)
	InsertMerchant(ctx context.Context, m *Merchant) error
	ListMerchants(ctx context.Context) ([]Merchant, error)

	DriverByID(ctx context.Context, id int64) (DriverProfile, bool, error)
	DriverByEmail(ctx context.Context, email string) (DriverProfile, bool, error)
	InsertDriver(ctx context.Context, d *DriverProfile) error
	UpdateDriver(ctx context.Context, d DriverProfile) error
	ListDrivers(ctx context.Context) ([]DriverProfile, error)
}

type ItemFilter struct {
	CategoryID int64
	MerchantID int64
}

type CatalogRepository interface {
	CategoryByID(ctx context.Context, id int64) (Category, bool, error)
	CategoryByName(ctx context.Context, name string) (Category, bool, error)
	InsertCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]Category, error)

	ItemByID(ctx context.Context, id int64) (Item, bool, error)
	// ItemByName returns the lowest id item with that name.
	ItemByName(ctx context.Context, name string) (Item, bool, error)
	// ItemForUpdate reads the item and holds its row lock until the transaction ends.
	ItemForUpdate(ctx context.Context, id int64) (Item, bool, error)
	// AdjustItemQuantity adds delta to the quantity unless the result would be negative.
	// applied is false when the floor guard refused the change.
	AdjustItemQuantity(ctx context.Context, id int64, delta int) (newQty int, applied bool, err error)
	InsertItem(ctx context.Context, it *Item) error
	UpdateItem(ctx context.Context, it Item) error
	DeleteItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context, f ItemFilter) ([]Item, error)
}

type OrderFilter struct {
	CustomerID int64
	MerchantID int64
	ItemID     int64
	Status     OrderStatus
}

type OrderRepository interface {
	OrderByID(ctx context.Context, id int64) (Order, bool, error)
	InsertOrder(ctx context.Context, o *Order) error
	UpdateOrder(ctx context.Context, o Order) error
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context, f OrderFilter) ([]Order, error)
}

type RideRequestFilter struct {
	RiderID int64
	Status  RideRequestStatus
}

type RideRequestRepository interface {
	RideRequestByID(ctx context.Context, id int64) (RideRequest, bool, error)
	InsertRideRequest(ctx context.Context, rr *RideRequest) error
	UpdateRideRequest(ctx context.Context, rr RideRequest) error
	DeleteRideRequest(ctx context.Context, id int64) error
	ListRideRequests(ctx context.Context, f RideRequestFilter) ([]RideRequest, error)
}

type TripFilter struct {
	DriverID int64
	RiderID  int64
	Status   TripStatus
}

type TripRepository interface {
	TripByID(ctx context.Context, id int64) (Trip, bool, error)
	InsertTrip(ctx context.Context, t *Trip) error
	UpdateTrip(ctx context.Context, t Trip) error
	DeleteTrip(ctx context.Context, id int64) error
	ListTrips(ctx context.Context, f TripFilter) ([]Trip, error)
}

type DeliveryFilter struct {
	DriverID int64
	TripID   int64
	Status   DeliveryStatus
}

type DeliveryRepository interface {
	DeliveryByID(ctx context.Context, id int64) (Delivery, bool, error)
	InsertDelivery(ctx context.Context, d *Delivery) error
	UpdateDelivery(ctx context.Context, d Delivery) error
	DeleteDelivery(ctx context.Context, id int64) error
	ListDeliveries(ctx context.Context, f DeliveryFilter) ([]Delivery, error)
}

type PaymentFilter struct {
	CustomerID int64
	MerchantID int64
	TripID     int64
	Method     PaymentMethod
	Status     PaymentStatus
}

type PaymentRepository interface {
	PaymentByID(ctx context.Context, id int64) (Payment, bool, error)
	// InsertPayment reports a Conflict when the trip already has a payment.
	InsertPayment(ctx context.Context, p *Payment) error
	UpdatePayment(ctx context.Context, p Payment) error
	DeletePayment(ctx context.Context, id int64) error
	ListPayments(ctx context.Context, f PaymentFilter) ([]Payment, error)
}

type ReviewFilter struct {
	DriverID   int64
	CustomerID int64
	TripID     int64
	// Limit > 0 returns the newest reviews first, at most Limit of them.
	Limit int
}

type ReviewRepository interface {
	ReviewByID(ctx context.Context, id int64) (Review, bool, error)
	InsertReview(ctx context.Context, r *Review) error
	UpdateReview(ctx context.Context, r Review) error
	DeleteReview(ctx context.Context, id int64) error
	ListReviews(ctx context.Context, f ReviewFilter) ([]Review, error)
	// DriverRating returns the mean rating and the number of reviews for a driver.
	DriverRating(ctx context.Context, driverID int64) (avg float64, count int, err error)
}

type ComplaintFilter struct {
	FromUserID    int64
	AgainstUserID int64
	TripID        int64
	IsResolved    *bool
}

type ComplaintRepository interface {
	ComplaintByID(ctx context.Context, id int64) (Complaint, bool, error)
	InsertComplaint(ctx context.Context, c *Complaint) error
	UpdateComplaint(ctx context.Context, c Complaint) error
	DeleteComplaint(ctx context.Context, id int64) error
	ListComplaints(ctx context.Context, f ComplaintFilter) ([]Complaint, error)
}

// Repository is the full set of row operations bound to one connection or transaction.
type Repository interface {
	ProfileRepository
	CatalogRepository
	OrderRepository
	RideRequestRepository
	TripRepository
	DeliveryRepository
	PaymentRepository
	ReviewRepository
	ComplaintRepository
}

// Store is the single consistency boundary shared by every component.
// InTx commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repo() Repository
	InTx(ctx context.Context, fn func(Repository) error) error
}

type Cache interface {
	// Get decodes the cached value into dst. ok is false on a miss.
	Get(ctx context.Context, key string, dst any) (ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Remove(ctx context.Context, keys ...string) error
}

// Group names used for role-wide notifications.
const GroupAdmins = "Admins"

// Notification event names.
const (
	EventNewTrip              = "ReceiveNewTrip"
	EventDeliveryUpdate       = "DeliveryUpdate"
	EventPaymentCreated       = "PaymentCreated"
	EventPaymentUpdate        = "PaymentUpdate"
	EventPaymentStatusUpdated = "PaymentStatusUpdated"
)

type Notifier interface {
	NotifyUser(ctx context.Context, identity, event string, payload any) error
	NotifyGroup(ctx context.Context, group, event string, payload any) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) NotifyUser(context.Context, string, string, any) error  { return nil }
func (NopNotifier) NotifyGroup(context.Context, string, string, any) error { return nil }
