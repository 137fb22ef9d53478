package marketplace

type transitions[S ~string] map[S]map[S]bool

func (t transitions[S]) allows(from, to S) bool {
	return t[from][to]
}

func (t transitions[S]) known(s S) bool {
	_, ok := t[s]
	return ok
}

type TripStatus string

const (
	TripRequested TripStatus = "REQUESTED"
	TripOngoing   TripStatus = "ONGOING"
	TripCompleted TripStatus = "COMPLETED"
	TripCanceled  TripStatus = "CANCELED"
)

var tripNext = transitions[TripStatus]{
	TripRequested: {TripOngoing: true, TripCanceled: true},
	TripOngoing:   {TripCompleted: true, TripCanceled: true},
	TripCompleted: {},
	TripCanceled:  {},
}

func (s TripStatus) Valid() bool { return tripNext.known(s) }

func CanTransitionTrip(from, to TripStatus) bool {
	return tripNext.allows(from, to)
}

type RideRequestStatus string

const (
	RidePending   RideRequestStatus = "PENDING"
	RideAccepted  RideRequestStatus = "ACCEPTED"
	RideRejected  RideRequestStatus = "REJECTED"
	RideCompleted RideRequestStatus = "COMPLETED"
)

// Pending is the only state that can go to Accepted. Rejected and
// Completed are terminal.
var rideNext = transitions[RideRequestStatus]{
	RidePending:   {RideAccepted: true, RideRejected: true},
	RideAccepted:  {RideRejected: true, RideCompleted: true},
	RideRejected:  {},
	RideCompleted: {},
}

func (s RideRequestStatus) Valid() bool { return rideNext.known(s) }

func CanTransitionRide(from, to RideRequestStatus) bool {
	return rideNext.allows(from, to)
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCanceled  DeliveryStatus = "CANCELED"
)

var deliveryNext = transitions[DeliveryStatus]{
	DeliveryPending:   {DeliveryPickedUp: true, DeliveryCanceled: true},
	DeliveryPickedUp:  {DeliveryInTransit: true, DeliveryCanceled: true},
	DeliveryInTransit: {DeliveryDelivered: true, DeliveryCanceled: true},
	DeliveryDelivered: {},
	DeliveryCanceled:  {},
}

func (s DeliveryStatus) Valid() bool { return deliveryNext.known(s) }

func CanTransitionDelivery(from, to DeliveryStatus) bool {
	return deliveryNext.allows(from, to)
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCanceled  OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCanceled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentWallet     PaymentMethod = "WALLET"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentWallet:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type DriverStatus string

const (
	DriverActive   DriverStatus = "ACTIVE"
	DriverInactive DriverStatus = "INACTIVE"
	DriverBusy     DriverStatus = "BUSY"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverActive, DriverInactive, DriverBusy:
		return true
	}
	return false
}

// Rating is a one to five star score.
type Rating int

const (
	OneStar Rating = iota + 1
	TwoStars
	ThreeStars
	FourStars
	FiveStars
)

func (r Rating) Valid() bool { return r >= OneStar && r <= FiveStars }
