package marketplace

import (
	"github.com/shopspring/decimal"
	"time"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Customer struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
}

type Merchant struct {
	ID       int64      `json:"id"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Address  string     `json:"address,omitempty"`
	Location Coordinate `json:"location"`
}

type DriverProfile struct {
	ID          int64        `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	VehicleType string       `json:"vehicle_type"`
	PlateNumber string       `json:"plate_number"`
	Status      DriverStatus `json:"status"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID         int64           `json:"id"`
	CategoryID int64           `json:"category_id"`
	MerchantID int64           `json:"merchant_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

type Order struct {
	ID            int64         `json:"id"`
	CustomerID    int64         `json:"customer_id"`
	MerchantID    int64         `json:"merchant_id"`
	ItemID        int64         `json:"item_id"`
	TotalAmount   int           `json:"total_amount"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	OrderDate     time.Time     `json:"order_date"`
}

type RideRequest struct {
	ID          int64             `json:"id"`
	RiderID     int64             `json:"rider_id"`
	Pickup      Coordinate        `json:"pickup"`
	Destination Coordinate        `json:"destination"`
	Status      RideRequestStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Trip is the aggregate every delivery, payment, review and complaint points at.
// At most one of RideRequestID and OrderID is set.
type Trip struct {
	ID            int64           `json:"id"`
	DriverID      int64           `json:"driver_id"`
	RiderID       int64           `json:"rider_id"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	DistanceKm    float64         `json:"distance_km"`
	DurationMin   int             `json:"duration_min"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Status        TripStatus      `json:"status"`
	CarImagePath  string          `json:"car_image_path,omitempty"`
	RideRequestID *int64          `json:"ride_request_id,omitempty"`
	OrderID       *int64          `json:"order_id,omitempty"`
}

type Delivery struct {
	ID       int64          `json:"id"`
	DriverID int64          `json:"driver_id"`
	TripID   int64          `json:"trip_id"`
	Pickup   Coordinate     `json:"pickup"`
	Dropoff  Coordinate     `json:"dropoff"`
	Status   DeliveryStatus `json:"status"`
}

type Payment struct {
	ID         int64           `json:"id"`
	TripID     int64           `json:"trip_id"`
	CustomerID int64           `json:"customer_id"`
	MerchantID *int64          `json:"merchant_id,omitempty"`
	Method     PaymentMethod   `json:"method"`
	Status     PaymentStatus   `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Review struct {
	ID         int64     `json:"id"`
	TripID     int64     `json:"trip_id"`
	CustomerID int64     `json:"customer_id"`
	DriverID   int64     `json:"driver_id"`
	Rating     Rating    `json:"rating"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type Complaint struct {
	ID            int64  `json:"id"`
	TripID        int64  `json:"trip_id"`
	FromUserID    int64  `json:"from_user_id"`
	AgainstUserID int64  `json:"against_user_id"`
	Message       string `json:"message"`
	IsResolved    bool   `json:"is_resolved"`
}

// Caller is the identity an upstream gateway resolved for the current request.
type Caller struct {
	Email string
	Role  string
}
