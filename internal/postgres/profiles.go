package postgres

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

const customerCols = `id, email, name, address, city, region`

func scanCustomer(s scanner) (marketplace.Customer, error) {
	var c marketplace.Customer
	err := s.Scan(&c.ID, &c.Email, &c.Name, &c.Address, &c.City, &c.Region)
	return c, err
}

func (r *repo) CustomerByID(ctx context.Context, id int64) (marketplace.Customer, bool, error) {
	return one(ctx, r.q, scanCustomer, `SELECT `+customerCols+` FROM customers WHERE id = $1`, id)
}

func (r *repo) CustomerByEmail(ctx context.Context, email string) (marketplace.Customer, bool, error) {
	return one(ctx, r.q, scanCustomer, `SELECT `+customerCols+` FROM customers WHERE lower(email) = lower($1)`, email)
}

func (r *repo) InsertCustomer(ctx context.Context, c *marketplace.Customer) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO customers (email, name, address, city, region)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Email, c.Name, c.Address, c.City, c.Region,
	).Scan(&c.ID)
	return mapErr(err)
}

func (r *repo) ListCustomers(ctx context.Context) ([]marketplace.Customer, error) {
	return many(ctx, r.q, scanCustomer, `SELECT `+customerCols+` FROM customers ORDER BY id`)
}

const merchantCols = `id, email, name, address, lat, lng`

func scanMerchant(s scanner) (marketplace.Merchant, error) {
	var m marketplace.Merchant
	err := s.Scan(&m.ID, &m.Email, &m.Name, &m.Address, &m.Location.Lat, &m.Location.Lng)
	return m, err
}

func (r *repo) MerchantByID(ctx context.Context, id int64) (marketplace.Merchant, bool, error) {
	return one(ctx, r.q, scanMerchant, `SELECT `+merchantCols+` FROM merchants WHERE id = $1`, id)
}

func (r *repo) MerchantByEmail(ctx context.Context, email string) (marketplace.Merchant, bool, error) {
	return one(ctx, r.q, scanMerchant, `SELECT `+merchantCols+` FROM merchants WHERE lower(email) = lower($1)`, email)
}

func (r *repo) InsertMerchant(ctx context.Context, m *marketplace.Merchant) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO merchants (email, name, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		m.Email, m.Name, m.Address, m.Location.Lat, m.Location.Lng,
	).Scan(&m.ID)
	return mapErr(err)
}

func (r *repo) ListMerchants(ctx context.Context) ([]marketplace.Merchant, error) {
	return many(ctx, r.q, scanMerchant, `SELECT `+merchantCols+` FROM merchants ORDER BY id`)
}

const driverCols = `id, email, name, vehicle_type, plate_number, status`

func scanDriver(s scanner) (marketplace.DriverProfile, error) {
	var d marketplace.DriverProfile
	err := s.Scan(&d.ID, &d.Email, &d.Name, &d.VehicleType, &d.PlateNumber, &d.Status)
	return d, err
}

func (r *repo) DriverByID(ctx context.Context, id int64) (marketplace.DriverProfile, bool, error) {
	return one(ctx, r.q, scanDriver, `SELECT `+driverCols+` FROM drivers WHERE id = $1`, id)
}

func (r *repo) DriverByEmail(ctx context.Context, email string) (marketplace.DriverProfile, bool, error) {
	return one(ctx, r.q, scanDriver, `SELECT `+driverCols+` FROM drivers WHERE lower(email) = lower($1)`, email)
}

func (r *repo) InsertDriver(ctx context.Context, d *marketplace.DriverProfile) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO drivers (email, name, vehicle_type, plate_number, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		d.Email, d.Name, d.VehicleType, d.PlateNumber, d.Status,
	).Scan(&d.ID)
	return mapErr(err)
}

func (r *repo) UpdateDriver(ctx context.Context, d marketplace.DriverProfile) error {
	return exec(ctx, r.q, "Driver", d.ID, `
		UPDATE drivers SET name = $2, vehicle_type = $3, plate_number = $4, status = $5
		WHERE id = $1`,
		d.ID, d.Name, d.VehicleType, d.PlateNumber, d.Status)
}

func (r *repo) ListDrivers(ctx context.Context) ([]marketplace.DriverProfile, error) {
	return many(ctx, r.q, scanDriver, `SELECT `+driverCols+` FROM drivers ORDER BY id`)
}
