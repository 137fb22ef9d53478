package memstore

import (
	"context"
	"strings"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func customers(st *state) *table[marketplace.Customer]     { return st.customers }
func merchants(st *state) *table[marketplace.Merchant]     { return st.merchants }
func drivers(st *state) *table[marketplace.DriverProfile] { return st.drivers }

func sameEmail(a, b string) bool { return strings.EqualFold(a, b) }

func (r *repo) CustomerByID(ctx context.Context, id int64) (marketplace.Customer, bool, error) {
	return lookup(ctx, r, customers, id)
}

func (r *repo) CustomerByEmail(ctx context.Context, email string) (marketplace.Customer, bool, error) {
	return find(ctx, r, customers, func(c marketplace.Customer) bool { return sameEmail(c.Email, email) })
}

func (r *repo) InsertCustomer(ctx context.Context, c *marketplace.Customer) error {
	return r.with(ctx, func(st *state) error {
		if _, dup := st.customers.first(func(x marketplace.Customer) bool { return sameEmail(x.Email, c.Email) }); dup {
			return marketplace.Conflictf("customer %s already exists", c.Email)
		}
		c.ID = st.customers.nextID()
		st.customers.put(c.ID, *c)
		return nil
	})
}

func (r *repo) ListCustomers(ctx context.Context) ([]marketplace.Customer, error) {
	return list(ctx, r, customers, nil)
}

func (r *repo) MerchantByID(ctx context.Context, id int64) (marketplace.Merchant, bool, error) {
	return lookup(ctx, r, merchants, id)
}

func (r *repo) MerchantByEmail(ctx context.Context, email string) (marketplace.Merchant, bool, error) {
	return find(ctx, r, merchants, func(m marketplace.Merchant) bool { return sameEmail(m.Email, email) })
}

func (r *repo) InsertMerchant(ctx context.Context, m *marketplace.Merchant) error {
	return r.with(ctx, func(st *state) error {
		if _, dup := st.merchants.first(func(x marketplace.Merchant) bool { return sameEmail(x.Email, m.Email) }); dup {
			return marketplace.Conflictf("merchant %s already exists", m.Email)
		}
		m.ID = st.merchants.nextID()
		st.merchants.put(m.ID, *m)
		return nil
	})
}

func (r *repo) ListMerchants(ctx context.Context) ([]marketplace.Merchant, error) {
	return list(ctx, r, merchants, nil)
}

func (r *repo) DriverByID(ctx context.Context, id int64) (marketplace.DriverProfile, bool, error) {
	return lookup(ctx, r, drivers, id)
}

func (r *repo) DriverByEmail(ctx context.Context, email string) (marketplace.DriverProfile, bool, error) {
	return find(ctx, r, drivers, func(d marketplace.DriverProfile) bool { return sameEmail(d.Email, email) })
}

func (r *repo) InsertDriver(ctx context.Context, d *marketplace.DriverProfile) error {
	return r.with(ctx, func(st *state) error {
		if _, dup := st.drivers.first(func(x marketplace.DriverProfile) bool { return sameEmail(x.Email, d.Email) }); dup {
			return marketplace.Conflictf("driver %s already exists", d.Email)
		}
		d.ID = st.drivers.nextID()
		st.drivers.put(d.ID, *d)
		return nil
	})
}

func (r *repo) UpdateDriver(ctx context.Context, d marketplace.DriverProfile) error {
	return replace(ctx, r, drivers, "Driver", d.ID, d)
}

func (r *repo) ListDrivers(ctx context.Context) ([]marketplace.DriverProfile, error) {
	return list(ctx, r, drivers, nil)
}
