package marketplace

import (
	"context"
	"fmt"
)

// Resolvers turn the external identifiers callers pass in (emails, names,
// ids) into rows, failing with NotFound when nothing matches.

func ResolveCustomer(ctx context.Context, repo ProfileRepository, email string) (Customer, error) {
	if err := RequireEmail("Customer", email); err != nil {
		return Customer{}, err
	}
	c, ok, err := repo.CustomerByEmail(ctx, email)
	if err != nil {
		return Customer{}, fmt.Errorf("customer by email: %w", err)
	}
	if !ok {
		return Customer{}, NotFoundf("Customer with Email %s not found", email)
	}
	return c, nil
}

func ResolveDriver(ctx context.Context, repo ProfileRepository, email string) (DriverProfile, error) {
	if err := RequireEmail("Driver", email); err != nil {
		return DriverProfile{}, err
	}
	d, ok, err := repo.DriverByEmail(ctx, email)
	if err != nil {
		return DriverProfile{}, fmt.Errorf("driver by email: %w", err)
	}
	if !ok {
		return DriverProfile{}, NotFoundf("Driver with Email %s not found", email)
	}
	return d, nil
}

func ResolveMerchant(ctx context.Context, repo ProfileRepository, email string) (Merchant, error) {
	if err := RequireEmail("Merchant", email); err != nil {
		return Merchant{}, err
	}
	m, ok, err := repo.MerchantByEmail(ctx, email)
	if err != nil {
		return Merchant{}, fmt.Errorf("merchant by email: %w", err)
	}
	if !ok {
		return Merchant{}, NotFoundf("Merchant with Email %s not found", email)
	}
	return m, nil
}

func ResolveTrip(ctx context.Context, repo TripRepository, id int64) (Trip, error) {
	if err := CheckID(id); err != nil {
		return Trip{}, err
	}
	t, ok, err := repo.TripByID(ctx, id)
	if err != nil {
		return Trip{}, fmt.Errorf("trip by id: %w", err)
	}
	if !ok {
		return Trip{}, NotFoundf("Trip with Id %d not found", id)
	}
	return t, nil
}
