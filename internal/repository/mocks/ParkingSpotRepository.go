package mocks

import (
	context "context"

	domain "parkshare/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// ParkingSpotRepository is a mock type for the ParkingSpotRepository type
type ParkingSpotRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, spot
func (_m *ParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	ret := _m.Called(ctx, spot)

	var r0 *domain.ParkingSpot
	if rf, ok := ret.Get(0).(func(context.Context, *domain.ParkingSpot) *domain.ParkingSpot); ok {
		r0 = rf(ctx, spot)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ParkingSpot)
	}

	return r0, ret.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *ParkingSpotRepository) FindByID(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.ParkingSpot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ParkingSpot)
	}

	return r0, ret.Error(1)
}

// FindByOwner provides a mock function with given fields: ctx, ownerID
func (_m *ParkingSpotRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.ParkingSpot, error) {
	ret := _m.Called(ctx, ownerID)

	var r0 []domain.ParkingSpot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ParkingSpot)
	}

	return r0, ret.Error(1)
}

// FindAvailable provides a mock function with given fields: ctx
func (_m *ParkingSpotRepository) FindAvailable(ctx context.Context) ([]domain.ParkingSpot, error) {
	ret := _m.Called(ctx)

	var r0 []domain.ParkingSpot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ParkingSpot)
	}

	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, spot
func (_m *ParkingSpotRepository) Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	ret := _m.Called(ctx, spot)

	var r0 *domain.ParkingSpot
	if rf, ok := ret.Get(0).(func(context.Context, *domain.ParkingSpot) *domain.ParkingSpot); ok {
		r0 = rf(ctx, spot)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ParkingSpot)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *ParkingSpotRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewParkingSpotRepository creates a new instance of ParkingSpotRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewParkingSpotRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ParkingSpotRepository {
	m := &ParkingSpotRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
