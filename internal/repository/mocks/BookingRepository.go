package mocks

import (
	context "context"

	domain "parkshare/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// BookingRepository is a mock type for the BookingRepository type
type BookingRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, booking
func (_m *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ret := _m.Called(ctx, booking)

	var r0 *domain.Booking
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		r0 = rf(ctx, booking)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Booking)
	}

	return r0, ret.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.Booking
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Booking)
	}

	return r0, ret.Error(1)
}

// FindByFinder provides a mock function with given fields: ctx, finderID
func (_m *BookingRepository) FindByFinder(ctx context.Context, finderID string) ([]domain.Booking, error) {
	ret := _m.Called(ctx, finderID)

	var r0 []domain.Booking
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Booking)
	}

	return r0, ret.Error(1)
}

// FindPendingBySpotIDs provides a mock function with given fields: ctx, spotIDs
func (_m *BookingRepository) FindPendingBySpotIDs(ctx context.Context, spotIDs []string) ([]domain.Booking, error) {
	ret := _m.Called(ctx, spotIDs)

	var r0 []domain.Booking
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Booking)
	}

	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, booking
func (_m *BookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ret := _m.Called(ctx, booking)

	var r0 *domain.Booking
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		r0 = rf(ctx, booking)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Booking)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *BookingRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewBookingRepository creates a new instance of BookingRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewBookingRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *BookingRepository {
	m := &BookingRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
