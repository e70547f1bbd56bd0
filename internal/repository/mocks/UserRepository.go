package mocks

import (
	context "context"
	time "time"

	domain "parkshare/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, user
func (_m *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ret := _m.Called(ctx, user)

	var r0 *domain.User
	if rf, ok := ret.Get(0).(func(context.Context, *domain.User) *domain.User); ok {
		r0 = rf(ctx, user)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}

	return r0, ret.Error(1)
}

// FindByUID provides a mock function with given fields: ctx, uid
func (_m *UserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	ret := _m.Called(ctx, uid)

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}

	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, user
func (_m *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ret := _m.Called(ctx, user)

	var r0 *domain.User
	if rf, ok := ret.Get(0).(func(context.Context, *domain.User) *domain.User); ok {
		r0 = rf(ctx, user)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}

	return r0, ret.Error(1)
}

// UpdateLastLogin provides a mock function with given fields: ctx, uid, at
func (_m *UserRepository) UpdateLastLogin(ctx context.Context, uid string, at time.Time) error {
	ret := _m.Called(ctx, uid, at)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, uid
func (_m *UserRepository) Delete(ctx context.Context, uid string) error {
	ret := _m.Called(ctx, uid)
	return ret.Error(0)
}

// NewUserRepository creates a new instance of UserRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
