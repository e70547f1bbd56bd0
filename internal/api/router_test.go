package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parkshare/internal/api"
	"parkshare/internal/api/handler"
	"parkshare/internal/api/middleware"
	"parkshare/internal/domain"
	"parkshare/internal/events"
	"parkshare/internal/identity"
	"parkshare/internal/repository"
	"parkshare/internal/repository/mocks"
	"parkshare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	verifier *identity.JWTVerifier
	users    *mocks.UserRepository
	spots    *mocks.ParkingSpotRepository
	bookings *mocks.BookingRepository
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &testServer{
		verifier: identity.NewJWTVerifier("test-secret", "parkshare-test"),
		users:    mocks.NewUserRepository(t),
		spots:    mocks.NewParkingSpotRepository(t),
		bookings: mocks.NewBookingRepository(t),
	}
	s.router = api.SetupRouter(api.Dependencies{
		UserService:     service.NewUserService(s.users, s.verifier, logger),
		SpotService:     service.NewSpotService(s.spots, nil, logger),
		BookingService:  service.NewBookingService(s.bookings, s.spots, events.Nop{}, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(s.verifier),
		WSManager:       handler.NewWebSocketManager(logger),
		Logger:          logger,
		CORSAllowOrigin: "*",
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path, uid string, body any) (*httptest.ResponseRecorder, handler.APIResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid != "" {
		token, err := s.verifier.Sign(uid, uid+"@example.com", "Test User", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp handler.APIResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func testSpot(id, owner string) *domain.ParkingSpot {
	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	return &domain.ParkingSpot{
		ID:                id,
		Address:           "1 Test Way",
		Latitude:          37.7749,
		Longitude:         -122.4194,
		HourlyRate:        8,
		IsAvailable:       true,
		AvailabilityStart: start,
		AvailabilityEnd:   start.Add(10 * time.Hour),
		MaxVehicleSize:    domain.VehicleAny,
		OwnerID:           owner,
		OwnerName:         "Owner",
	}
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Parking App API is running!")

	w, _ = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/users/profile", "/api/bookings/my-bookings", "/api/parking-spots/my-spots"} {
		w, resp := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"), path)
		assert.False(t, resp.Success)
		assert.Equal(t, "Invalid authentication credentials", resp.Message)
	}
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	s.users.On("FindByUID", mock.Anything, "uid-1").Return(nil, repository.ErrNotFound)
	s.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UID == "uid-1" && u.Role == domain.RoleRenter
	})).Return(func(_ context.Context, u *domain.User) *domain.User { return u }, nil)

	w, resp := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firebase_uid": "uid-1",
		"email":        "uid-1@example.com",
		"name":         "Uma",
		"role":         "renter",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]any{"user_id": "uid-1"}, resp.Data)
}

func TestRegister_Conflict(t *testing.T) {
	s := newTestServer(t)
	s.users.On("FindByUID", mock.Anything, "uid-1").Return(&domain.User{UID: "uid-1"}, nil)

	w, resp := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firebase_uid": "uid-1",
		"email":        "uid-1@example.com",
		"name":         "Uma",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", resp.Message)
}

func TestLogin_OnlyAsSelf(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/auth/login?firebase_uid=someone-else", "uid-1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.users.On("FindByUID", mock.Anything, "uid-1").Return(&domain.User{UID: "uid-1", Role: domain.RoleFinder}, nil)
	s.users.On("UpdateLastLogin", mock.Anything, "uid-1", mock.AnythingOfType("time.Time")).Return(nil)
	w, resp := s.do(t, http.MethodPost, "/api/auth/login", "uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Login successful", resp.Message)
}

func TestGetSpotIsPublic(t *testing.T) {
	s := newTestServer(t)
	s.spots.On("FindByID", mock.Anything, "s1").Return(testSpot("s1", "owner"), nil)
	s.spots.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	w, resp := s.do(t, http.MethodGet, "/api/parking-spots/s1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp.Data.(map[string]any)
	assert.Equal(t, "s1", data["spot"].(map[string]any)["id"])

	w, _ = s.do(t, http.MethodGet, "/api/parking-spots/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListNearby_RequiresCoordinates(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/parking-spots/nearby?longitude=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Message, "Invalid request")
}

func TestListNearby(t *testing.T) {
	s := newTestServer(t)
	far := testSpot("far", "owner")
	far.Latitude, far.Longitude = 34.0522, -118.2437
	s.spots.On("FindAvailable", mock.Anything).Return([]domain.ParkingSpot{*testSpot("near", "owner"), *far}, nil)

	w, resp := s.do(t, http.MethodGet, "/api/parking-spots/nearby?latitude=37.7749&longitude=-122.4194&radius=1000", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	spots := resp.Data.(map[string]any)["spots"].([]any)
	require.Len(t, spots, 1)
	assert.Equal(t, "near", spots[0].(map[string]any)["id"])
}

func TestCreateSpot_BindError(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/parking-spots/", "owner", gin.H{"address": "no window"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
}

func TestCreateSpot(t *testing.T) {
	s := newTestServer(t)
	s.spots.On("Create", mock.Anything, mock.MatchedBy(func(sp *domain.ParkingSpot) bool {
		return sp.OwnerID == "owner" && sp.IsAvailable
	})).Return(func(_ context.Context, sp *domain.ParkingSpot) *domain.ParkingSpot {
		sp.ID = "s-new"
		return sp
	}, nil)

	w, resp := s.do(t, http.MethodPost, "/api/parking-spots/", "owner", gin.H{
		"address":            "2 Dock St",
		"latitude":           37.77,
		"longitude":          -122.41,
		"hourly_rate":        6.5,
		"availability_start": "2025-07-01T08:00:00Z",
		"availability_end":   "2025-07-01T18:00:00Z",
		"max_vehicle_size":   "compact",
		"owner_id":           "owner",
		"owner_name":         "Owner",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Parking spot created successfully", resp.Message)
	assert.Equal(t, map[string]any{"spot_id": "s-new"}, resp.Data)
}

func TestUpdateSpot_NonOwnerForbiddenWhateverThePayload(t *testing.T) {
	s := newTestServer(t)
	s.spots.On("FindByID", mock.Anything, "s1").Return(testSpot("s1", "owner"), nil)

	w, resp := s.do(t, http.MethodPut, "/api/parking-spots/s1", "intruder", gin.H{"max_vehicle_size": "tank"})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.False(t, resp.Success)

	w, _ = s.do(t, http.MethodPut, "/api/parking-spots/s1", "owner", gin.H{"max_vehicle_size": "tank"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_SpotMissing(t *testing.T) {
	s := newTestServer(t)
	s.spots.On("FindByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	w, resp := s.do(t, http.MethodPost, "/api/bookings/", "finder", gin.H{
		"spot_id":      "gone",
		"start_time":   "2025-07-01T09:00:00Z",
		"end_time":     "2025-07-01T11:00:00Z",
		"finder_id":    "finder",
		"finder_name":  "Fay",
		"finder_email": "fay@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parking spot not found", resp.Message)
}

func TestApproveBooking_QueryMessage(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("FindByID", mock.Anything, "b1").Return(&domain.Booking{
		ID: "b1", SpotID: "s1", FinderID: "finder", Status: domain.BookingPending,
	}, nil)
	s.spots.On("FindByID", mock.Anything, "s1").Return(testSpot("s1", "owner"), nil)
	s.bookings.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingApproved && b.OwnerResponse.String == "welcome"
	})).Return(func(_ context.Context, b *domain.Booking) *domain.Booking { return b }, nil)

	w, resp := s.do(t, http.MethodPut, "/api/bookings/b1/approve?response_message=welcome", "owner", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	booking := resp.Data.(map[string]any)["booking"].(map[string]any)
	assert.Equal(t, "approved", booking["status"])
	assert.Equal(t, "welcome", booking["owner_response"])
}

func TestRejectBooking_NotOwner(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("FindByID", mock.Anything, "b1").Return(&domain.Booking{
		ID: "b1", SpotID: "s1", FinderID: "finder", Status: domain.BookingPending,
	}, nil)
	s.spots.On("FindByID", mock.Anything, "s1").Return(testSpot("s1", "owner"), nil)

	w, _ := s.do(t, http.MethodPut, "/api/bookings/b1/reject", "finder", gin.H{"response_message": "no"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInternalErrorsUseFallbackMessage(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("FindByFinder", mock.Anything, "finder").Return(nil, errors.New("connection reset"))

	w, resp := s.do(t, http.MethodGet, "/api/bookings/my-bookings", "finder", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to get your bookings", resp.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodOptions, "/api/bookings/", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
