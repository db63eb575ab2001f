package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	internalauth "github.com/aviral-workprojects/krishi-connect/internal/auth"
	"github.com/aviral-workprojects/krishi-connect/internal/crops"
	"github.com/aviral-workprojects/krishi-connect/internal/leaderboard"
	"github.com/aviral-workprojects/krishi-connect/internal/orders"
	pkgauth "github.com/aviral-workprojects/krishi-connect/pkg/auth"
	"github.com/aviral-workprojects/krishi-connect/pkg/config"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
	"github.com/aviral-workprojects/krishi-connect/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input internalauth.RegisterInput) (*internalauth.AuthResult, error) {
	return &internalauth.AuthResult{}, nil
}

func (stubAuthService) Login(ctx context.Context, input internalauth.LoginInput) (*internalauth.AuthResult, error) {
	return &internalauth.AuthResult{}, nil
}

func (stubAuthService) Profile(ctx context.Context, userID uuid.UUID) (*internalauth.UserDTO, error) {
	return &internalauth.UserDTO{ID: userID}, nil
}

type stubCropsService struct{}

// Create implements [crops.Service].
func (stubCropsService) Create(ctx context.Context, farmerID uuid.UUID, input crops.CropInput) (*crops.CropDTO, error) {
	panic("unimplemented")
}

// Update implements [crops.Service].
func (stubCropsService) Update(ctx context.Context, farmerID, cropID uuid.UUID, input crops.CropInput) (*crops.CropDTO, error) {
	panic("unimplemented")
}

// Delete implements [crops.Service].
func (stubCropsService) Delete(ctx context.Context, farmerID, cropID uuid.UUID) error {
	panic("unimplemented")
}

// Get implements [crops.Service].
func (stubCropsService) Get(ctx context.Context, cropID uuid.UUID) (*crops.CropDTO, error) {
	panic("unimplemented")
}

func (stubCropsService) ListMine(ctx context.Context, farmerID uuid.UUID) ([]crops.CropDTO, error) {
	return []crops.CropDTO{}, nil
}

func (stubCropsService) Browse(ctx context.Context, filters crops.BrowseFilters) ([]crops.CropDTO, error) {
	return []crops.CropDTO{}, nil
}

type stubOrdersService struct{}

// Create implements [orders.Service].
func (stubOrdersService) Create(ctx context.Context, buyerID uuid.UUID, input orders.CreateOrderInput) (*orders.CreateOrderResult, error) {
	panic("unimplemented")
}

// Verify implements [orders.Service].
func (stubOrdersService) Verify(ctx context.Context, buyerID uuid.UUID, input orders.VerifyInput) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) MyOrders(ctx context.Context, buyerID uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrdersService) CancelStale(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

type stubLeaderboardService struct{}

func (stubLeaderboardService) TopFarmers(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	return []leaderboard.Entry{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Redis:       (*redis.Client)(nil),
		Auth:        stubAuthService{},
		Crops:       stubCropsService{},
		Orders:      stubOrdersService{},
		Leaderboard: stubLeaderboardService{},
	})
}

func TestLivenessIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/crops", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProfileSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile got %d", resp.Code)
	}
}

func TestFarmerGroupRequiresFarmerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodGet, "/api/v1/farmer/crops/", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer got %d", resp.Code)
	}

	farmer := httptest.NewRequest(http.MethodGet, "/api/v1/farmer/crops/", nil)
	farmer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleFarmer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, farmer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for farmer got %d", resp.Code)
	}
}

func TestOrdersGroupRequiresBuyerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	farmer := httptest.NewRequest(http.MethodGet, "/api/v1/orders/my", nil)
	farmer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleFarmer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, farmer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for farmer got %d", resp.Code)
	}

	buyer := httptest.NewRequest(http.MethodGet, "/api/v1/orders/my", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for buyer orders got %d", resp.Code)
	}
}

func TestBrowseCropsOpenToAnyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.UserRole{enums.RoleFarmer, enums.RoleBuyer} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/crops", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s browse got %d", role, resp.Code)
		}
	}
}

func TestLoginRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   "Route Tester",
		Email:  "route@test.dev",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
