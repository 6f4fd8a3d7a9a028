package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tnvu/storefront/internal/auth"
	"github.com/tnvu/storefront/internal/config"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/service"
)

// Stub services with settable behavior per test. A nil func means the test
// does not expect that call.

type stubUserService struct {
	createUser func(ctx context.Context, params service.CreateUserParams) (model.User, error)
	listUsers  func(ctx context.Context, skip, limit int) ([]model.User, error)
	updateUser func(ctx context.Context, callerID, targetID uuid.UUID, params service.UpdateUserParams) (model.User, error)
	deleteUser func(ctx context.Context, callerID, targetID uuid.UUID) error
}

func (s *stubUserService) CreateUser(ctx context.Context, params service.CreateUserParams) (model.User, error) {
	return s.createUser(ctx, params)
}

func (s *stubUserService) ListUsers(ctx context.Context, skip, limit int) ([]model.User, error) {
	return s.listUsers(ctx, skip, limit)
}

func (s *stubUserService) UpdateUser(ctx context.Context, callerID, targetID uuid.UUID, params service.UpdateUserParams) (model.User, error) {
	return s.updateUser(ctx, callerID, targetID, params)
}

func (s *stubUserService) DeleteUser(ctx context.Context, callerID, targetID uuid.UUID) error {
	return s.deleteUser(ctx, callerID, targetID)
}

type stubAuthService struct {
	login   func(ctx context.Context, username, password string) (service.Token, error)
	refresh func(ctx context.Context, userID uuid.UUID) (service.Token, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (service.Token, error) {
	return s.login(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, userID uuid.UUID) (service.Token, error) {
	return s.refresh(ctx, userID)
}

type stubProductService struct {
	createProduct func(ctx context.Context, ownerID uuid.UUID, params service.CreateProductParams) (model.Product, error)
	listProducts  func(ctx context.Context, ownerID uuid.UUID, filter service.ListProductsFilter) ([]model.Product, error)
	updateProduct func(ctx context.Context, ownerID, productID uuid.UUID, params service.UpdateProductParams) (model.Product, error)
	deleteProduct func(ctx context.Context, ownerID, productID uuid.UUID) error
}

func (s *stubProductService) CreateProduct(ctx context.Context, ownerID uuid.UUID, params service.CreateProductParams) (model.Product, error) {
	return s.createProduct(ctx, ownerID, params)
}

func (s *stubProductService) ListProducts(ctx context.Context, ownerID uuid.UUID, filter service.ListProductsFilter) ([]model.Product, error) {
	return s.listProducts(ctx, ownerID, filter)
}

func (s *stubProductService) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, params service.UpdateProductParams) (model.Product, error) {
	return s.updateProduct(ctx, ownerID, productID, params)
}

func (s *stubProductService) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	return s.deleteProduct(ctx, ownerID, productID)
}

type stubSaleService struct {
	createSale     func(ctx context.Context, ownerID uuid.UUID, cart []service.CartLine) (model.Sale, error)
	previewPayment func(ctx context.Context, ownerID uuid.UUID, cart []service.CartLine) (service.PaymentPreview, error)
}

func (s *stubSaleService) CreateSale(ctx context.Context, ownerID uuid.UUID, cart []service.CartLine) (model.Sale, error) {
	return s.createSale(ctx, ownerID, cart)
}

func (s *stubSaleService) PreviewPayment(ctx context.Context, ownerID uuid.UUID, cart []service.CartLine) (service.PaymentPreview, error) {
	return s.previewPayment(ctx, ownerID, cart)
}

type stubReportService struct {
	dailyReport  func(ctx context.Context, ownerID uuid.UUID) (model.DailySales, error)
	periodReport func(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error)
	bestSellers  func(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error)
}

func (s *stubReportService) DailyReport(ctx context.Context, ownerID uuid.UUID) (model.DailySales, error) {
	return s.dailyReport(ctx, ownerID)
}

func (s *stubReportService) PeriodReport(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error) {
	return s.periodReport(ctx, ownerID, start, end)
}

func (s *stubReportService) BestSellers(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error) {
	return s.bestSellers(ctx, ownerID, limit)
}

type httpFixture struct {
	router  chi.Router
	tokens  *auth.JWTManager
	users   *stubUserService
	auths   *stubAuthService
	prods   *stubProductService
	sales   *stubSaleService
	reports *stubReportService
}

// The metrics collectors register with the default Prometheus registry, so
// the service is built once per test binary and the stubs are reset per test.
var (
	fixtureOnce sync.Once
	fixture     *httpFixture
)

func newFixture(t *testing.T) *httpFixture {
	t.Helper()

	fixtureOnce.Do(func() {
		tokens := auth.NewJWTManager(config.Auth{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Minute,
		})
		f := &httpFixture{
			tokens:  tokens,
			users:   &stubUserService{},
			auths:   &stubAuthService{},
			prods:   &stubProductService{},
			sales:   &stubSaleService{},
			reports: &stubReportService{},
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := New(config.HTTP{}, logger, tokens, f.users, f.auths, f.prods, f.sales, f.reports)

		r := chi.NewRouter()
		svc.RegisterHandlers(r)
		f.router = r

		fixture = f
	})

	*fixture.users = stubUserService{}
	*fixture.auths = stubAuthService{}
	*fixture.prods = stubProductService{}
	*fixture.sales = stubSaleService{}
	*fixture.reports = stubReportService{}
	return fixture
}

func (f *httpFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *httpFixture) bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := f.tokens.Issue(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
