package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Baaaki/storefront/internal/blacklist"
	"github.com/Baaaki/storefront/internal/handler"
	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/Baaaki/storefront/internal/testutil"
	"github.com/Baaaki/storefront/internal/utils"
	"github.com/Baaaki/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// RouterIntegrationTestSuite drives the full HTTP surface through NewRouter
type RouterIntegrationTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDatabase
	testRedis *testutil.TestRedis
	mailer    *testutil.RecordingMailer
	router    *gin.Engine
	healthErr error
}

func (s *RouterIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)
}

func (s *RouterIntegrationTestSuite) SetupTest() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())
	s.mailer = &testutil.RecordingMailer{}
	s.healthErr = nil

	images := &testutil.MemoryImageStore{}
	userRepo := repository.NewUserRepository(s.testDB.DB)
	resetRepo := repository.NewPasswordResetRepository(s.testDB.DB)
	categoryRepo := repository.NewCategoryRepository(s.testDB.DB)
	productRepo := repository.NewProductRepository(s.testDB.DB)
	reviewRepo := repository.NewReviewRepository(s.testDB.DB)

	authService := service.NewAuthService(
		userRepo,
		blacklist.NewRedisBlacklist(s.testRedis.Client),
		s.mailer,
		images,
		service.AuthSettings{
			JWTSecret:       testutil.TestJWTSecret,
			AccessTokenTTL:  5 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			VerificationTTL: 72 * time.Hour,
			FrontendURL:     "http://shop.test",
			SiteName:        "Storefront",
		},
	)
	resetService := service.NewPasswordResetService(userRepo, resetRepo, s.mailer, service.PasswordResetSettings{
		TokenTTL:    time.Hour,
		FrontendURL: "http://shop.test",
		SiteName:    "Storefront",
	})

	rateLimiter := middleware.NewRateLimiter(s.testRedis.Client, middleware.RateLimiterConfig{
		MaxRequests: 100,
		Window:      time.Minute,
		BlockTime:   time.Minute,
	})

	s.router = handler.NewRouter(
		handler.RouterConfig{
			JWTSecret:   testutil.TestJWTSecret,
			RateLimiter: rateLimiter,
			HealthCheck: func(context.Context) error { return s.healthErr },
		},
		handler.Handlers{
			Auth:          handler.NewAuthHandler(authService, handler.CookieSettings{}),
			Profile:       handler.NewProfileHandler(service.NewProfileService(userRepo, images)),
			PasswordReset: handler.NewPasswordResetHandler(resetService),
			Catalog:       handler.NewCatalogHandler(service.NewCatalogService(categoryRepo, productRepo, images)),
			Review:        handler.NewReviewHandler(service.NewReviewService(reviewRepo, productRepo)),
			Admin:         handler.NewAdminHandler(service.NewAdminService(userRepo, rateLimiter)),
		},
	)
}

func (s *RouterIntegrationTestSuite) TearDownTest() {
	s.testRedis.Teardown(s.T())
	s.testDB.Teardown(s.T())
}

// do sends a JSON request. token, when set, goes in the Authorization header.
func (s *RouterIntegrationTestSuite) do(method, path string, body any, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterIntegrationTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *RouterIntegrationTestSuite) login(email string) (access, refresh *http.Cookie) {
	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testutil.DefaultPassword,
	}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	access = cookieNamed(w, middleware.AccessCookieName)
	refresh = cookieNamed(w, middleware.RefreshCookieName)
	s.Require().NotNil(access)
	s.Require().NotNil(refresh)
	return access, refresh
}

func (s *RouterIntegrationTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/api/health", nil, "")
	s.Equal(http.StatusOK, w.Code)

	s.healthErr = errors.New("database is gone")
	w = s.do(http.MethodGet, "/api/health", nil, "")
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *RouterIntegrationTestSuite) TestRegisterVerifyLogin() {
	w := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":      "New@Example.com",
		"password":   testutil.DefaultPassword,
		"password2":  testutil.DefaultPassword,
		"first_name": "Ada",
	}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		User map[string]any `json:"user"`
	}
	s.decode(w, &registered)
	s.Equal("new@example.com", registered.User["email"])
	s.Equal("customer", registered.User["role"])
	s.Equal(false, registered.User["is_active"])
	s.NotContains(w.Body.String(), "password")

	// not verified yet
	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "new@example.com", "password": testutil.DefaultPassword,
	}, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	uid, token := testutil.VerificationParts(s.T(), s.mailer.Last(s.T(), "email_verification"))
	w = s.do(http.MethodGet, "/api/auth/verify-email/"+uid+"/"+token, nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Email verified successfully")

	w = s.do(http.MethodGet, "/api/auth/verify-email/"+uid+"/"+token, nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Email already verified")

	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "new@example.com", "password": testutil.DefaultPassword,
	}, "")
	s.Require().Equal(http.StatusOK, w.Code)

	accessCookie := cookieNamed(w, middleware.AccessCookieName)
	s.Require().NotNil(accessCookie)
	s.True(accessCookie.HttpOnly)
	s.Equal(http.SameSiteLaxMode, accessCookie.SameSite)
	s.NotContains(w.Body.String(), accessCookie.Value, "Tokens never appear in the body")

	w = s.do(http.MethodGet, "/api/auth/profile", nil, "", accessCookie)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"email":"new@example.com"`)
}

func (s *RouterIntegrationTestSuite) TestRegister_Errors() {
	testutil.CreateTestUser(s.T(), s.testDB.DB, "taken@example.com", models.RoleCustomer)

	w := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "TAKEN@example.com", "password": testutil.DefaultPassword, "password2": testutil.DefaultPassword,
	}, "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "fresh@example.com", "password": "12345678", "password2": "12345678",
	}, "")
	s.Require().Equal(http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string][]string `json:"fields"`
	}
	s.decode(w, &resp)
	s.NotEmpty(resp.Fields["password"])

	w = s.do(http.MethodGet, "/api/auth/verify-email/%21%21/abc", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterIntegrationTestSuite) TestLogin_InactiveAccount() {
	user := testutil.CreateTestUser(s.T(), s.testDB.DB, "off@example.com", models.RoleCustomer)
	s.testDB.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "off@example.com", "password": testutil.DefaultPassword,
	}, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Nil(cookieNamed(w, middleware.AccessCookieName))
}

func (s *RouterIntegrationTestSuite) TestRefreshAndLogout() {
	testutil.DefaultCustomer(s.T(), s.testDB.DB)
	_, refresh := s.login("customer@example.com")

	w := s.do(http.MethodPost, "/api/auth/refresh", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code, "No refresh cookie")

	tampered := &http.Cookie{Name: refresh.Name, Value: refresh.Value + "x"}
	w = s.do(http.MethodPost, "/api/auth/refresh", nil, "", tampered)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/refresh", nil, "", refresh)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotNil(cookieNamed(w, middleware.AccessCookieName))

	w = s.do(http.MethodPost, "/api/auth/logout", nil, "", refresh)
	s.Require().Equal(http.StatusOK, w.Code)
	cleared := cookieNamed(w, middleware.RefreshCookieName)
	s.Require().NotNil(cleared)
	s.Less(cleared.MaxAge, 0)

	w = s.do(http.MethodPost, "/api/auth/refresh", nil, "", refresh)
	s.Equal(http.StatusUnauthorized, w.Code, "Logged out refresh tokens are revoked")

	// logout never fails, even without a session
	w = s.do(http.MethodPost, "/api/auth/logout", nil, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterIntegrationTestSuite) TestStaleAccessCookie_LogoutClearsSession() {
	customer := testutil.DefaultCustomer(s.T(), s.testDB.DB)
	_, refresh := s.login(customer.Email)
	stale := &http.Cookie{Name: middleware.AccessCookieName, Value: "stale.garbage.token"}

	w := s.do(http.MethodPost, "/api/auth/logout", nil, "", stale, refresh)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	for _, name := range []string{middleware.AccessCookieName, middleware.RefreshCookieName} {
		cleared := cookieNamed(w, name)
		s.Require().NotNil(cleared, name)
		s.Less(cleared.MaxAge, 0, name)
	}

	w = s.do(http.MethodPost, "/api/auth/refresh", nil, "", refresh)
	s.Equal(http.StatusUnauthorized, w.Code, "The refresh token was still revoked")
}

func (s *RouterIntegrationTestSuite) TestExpiredAccessToken_LogoutSucceeds() {
	customer := testutil.DefaultCustomer(s.T(), s.testDB.DB)
	expired, err := utils.GenerateToken(customer, utils.TokenTypeAccess, testutil.TestJWTSecret, -time.Minute)
	s.Require().NoError(err)

	w := s.do(http.MethodPost, "/api/auth/logout", nil, expired)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/logout", nil, "",
		&http.Cookie{Name: middleware.AccessCookieName, Value: expired})
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *RouterIntegrationTestSuite) TestStaleAccessCookie_LoginAndRefresh() {
	customer := testutil.DefaultCustomer(s.T(), s.testDB.DB)
	stale := &http.Cookie{Name: middleware.AccessCookieName, Value: "stale.garbage.token"}

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    customer.Email,
		"password": testutil.DefaultPassword,
	}, "", stale)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	fresh := cookieNamed(w, middleware.AccessCookieName)
	refresh := cookieNamed(w, middleware.RefreshCookieName)
	s.Require().NotNil(fresh)
	s.Require().NotNil(refresh)
	s.NotEqual(stale.Value, fresh.Value)

	w = s.do(http.MethodPost, "/api/auth/refresh", nil, "", stale, refresh)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.NotNil(cookieNamed(w, middleware.AccessCookieName))
}

func (s *RouterIntegrationTestSuite) TestInvalidAccessToken_TreatedAsAnonymous() {
	w := s.do(http.MethodGet, "/api/categories", nil, "not-a-jwt")
	s.Equal(http.StatusOK, w.Code, "Public reads ignore a bad token")

	w = s.do(http.MethodGet, "/api/auth/profile", nil, "not-a-jwt")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Given token not valid")

	w = s.do(http.MethodGet, "/api/auth/profile", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Authentication credentials were not provided.")

	w = s.do(http.MethodPost, "/api/categories", map[string]string{"name": "Tapes"}, "not-a-jwt")
	s.Equal(http.StatusUnauthorized, w.Code, "Writes still need a valid token")
}

func (s *RouterIntegrationTestSuite) TestCatalogPermissions() {
	customer := testutil.AccessToken(s.T(), testutil.DefaultCustomer(s.T(), s.testDB.DB))
	admin := testutil.AccessToken(s.T(), testutil.DefaultAdmin(s.T(), s.testDB.DB))
	body := map[string]string{"name": "Vinyl Records"}

	w := s.do(http.MethodPost, "/api/categories", body, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/categories", body, customer)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/categories", body, admin)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"slug":"vinyl-records"`)

	w = s.do(http.MethodPost, "/api/products", map[string]any{
		"category": "vinyl-records",
		"name":     "Blue Train",
		"price":    "24.5",
		"stock":    3,
	}, admin)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var product map[string]any
	s.decode(w, &product)
	s.Equal("24.50", product["price"])
	s.Equal("vinyl-records", product["category"])
	s.Equal(true, product["available"])
	s.Equal([]any{}, product["reviews"])

	w = s.do(http.MethodGet, "/api/products?category=vinyl-records&ordering=-price", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list []map[string]any
	s.decode(w, &list)
	s.Len(list, 1)

	w = s.do(http.MethodGet, "/api/products?available=maybe", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/products/missing", nil, "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/categories/vinyl-records", nil, admin)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/products/blue-train", nil, "")
	s.Equal(http.StatusNotFound, w.Code, "Products go with their category")
}

func (s *RouterIntegrationTestSuite) TestReviewOwnership() {
	category := testutil.CreateTestCategory(s.T(), s.testDB.DB, "Books", "books")
	testutil.CreateTestProduct(s.T(), s.testDB.DB, category, "Dune", "dune", 12)

	author := testutil.AccessToken(s.T(), testutil.DefaultCustomer(s.T(), s.testDB.DB))
	other := testutil.AccessToken(s.T(), testutil.CreateTestUser(s.T(), s.testDB.DB, "other@example.com", models.RoleCustomer))
	admin := testutil.AccessToken(s.T(), testutil.DefaultAdmin(s.T(), s.testDB.DB))

	w := s.do(http.MethodPost, "/api/products/dune/add_review", map[string]any{"rating": 4, "comment": "Spice"}, admin)
	s.Equal(http.StatusForbidden, w.Code, "Only customers review")

	w = s.do(http.MethodPost, "/api/products/dune/reviews", map[string]any{"rating": 6}, author)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/products/dune/add_review", map[string]any{"rating": 4, "comment": "Spice"}, author)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var review struct {
		ID      uint   `json:"id"`
		Product string `json:"product"`
		User    string `json:"user"`
	}
	s.decode(w, &review)
	s.Equal("Dune", review.Product)
	s.Equal("customer@example.com", review.User)

	path := "/api/reviews/" + strconv.FormatUint(uint64(review.ID), 10)

	w = s.do(http.MethodPatch, path, map[string]any{"rating": 1}, other)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, nil, other)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, path, map[string]any{"rating": 5}, author)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"rating":5`)

	w = s.do(http.MethodGet, "/api/products/dune", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"average_rating":5`)

	w = s.do(http.MethodPost, "/api/reviews", map[string]any{"rating": 3}, author)
	s.Equal(http.StatusBadRequest, w.Code, "Flat create needs a product")

	w = s.do(http.MethodGet, "/api/reviews/abc", nil, "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, path, nil, author)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *RouterIntegrationTestSuite) TestProfileUpdate() {
	token := testutil.AccessToken(s.T(), testutil.DefaultCustomer(s.T(), s.testDB.DB))

	w := s.do(http.MethodGet, "/api/auth/profile", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPatch, "/api/auth/profile", map[string]string{
		"bio":           "Collector",
		"date_of_birth": "1988-02-29",
	}, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"date_of_birth":"1988-02-29"`)

	w = s.do(http.MethodPut, "/api/auth/profile", map[string]string{"address": "Elm St"}, token)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"bio":""`)
	s.Contains(w.Body.String(), `"address":"Elm St"`)
}

func (s *RouterIntegrationTestSuite) TestPasswordResetFlow() {
	testutil.DefaultCustomer(s.T(), s.testDB.DB)

	w := s.do(http.MethodPost, "/api/auth/password-reset/", map[string]string{"email": "nobody@example.com"}, "")
	s.Equal(http.StatusOK, w.Code, "Unknown addresses look the same")
	s.Empty(s.mailer.Messages())

	w = s.do(http.MethodPost, "/api/auth/password-reset/", map[string]string{"email": "customer@example.com"}, "")
	s.Require().Equal(http.StatusOK, w.Code)
	key := testutil.ResetKey(s.T(), s.mailer.Last(s.T(), "password_reset"))

	w = s.do(http.MethodPost, "/api/auth/password-reset/validate_token/", map[string]string{"token": "nope"}, "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/auth/password-reset/validate_token/", map[string]string{"token": key}, "")
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/password-reset/confirm/", map[string]string{
		"token": key, "password": "Fr3sh!start",
	}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "customer@example.com", "password": "Fr3sh!start",
	}, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterIntegrationTestSuite) TestAdminUsers() {
	customer := testutil.DefaultCustomer(s.T(), s.testDB.DB)
	admin := testutil.AccessToken(s.T(), testutil.DefaultAdmin(s.T(), s.testDB.DB))
	root := testutil.AccessToken(s.T(), testutil.CreateTestUser(s.T(), s.testDB.DB, "root@example.com", models.RoleSuperAdmin))

	w := s.do(http.MethodGet, "/api/admin/users", nil, admin)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/admin/users?role=customer", nil, root)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), customer.Email)

	w = s.do(http.MethodPatch, "/api/admin/users/"+customer.ID.String(), map[string]any{"is_active": false}, root)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"is_active":false`)

	w = s.do(http.MethodPatch, "/api/admin/users/not-a-uuid", map[string]any{"is_active": true}, root)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterIntegrationTestSuite) TestAdminBannedIPs() {
	customer := testutil.DefaultCustomer(s.T(), s.testDB.DB)
	admin := testutil.AccessToken(s.T(), testutil.DefaultAdmin(s.T(), s.testDB.DB))
	root := testutil.AccessToken(s.T(), testutil.CreateTestUser(s.T(), s.testDB.DB, "root@example.com", models.RoleSuperAdmin))
	// httptest requests come from 192.0.2.1
	const clientIP = "192.0.2.1"
	credentials := map[string]string{"email": customer.Email, "password": testutil.DefaultPassword}

	w := s.do(http.MethodPost, "/api/admin/banned-ips", map[string]string{"ip": clientIP}, admin)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/admin/banned-ips", map[string]string{"ip": "999.1.1.1"}, root)
	s.Require().Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string][]string `json:"fields"`
	}
	s.decode(w, &resp)
	s.NotEmpty(resp.Fields["ip"])

	w = s.do(http.MethodPost, "/api/admin/banned-ips", map[string]string{"ip": clientIP}, root)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", credentials, "")
	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "banned")

	w = s.do(http.MethodGet, "/api/admin/banned-ips", nil, root)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"banned_ips":["192.0.2.1"]}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/admin/banned-ips/"+clientIP, nil, root)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", credentials, "")
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func TestRouterIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RouterIntegrationTestSuite))
}

func TestDecimal(t *testing.T) {
	var d handler.Decimal
	assert.NoError(t, json.Unmarshal([]byte(`"19.999"`), &d))
	assert.InDelta(t, 19.999, float64(d), 1e-9)
	assert.NoError(t, json.Unmarshal([]byte(`7`), &d))

	out, err := json.Marshal(handler.Decimal(7))
	assert.NoError(t, err)
	assert.Equal(t, `"7.00"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &d))
}
