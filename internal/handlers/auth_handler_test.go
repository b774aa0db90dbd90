package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
	"marketplace/internal/services"
	"marketplace/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

const testCustomerID = "d5fb2e1c-8a43-4f5e-9c3d-2b1a0e9f8d7c"

// injectCustomerID simulates the auth middleware for protected routes.
func injectCustomerID(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("customerID", id)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body %q: %v", w.Body.String(), err)
	}
	return body
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d (body: %s)", status, w.Code, w.Body.String())
	}
	body := parseJSON(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body, got %s", w.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}

// mockAuditService discards audit entries.
type mockAuditService struct{}

func (m *mockAuditService) Log(customerID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
}

// mockCustomerService lets each test override just the calls it cares about.
type mockCustomerService struct {
	CreateCustomerFn        func(email, password, firstName, lastName, phoneNumber string) (*models.Customer, error)
	GetCustomerByEmailFn    func(email string) (*models.Customer, error)
	GetCustomerByIDFn       func(id string) (*models.Customer, error)
	AttemptLoginFn          func(email, password string) (*models.Customer, error)
	StoreRefreshTokenHashFn func(customerID, tokenHash string) error
	GetRefreshTokenHashFn   func(customerID string) (string, error)
	UpdateKYCStatusFn       func(customerID string, status models.KYCStatus) (*models.Customer, error)
}

var _ services.CustomerServicer = (*mockCustomerService)(nil)

func (m *mockCustomerService) CreateCustomer(email, password, firstName, lastName, phoneNumber string) (*models.Customer, error) {
	if m.CreateCustomerFn != nil {
		return m.CreateCustomerFn(email, password, firstName, lastName, phoneNumber)
	}
	return nil, apperrors.ErrInternalServer
}

func (m *mockCustomerService) GetCustomerByEmail(email string) (*models.Customer, error) {
	if m.GetCustomerByEmailFn != nil {
		return m.GetCustomerByEmailFn(email)
	}
	return nil, apperrors.ErrCustomerNotFound
}

func (m *mockCustomerService) GetCustomerByID(id string) (*models.Customer, error) {
	if m.GetCustomerByIDFn != nil {
		return m.GetCustomerByIDFn(id)
	}
	return nil, apperrors.ErrCustomerNotFound
}

func (m *mockCustomerService) VerifyPassword(customer *models.Customer, password string) bool {
	return false
}

func (m *mockCustomerService) AttemptLogin(email, password string) (*models.Customer, error) {
	if m.AttemptLoginFn != nil {
		return m.AttemptLoginFn(email, password)
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (m *mockCustomerService) StoreRefreshTokenHash(customerID, tokenHash string) error {
	if m.StoreRefreshTokenHashFn != nil {
		return m.StoreRefreshTokenHashFn(customerID, tokenHash)
	}
	return nil
}

func (m *mockCustomerService) GetRefreshTokenHash(customerID string) (string, error) {
	if m.GetRefreshTokenHashFn != nil {
		return m.GetRefreshTokenHashFn(customerID)
	}
	return "", apperrors.ErrCustomerNotFound
}

func (m *mockCustomerService) UpdateKYCStatus(customerID string, status models.KYCStatus) (*models.Customer, error) {
	if m.UpdateKYCStatusFn != nil {
		return m.UpdateKYCStatusFn(customerID, status)
	}
	return nil, apperrors.ErrCustomerNotFound
}

func testCustomer() *models.Customer {
	customer := &models.Customer{
		Email:     "juan@example.com",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Status:    models.CustomerStatusActive,
		KYCStatus: models.KYCStatusVerified,
	}
	customer.ID = testCustomerID
	return customer
}

func setupAuthRouter(svc services.CustomerServicer) *gin.Engine {
	r := gin.New()
	h := NewAuthHandler(svc, &mockAuditService{})
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/profile", injectCustomerID(testCustomerID), h.GetProfile)
	r.GET("/profile-anon", h.GetProfile)
	return r
}

func TestRegister(t *testing.T) {
	t.Run("valid registration returns tokens", func(t *testing.T) {
		svc := &mockCustomerService{
			CreateCustomerFn: func(email, password, firstName, lastName, phoneNumber string) (*models.Customer, error) {
				if email != "juan@example.com" {
					t.Errorf("unexpected email passed to service: %s", email)
				}
				return testCustomer(), nil
			},
		}
		r := setupAuthRouter(svc)

		w := doRequest(r, http.MethodPost, "/auth/register",
			`{"email":"juan@example.com","password":"password123","first_name":"Juan","last_name":"Dela Cruz"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (body: %s)", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["access_token"] == "" || body["access_token"] == nil {
			t.Error("expected access_token in response")
		}
		if body["refresh_token"] == "" || body["refresh_token"] == nil {
			t.Error("expected refresh_token in response")
		}
		customer := body["customer"].(map[string]interface{})
		if customer["email"] != "juan@example.com" {
			t.Errorf("unexpected customer email: %v", customer["email"])
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &mockCustomerService{
			CreateCustomerFn: func(email, password, firstName, lastName, phoneNumber string) (*models.Customer, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(svc)

		w := doRequest(r, http.MethodPost, "/auth/register",
			`{"email":"juan@example.com","password":"password123"}`)
		assertErrorCode(t, w, http.StatusConflict, "DUPLICATE_EMAIL")
	})

	t.Run("malformed email rejected by binding", func(t *testing.T) {
		r := setupAuthRouter(&mockCustomerService{})

		w := doRequest(r, http.MethodPost, "/auth/register",
			`{"email":"not-an-email","password":"password123"}`)
		assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("short password rejected by binding", func(t *testing.T) {
		r := setupAuthRouter(&mockCustomerService{})

		w := doRequest(r, http.MethodPost, "/auth/register",
			`{"email":"juan@example.com","password":"short"}`)
		assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		svc := &mockCustomerService{
			AttemptLoginFn: func(email, password string) (*models.Customer, error) {
				return testCustomer(), nil
			},
		}
		r := setupAuthRouter(svc)

		w := doRequest(r, http.MethodPost, "/auth/login",
			`{"email":"juan@example.com","password":"password123"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["access_token"] == nil {
			t.Error("expected access_token in response")
		}
	})

	t.Run("wrong credentials", func(t *testing.T) {
		r := setupAuthRouter(&mockCustomerService{})

		w := doRequest(r, http.MethodPost, "/auth/login",
			`{"email":"juan@example.com","password":"wrong"}`)
		assertErrorCode(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})
}

func TestRefresh(t *testing.T) {
	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		customer := testCustomer()
		refreshToken, err := middleware.GenerateRefreshToken(customer)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		svc := &mockCustomerService{
			GetCustomerByIDFn: func(id string) (*models.Customer, error) {
				return customer, nil
			},
			GetRefreshTokenHashFn: func(customerID string) (string, error) {
				return middleware.HashToken(refreshToken), nil
			},
		}
		r := setupAuthRouter(svc)

		w := doRequest(r, http.MethodPost, "/auth/refresh",
			`{"refresh_token":"`+refreshToken+`"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["refresh_token"] == nil {
			t.Error("expected a new refresh_token in response")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		r := setupAuthRouter(&mockCustomerService{})

		w := doRequest(r, http.MethodPost, "/auth/refresh",
			`{"refresh_token":"not-a-jwt"}`)
		assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("superseded token rejected", func(t *testing.T) {
		customer := testCustomer()
		oldToken, err := middleware.GenerateRefreshToken(customer)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		// The stored hash belongs to a newer token
		svc := &mockCustomerService{
			GetRefreshTokenHashFn: func(customerID string) (string, error) {
				return middleware.HashToken("a-different-token"), nil
			},
		}
		r := setupAuthRouter(svc)

		w := doRequest(r, http.MethodPost, "/auth/refresh",
			`{"refresh_token":"`+oldToken+`"}`)
		assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("access token cannot be used as refresh token", func(t *testing.T) {
		customer := testCustomer()
		accessToken, err := middleware.GenerateAccessToken(customer)
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		r := setupAuthRouter(&mockCustomerService{})

		w := doRequest(r, http.MethodPost, "/auth/refresh",
			`{"refresh_token":"`+accessToken+`"}`)
		assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
	})
}

func TestGetProfile(t *testing.T) {
	t.Run("returns the authenticated customer", func(t *testing.T) {
		svc := &mockCustomerService{
			GetCustomerByIDFn: func(id string) (*models.Customer, error) {
				if id != testCustomerID {
					t.Errorf("expected lookup for %s, got %s", testCustomerID, id)
				}
				return testCustomer(), nil
			},
		}
		r := setupAuthRouter(svc)

		w := doRequest(r, http.MethodGet, "/profile", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		customer := body["customer"].(map[string]interface{})
		if customer["email"] != "juan@example.com" {
			t.Errorf("unexpected email: %v", customer["email"])
		}
	})

	t.Run("unauthenticated request rejected", func(t *testing.T) {
		r := setupAuthRouter(&mockCustomerService{})

		w := doRequest(r, http.MethodGet, "/profile-anon", "")
		assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
	})
}

// emptyPage builds an empty paginated response for list mocks.
func emptyPage[T any]() *pagination.PageResponse[T] {
	page := pagination.NewPageResponse([]T{}, 1, 20, 0)
	return &page
}
