package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/services"
)

// stubAuthService resolves tokens from a fixed map; anything else is
// rejected the way the real verifier rejects bad or expired tokens.
type stubAuthService struct {
	tokens map[string]*services.TokenClaims
}

func (s *stubAuthService) VerifyToken(tokenString string) (*services.TokenClaims, error) {
	if claims, ok := s.tokens[tokenString]; ok {
		return claims, nil
	}
	return nil, services.ErrUnauthorized
}

func (s *stubAuthService) Register(ctx context.Context, req *services.RegisterRequest, avatarURL *string) (*services.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID uint, req *services.UpdateProfileRequest, avatarURL *string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID uint, req *services.ChangePasswordRequest) error {
	return errors.New("not implemented")
}

// stubUserRepo serves GetByID from a map; the rest of the interface is
// unused by the middleware.
type stubUserRepo struct {
	users map[uint]*models.User
}

func (r *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error { return errors.New("not implemented") }

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (r *stubUserRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return false, errors.New("not implemented")
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error { return errors.New("not implemented") }

func (r *stubUserRepo) Delete(ctx context.Context, id uint) error { return errors.New("not implemented") }

func (r *stubUserRepo) List(ctx context.Context) ([]*models.User, error) {
	return nil, errors.New("not implemented")
}

func (r *stubUserRepo) ListInstructors(ctx context.Context, filters repositories.InstructorFilters) ([]*models.User, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (r *stubUserRepo) GetInstructor(ctx context.Context, id uint) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (r *stubUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	return 0, errors.New("not implemented")
}

func newAuthTestRouter(t *testing.T, mw *JWTAuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	chain := append([]gin.HandlerFunc{mw.AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID := c.GetUint("user_id")
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	router.GET("/protected", chain...)
	return router
}

func expiredToken(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1,
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	student := &models.User{Name: "Stella Student", Email: "stella@example.com", Role: models.RoleStudent}
	student.ID = 7

	auth := &stubAuthService{tokens: map[string]*services.TokenClaims{
		"valid-token":   {UserID: 7, Role: models.RoleStudent},
		"orphaned-token": {UserID: 99, Role: models.RoleStudent},
	}}
	repo := &stubUserRepo{users: map[uint]*models.User{7: student}}
	router := newAuthTestRouter(t, NewJWTAuthMiddleware(auth, repo))

	request := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := request("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization header missing")
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		rec := request("valid-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid authorization header format")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := request("Bearer not-a-real-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		rec := request("Bearer " + expiredToken(t))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	})

	t.Run("token for a deleted account is rejected", func(t *testing.T) {
		rec := request("Bearer orphaned-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Account no longer exists")
	})

	t.Run("valid token loads the account into context", func(t *testing.T) {
		rec := request("Bearer valid-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"userId":7`)
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	auth := &stubAuthService{tokens: map[string]*services.TokenClaims{}}
	repo := &stubUserRepo{users: map[uint]*models.User{}}

	for role, token := range map[models.UserRole]string{
		models.RoleStudent:    "student-token",
		models.RoleInstructor: "instructor-token",
		models.RoleAdmin:      "admin-token",
	} {
		user := &models.User{Name: string(role), Email: string(role) + "@example.com", Role: role}
		user.ID = uint(len(repo.users) + 1)
		repo.users[user.ID] = user
		auth.tokens[token] = &services.TokenClaims{UserID: user.ID, Role: role}
	}

	cases := []struct {
		name     string
		token    string
		allowed  []models.UserRole
		expected int
	}{
		{"student blocked from instructor routes", "student-token", []models.UserRole{models.RoleInstructor}, http.StatusForbidden},
		{"instructor allowed on instructor routes", "instructor-token", []models.UserRole{models.RoleInstructor}, http.StatusOK},
		{"student allowed on student routes", "student-token", []models.UserRole{models.RoleStudent}, http.StatusOK},
		{"instructor blocked from student routes", "instructor-token", []models.UserRole{models.RoleStudent}, http.StatusForbidden},
		{"admin passes instructor checks", "admin-token", []models.UserRole{models.RoleInstructor}, http.StatusOK},
		{"admin passes student checks", "admin-token", []models.UserRole{models.RoleStudent}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mw := NewJWTAuthMiddleware(auth, repo)
			router := newAuthTestRouter(t, mw, mw.RequireRoleMiddleware(tc.allowed...))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expected, rec.Code)
			if tc.expected == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "Insufficient permissions")
			}
		})
	}
}

func TestRequireRoleMiddleware_NoRoleInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mw := NewJWTAuthMiddleware(&stubAuthService{}, &stubUserRepo{})
	router := gin.New()
	router.GET("/protected", mw.RequireRoleMiddleware(models.RoleStudent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "User role not found in context")
}
