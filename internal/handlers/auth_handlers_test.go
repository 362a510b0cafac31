package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/medkala/medstore/internal/hash"
	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/service/token"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	db := InitTestDB(t)
	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	return &AuthHandler{DB: db, Tokens: tokens, Producer: &mykafka.Producer{}}
}

func TestRegister(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	payload := map[string]string{
		"username":  "test_user",
		"email":     "test@example.com",
		"password":  "password",
		"full_name": "Test User",
	}
	c, rec := newJSONContext(t, e, http.MethodPost, "/register", payload)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeBody(t, rec)
	require.Equal(t, "test_user", data["username"])
	require.Equal(t, "user", data["role"])
	require.NotEmpty(t, data["id"])
	require.NotContains(t, rec.Body.String(), "password")

	var stored models.User
	require.NoError(t, h.DB.Where("username = ?", "test_user").First(&stored).Error)
	require.NotEqual(t, "password", stored.PasswordHash)

	// same username again
	c2, rec2 := newJSONContext(t, e, http.MethodPost, "/register", payload)
	require.NoError(t, h.Register(c2))
	require.Equal(t, http.StatusConflict, rec2.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/register", map[string]string{
		"username": "shorty",
		"email":    "shorty@example.com",
		"password": "123",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	mustCreate(t, h.DB, &models.User{
		Username:     "test_user",
		Email:        "test@example.com",
		PasswordHash: string(pwHash),
		Role:         "user",
	})

	c, rec := newJSONContext(t, e, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)
	require.NotEmpty(t, data["access_token"])
	require.NotEmpty(t, data["refresh_token"])
	require.Equal(t, false, data["is_admin"])

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")

	cBad, _ := newJSONContext(t, e, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "wrong_password",
	})
	err = h.Login(cBad)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestLogout(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	mustCreate(t, h.DB, &models.User{
		Username:     "test_user",
		Email:        "test@example.com",
		PasswordHash: string(pwHash),
		Role:         "user",
	})

	cLogin, recLogin := newJSONContext(t, e, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(cLogin))
	require.Equal(t, http.StatusOK, recLogin.Code)
	refreshToken := decodeBody(t, recLogin)["refresh_token"].(string)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", refreshToken).First(&stored).Error)
	require.True(t, stored.Revoked)
}
