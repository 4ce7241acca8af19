package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdonin/record-store/internal/config"
	"github.com/avdonin/record-store/internal/repository"
	"github.com/avdonin/record-store/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     bcrypt.MinCost,
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func userRow(t *testing.T, id uint64, username, password, role string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "full_name", "email", "phone", "created_at", "is_active"}).
		AddRow(id, username, hash, role, "Test User", nil, nil, time.Now(), active)
}

func TestLogin_Success(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\?`).
		WithArgs("buyer1").
		WillReturnRows(userRow(t, 4, "buyer1", "buyer123", "buyer", true))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postJSON(t, h.Login, "/v1/auth/login", `{"username":"buyer1","password":"buyer123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			ID   uint64 `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(4), resp.User.ID)
	assert.Equal(t, "buyer", resp.User.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NotEmpty(t, resp.Refresh.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\?`).
		WithArgs("buyer1").
		WillReturnRows(userRow(t, 4, "buyer1", "buyer123", "buyer", true))

	rec := postJSON(t, h.Login, "/v1/auth/login", `{"username":"buyer1","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

// A deactivated account fails with the exact same body as a bad
// password, so callers cannot tell which accounts were disabled.
func TestLogin_InactiveAccount(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\?`).
		WithArgs("buyer1").
		WillReturnRows(userRow(t, 4, "buyer1", "buyer123", "buyer", false))

	rec := postJSON(t, h.Login, "/v1/auth/login", `{"username":"buyer1","password":"buyer123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLogin_UnknownUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\?`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	rec := postJSON(t, h.Login, "/v1/auth/login", `{"username":"ghost","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errDuplicate("buyer1"))

	rec := postJSON(t, h.Register, "/v1/auth/register",
		`{"username":"buyer1","password":"pw","full_name":"Buyer One"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)
	rec := postJSON(t, h.Register, "/v1/auth/register", `{"username":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Rotation replaces the old refresh token and re-reads the role from
// the users table, so a role change granted since login shows up in
// the new access token.
func TestRefresh_RotatesAndRereadsRole(t *testing.T) {
	h, mock := newAuthHandler(t)

	const oldRaw = "old-refresh-raw"
	future := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=\?`).
		WithArgs(utils.HashRefreshRaw(oldRaw)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(4, future, nil))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE token_hash=\?`).
		WithArgs(utils.HashRefreshRaw(oldRaw)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Promoted since the old pair was issued: stored role is now seller.
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
		WithArgs(uint64(4)).
		WillReturnRows(userRow(t, 4, "buyer1", "buyer123", "seller", true))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(2, 1))

	rec := postJSON(t, h.Refresh, "/v1/auth/refresh", `{"refresh_token":"`+oldRaw+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "seller", resp.User.Role)
	assert.NotEqual(t, oldRaw, resp.Refresh.Token)

	tok, err := jwt.Parse(resp.Access.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "seller", claims["role"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed revoke aborts the rotation. Otherwise both the old and the
// new refresh token would stay valid.
func TestRefresh_RevokeFailureAborts(t *testing.T) {
	h, mock := newAuthHandler(t)

	future := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=\?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(4, future, nil))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE token_hash=\?`).
		WillReturnError(sql.ErrConnDone)

	rec := postJSON(t, h.Refresh, "/v1/auth/refresh", `{"refresh_token":"some-raw"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_InactiveUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	future := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=\?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(4, future, nil))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE token_hash=\?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
		WithArgs(uint64(4)).
		WillReturnRows(userRow(t, 4, "buyer1", "buyer123", "buyer", false))

	rec := postJSON(t, h.Refresh, "/v1/auth/refresh", `{"refresh_token":"some-raw"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid refresh")
}

// Logout with a refresh token is idempotent: revoking a token that
// was already revoked (zero rows touched) still ends with 204.
func TestLogout_Idempotent(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := postJSON(t, h.Logout, "/v1/auth/logout", `{"refresh_token":"already-gone"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLogout_NothingProvided(t *testing.T) {
	h, _ := newAuthHandler(t)
	rec := postJSON(t, h.Logout, "/v1/auth/logout", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type errDuplicate string

func (e errDuplicate) Error() string {
	return "Error 1062 (23000): Duplicate entry '" + string(e) + "' for key 'users.username'"
}
