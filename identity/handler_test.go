package identity

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"finflow/logger"
	"finflow/model"
	"finflow/service"
	"finflow/token"
)

const (
	testAccessSecret  = "id-access-secret"
	testRefreshSecret = "id-refresh-secret"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockUserRepository is a mock for repository.IUserRepository.
type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsWithEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

type testServer struct {
	router   http.Handler
	repo     *MockUserRepository
	issuer   *token.Issuer
	verifier *token.Verifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := new(MockUserRepository)
	issuer, err := token.NewIssuer(testAccessSecret, testRefreshSecret, 20*time.Minute, 7*24*time.Hour, nil)
	require.NoError(t, err)
	verifier, err := token.NewVerifier(testAccessSecret, testRefreshSecret, nil)
	require.NoError(t, err)

	handler := NewHandler(
		service.NewAuthService(repo),
		service.NewUserService(repo),
		issuer,
		verifier,
		token.NewRotator(issuer, verifier),
	)
	return &testServer{
		router:   NewRouter(handler),
		repo:     repo,
		issuer:   issuer,
		verifier: verifier,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func quickHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T, password string) *model.User {
	return &model.User{
		ID:             42,
		Email:          "jo@example.com",
		FirstName:      "Jo",
		LastName:       "Doe",
		HashedPassword: quickHash(t, password),
		IsActive:       true,
	}
}

func TestRegister_CreatesUser(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("ExistsWithEmail", "new@example.com").Return(false, nil)
	srv.repo.On("CreateUser", mock.AnythingOfType("*model.User")).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(0).(*model.User)
		user.ID = 7
		user.IsActive = true
	})

	req := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"email":"new@example.com","password":"s3cret","first_name":"Jo","last_name":"Doe"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, 7, user.ID)
	// The hash never leaves the service.
	assert.NotContains(t, rec.Body.String(), "hashed_password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("ExistsWithEmail", "jo@example.com").Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"email":"jo@example.com","password":"s3cret","first_name":"Jo","last_name":"Doe"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"email already registered"}`, rec.Body.String())
}

func TestRegister_InvalidPayload(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"email":"not-an-email","password":"s3cret","first_name":"Jo","last_name":"Doe"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	srv.repo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestLogin_IssuesBoundPair(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("GetUserByEmail", "jo@example.com").Return(activeUser(t, "s3cret"), nil)

	req := httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"jo@example.com","password":"s3cret"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var pair model.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.Equal(t, "bearer", pair.TokenType)

	// The issued pair is mutually bound: the access token verifies only
	// alongside its refresh token.
	claims, err := srv.verifier.VerifyAccess(pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)

	_, err = srv.verifier.VerifyAccess(pair.AccessToken, "")
	assert.ErrorIs(t, err, token.ErrBindingMismatch)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("GetUserByEmail", "jo@example.com").Return(activeUser(t, "s3cret"), nil)

	req := httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"jo@example.com","password":"wrong"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"incorrect email or password"}`, rec.Body.String())
}

func TestLogin_UnknownEmail(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("GetUserByEmail", "ghost@example.com").Return(nil, sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever"}`))
	rec := srv.do(req)

	// Same response as a wrong password.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"incorrect email or password"}`, rec.Body.String())
}

func TestLogin_InactiveUser(t *testing.T) {
	srv := newTestServer(t)

	user := activeUser(t, "s3cret")
	user.IsActive = false
	srv.repo.On("GetUserByEmail", "jo@example.com").Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"jo@example.com","password":"s3cret"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"inactive user"}`, rec.Body.String())
}

func TestRefresh_RotatesPair(t *testing.T) {
	srv := newTestServer(t)

	pair, err := srv.issuer.IssuePair(42)
	require.NoError(t, err)

	body, err := json.Marshal(model.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users/refresh", strings.NewReader(string(body)))
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var rotated model.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	newClaims, err := srv.verifier.VerifyRefresh(rotated.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshClaims.ID, newClaims.ID)
	assert.Equal(t, "42", newClaims.Subject)

	// The new access token is bound to the new refresh token, not the old one.
	_, err = srv.verifier.VerifyAccess(rotated.AccessToken, pair.RefreshToken)
	assert.ErrorIs(t, err, token.ErrBindingMismatch)
	_, err = srv.verifier.VerifyAccess(rotated.AccessToken, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/users/refresh",
		strings.NewReader(`{"refresh_token":"not-a-jwt"}`))
	rec := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid refresh token"}`, rec.Body.String())
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	srv := newTestServer(t)

	accessToken, _, err := srv.issuer.IssueAccess(42, "")
	require.NoError(t, err)

	body, err := json.Marshal(model.RefreshRequest{RefreshToken: accessToken})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users/refresh", strings.NewReader(string(body)))
	rec := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_ReturnsProfile(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("GetUserByID", 42).Return(activeUser(t, "s3cret"), nil)

	pair, err := srv.issuer.IssuePair(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me?token="+pair.AccessToken, nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: pair.RefreshToken})
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "jo@example.com", user.Email)
}

func TestMe_MissingToken(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Token is required"}`, rec.Body.String())
}

func TestMe_BoundTokenWithoutCookie(t *testing.T) {
	srv := newTestServer(t)

	pair, err := srv.issuer.IssuePair(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me?token="+pair.AccessToken, nil)
	rec := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	srv.repo.AssertNotCalled(t, "GetUserByID", mock.Anything)
}

func TestMe_UserGone(t *testing.T) {
	srv := newTestServer(t)

	srv.repo.On("GetUserByID", 42).Return(nil, sql.ErrNoRows)

	pair, err := srv.issuer.IssuePair(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me?token="+pair.AccessToken, nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: pair.RefreshToken})
	rec := srv.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"user not found"}`, rec.Body.String())
}

func TestUpdateMe_ClearsMiddleName(t *testing.T) {
	srv := newTestServer(t)

	middle := "Quinn"
	stored := activeUser(t, "s3cret")
	stored.MiddleName = &middle
	srv.repo.On("GetUserByID", 42).Return(stored, nil)
	srv.repo.On("UpdateUser", mock.AnythingOfType("*model.User")).Return(nil)

	pair, err := srv.issuer.IssuePair(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/users/me?token="+pair.AccessToken,
		strings.NewReader(`{"middle_name":""}`))
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: pair.RefreshToken})
	rec := srv.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Nil(t, user.MiddleName)
	assert.Equal(t, "Jo", user.FirstName)
}
