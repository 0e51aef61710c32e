package service

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"finflow/logger"
	"finflow/model"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockUserRepository is a mock for IUserRepository.
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

// quickHash uses the minimum cost so the test suite stays fast; the production
// cost only changes how long hashing takes, not the comparison semantics.
func quickHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := NewAuthService(mockRepo)

	stored := &model.User{
		ID:             1,
		Email:          "jo@example.com",
		HashedPassword: quickHash(t, "s3cret"),
		IsActive:       true,
	}
	mockRepo.On("GetUserByEmail", "jo@example.com").Return(stored, nil)

	user, err := authService.Authenticate("jo@example.com", "s3cret")

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := NewAuthService(mockRepo)

	stored := &model.User{
		ID:             1,
		Email:          "jo@example.com",
		HashedPassword: quickHash(t, "s3cret"),
		IsActive:       true,
	}
	mockRepo.On("GetUserByEmail", "jo@example.com").Return(stored, nil)

	user, err := authService.Authenticate("jo@example.com", "not-it")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := NewAuthService(mockRepo)

	mockRepo.On("GetUserByEmail", "ghost@example.com").Return(nil, sql.ErrNoRows)

	user, err := authService.Authenticate("ghost@example.com", "whatever")

	assert.Nil(t, user)
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate_InactiveUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := NewAuthService(mockRepo)

	stored := &model.User{
		ID:             2,
		Email:          "old@example.com",
		HashedPassword: quickHash(t, "s3cret"),
		IsActive:       false,
	}
	mockRepo.On("GetUserByEmail", "old@example.com").Return(stored, nil)

	user, err := authService.Authenticate("old@example.com", "s3cret")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAuthService_Register_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := NewAuthService(mockRepo)

	mockRepo.On("ExistsWithEmail", "new@example.com").Return(false, nil)
	mockRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*model.User).ID = 7
	})

	user, err := authService.Register(model.RegisterRequest{
		Email:     "new@example.com",
		Password:  "s3cret",
		FirstName: "Jo",
		LastName:  "Doe",
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	// The stored password is a hash, never the plaintext.
	assert.NotEqual(t, "s3cret", user.HashedPassword)
	assert.True(t, authService.CheckPasswordHash("s3cret", user.HashedPassword))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := NewAuthService(mockRepo)

	mockRepo.On("ExistsWithEmail", "jo@example.com").Return(true, nil)

	user, err := authService.Register(model.RegisterRequest{
		Email:     "jo@example.com",
		Password:  "s3cret",
		FirstName: "Jo",
		LastName:  "Doe",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}
