package service

import (
	"database/sql"
	"errors"

	"finflow/model"
	"finflow/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles profile business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByID(userID int) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of the update to the stored user.
// An empty middle name means removal (NULL in the database).
func (s *UserService) UpdateProfile(userID int, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.MiddleName != nil {
		if *req.MiddleName == "" {
			user.MiddleName = nil
		} else {
			user.MiddleName = req.MiddleName
		}
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
