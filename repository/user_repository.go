package repository

import (
	"database/sql"

	"finflow/logger"
	"finflow/model"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
	ExistsWithEmail(email string) (bool, error)
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (email, first_name, last_name, middle_name, hashed_password)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, is_active, created_at`
	err := r.DB.QueryRow(query, user.Email, user.FirstName, user.LastName, user.MiddleName, user.HashedPassword).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, first_name, last_name, middle_name, hashed_password, is_active, created_at
		FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.MiddleName, &user.HashedPassword, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get user by email query")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, first_name, last_name, middle_name, hashed_password, is_active, created_at
		FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.MiddleName, &user.HashedPassword, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("user_id", id).Error("Failed to execute get user by id query")
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser persists the mutable profile fields of an existing user.
func (r *UserRepository) UpdateUser(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update a user profile")

	query := `UPDATE users SET first_name = $1, last_name = $2, middle_name = $3 WHERE id = $4`
	result, err := r.DB.Exec(query, user.FirstName, user.LastName, user.MiddleName, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user query")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) ExistsWithEmail(email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := r.DB.QueryRow(query, email).Scan(&exists); err != nil {
		logger.Log.WithError(err).Error("Failed to execute email existence query")
		return false, err
	}
	return exists, nil
}
