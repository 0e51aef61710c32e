package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"finflow/logger"
	"finflow/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database operations.
type ITransactionRepository interface {
	GetTransactionsWithFilters(userID int, filter model.TransactionFilterRequest) ([]*model.Transaction, error)
	GetAllCategories() ([]*model.Category, error)
	CreateTransaction(req model.CreateTransactionRequest) (*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// GetTransactionsWithFilters retrieves a user's transactions, newest first,
// narrowed by the optional filter fields.
func (r *TransactionRepository) GetTransactionsWithFilters(userID int, filter model.TransactionFilterRequest) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
	log.Info("Executing query to get transactions with filters")

	var conditions []string
	args := []interface{}{userID}

	// The income/expense split is by amount sign, matching how transactions
	// are recorded: deposits positive, charges negative.
	if filter.TransactionType != nil {
		if *filter.TransactionType == "income" {
			conditions = append(conditions, "t.amount > 0")
		} else {
			conditions = append(conditions, "t.amount < 0")
		}
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, pq.Array(filter.CategoryIDs))
		conditions = append(conditions, fmt.Sprintf("t.category_id = ANY($%d)", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		conditions = append(conditions, fmt.Sprintf("t.amount >= $%d", len(args)))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		conditions = append(conditions, fmt.Sprintf("t.amount <= $%d", len(args)))
	}
	if len(filter.MerchantIDs) > 0 {
		args = append(args, pq.Array(filter.MerchantIDs))
		conditions = append(conditions, fmt.Sprintf("t.merchant_id = ANY($%d)", len(args)))
	}

	query := `
		SELECT t.id, t.user_id, t.category_id, c.name, t.amount, t.created_at, t.type, t.description, t.merchant_id, m.name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		LEFT JOIN merchants m ON m.id = t.merchant_id
		WHERE t.user_id = $1`
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute filtered transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.CategoryName, &t.Amount,
			&t.CreatedAt, &t.Type, &t.Description, &t.MerchantID, &t.MerchantName); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}

// GetAllCategories retrieves every transaction category.
func (r *TransactionRepository) GetAllCategories() ([]*model.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get categories query")
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			logger.Log.WithError(err).Error("Failed to scan category row")
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

// CreateTransaction inserts a new transaction record with a fresh identifier.
func (r *TransactionRepository) CreateTransaction(req model.CreateTransactionRequest) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":     req.UserID,
		"category_id": req.CategoryID,
		"amount":      req.Amount,
	})
	log.Info("Executing query to create a new transaction")

	transaction := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		MerchantID:  req.MerchantID,
	}

	query := `INSERT INTO transactions (id, user_id, category_id, amount, type, description, merchant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err := r.DB.QueryRow(query, transaction.ID, transaction.UserID, transaction.CategoryID,
		transaction.Amount, transaction.Type, transaction.Description, transaction.MerchantID).
		Scan(&transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return nil, err
	}
	return transaction, nil
}
