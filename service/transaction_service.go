package service

import (
	"context"
	"encoding/json"
	"time"

	"finflow/logger"
	"finflow/model"
	"finflow/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = 1 * time.Hour
)

// TransactionService handles the ledger's business logic.
type TransactionService struct {
	transactionRepo repository.ITransactionRepository
	cache           ICacheClient
}

func NewTransactionService(transactionRepo repository.ITransactionRepository, cache ICacheClient) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// ListTransactions returns the user's transactions narrowed by the filter.
func (s *TransactionService) ListTransactions(ctx context.Context, userID int, filter model.TransactionFilterRequest) ([]*model.Transaction, error) {
	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"limit":   filter.Limit,
	}).Info("Listing transactions")

	return s.transactionRepo.GetTransactionsWithFilters(userID, filter)
}

// GetCategories returns all categories, served from the cache when warm. The
// category set changes rarely, so a cache miss or a cache failure falls back
// to the database rather than failing the request.
func (s *TransactionService) GetCategories(ctx context.Context) ([]*model.Category, error) {
	cached, err := s.cache.Get(ctx, categoriesCacheKey).Result()
	if err == nil {
		var categories []*model.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
		logger.Log.Warn("Discarding undecodable categories cache entry")
	} else if err != redis.Nil {
		logger.Log.WithError(err).Warn("Categories cache read failed, falling back to database")
	}

	categories, err := s.transactionRepo.GetAllCategories()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, encoded, categoriesCacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to populate categories cache")
		}
	}

	return categories, nil
}

// CreateTransaction records a new transaction for a user.
func (s *TransactionService) CreateTransaction(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error) {
	return s.transactionRepo.CreateTransaction(req)
}
