package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bizdocs/internal/model"
	"bizdocs/internal/repository"
	"bizdocs/internal/repository/postgres"
)

var (
	ErrNameRequired   = errors.New("business name is required")
	ErrBusinessExists = errors.New("business already registered")
	ErrInvalidAPIKey  = errors.New("invalid api key")
)

// apiKeyBytes yields a 32-hex-character key, matching the credential shape
// issued since the first release.
const apiKeyBytes = 16

// BusinessListResult is the service-level DTO for paginated businesses.
type BusinessListResult struct {
	Items []model.Business `json:"data"`
	Total int              `json:"total"`
}

// BusinessService defines the use cases for business accounts.
type BusinessService interface {
	// Register creates a business account, generating a unique account ID and
	// a crypto-random API key. Registering the same name twice fails with
	// ErrBusinessExists.
	Register(ctx context.Context, name string) (*model.Business, error)

	// Authenticate resolves an API key to its business, or returns
	// ErrInvalidAPIKey when no business holds the key.
	Authenticate(ctx context.Context, apiKey string) (*model.Business, error)

	// List returns businesses using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*BusinessListResult, error)
}

// businessService is a concrete implementation of BusinessService.
type businessService struct {
	repo repository.BusinessRepository
}

// NewBusinessService constructs a new BusinessService.
func NewBusinessService(repo repository.BusinessRepository) BusinessService {
	return &businessService{repo: repo}
}

func (s *businessService) Register(ctx context.Context, name string) (*model.Business, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	apiKey, err := randomHex(apiKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	biz := &model.Business{
		ID:        uuid.New().String(),
		Name:      name,
		AccountID: "acc_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12],
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}

	stored, err := s.repo.Create(ctx, biz)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrBusinessExists
		}
		return nil, fmt.Errorf("save business: %w", err)
	}
	return stored, nil
}

func (s *businessService) Authenticate(ctx context.Context, apiKey string) (*model.Business, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	biz, err := s.repo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return biz, nil
}

// List returns paginated businesses without exposing repository types.
func (s *businessService) List(ctx context.Context, limit, offset int) (*BusinessListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &BusinessListResult{Items: res.Items, Total: res.Total}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
