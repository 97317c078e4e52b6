package repository

import (
	"context"
	"errors"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// ErrNotFound is returned when a case id is unknown.
var ErrNotFound = errors.New("not found")

// IssueRepository defines read access to violation cases
type IssueRepository interface {
	List(ctx context.Context) ([]models.Issue, error)
	Get(ctx context.Context, id string) (*models.Issue, error)
}

// AccountRepository defines read access to the seller account snapshot
type AccountRepository interface {
	Account(ctx context.Context) (*models.Account, error)
}
