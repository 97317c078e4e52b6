package service

import (
	"context"
	"fmt"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
	"github.com/quietst00rm/seller-zenith-44/internal/repository"
	"github.com/quietst00rm/seller-zenith-44/internal/violations"
)

// AccountOverview is the account snapshot plus live case counts.
type AccountOverview struct {
	models.Account
	Cases violations.Summary `json:"cases"`
}

// AccountService serves the account health overview.
type AccountService interface {
	Overview(ctx context.Context) (*AccountOverview, error)
}

type accountService struct {
	accounts repository.AccountRepository
	issues   repository.IssueRepository
	clock    Clock
	policy   violations.Policy
}

// NewAccountService creates a new account service.
func NewAccountService(accounts repository.AccountRepository, issues repository.IssueRepository, clock Clock, policy violations.Policy) AccountService {
	if clock == nil {
		clock = SystemClock()
	}
	if policy.SLAThresholdDays <= 0 {
		policy = violations.DefaultPolicy
	}
	return &accountService{accounts: accounts, issues: issues, clock: clock, policy: policy}
}

func (s *accountService) Overview(ctx context.Context) (*AccountOverview, error) {
	acct, err := s.accounts.Account(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	return &AccountOverview{
		Account: *acct,
		Cases:   violations.Summarize(all, s.clock.Now(), s.policy),
	}, nil
}
