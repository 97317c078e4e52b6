package repository

import (
	"context"
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

//go:embed data/*.yaml
var sampleData embed.FS

// MemoryRepository serves a fixed record set loaded once at startup.
// It is never written after construction, so reads need no locking.
type MemoryRepository struct {
	issues  []models.Issue
	byID    map[string]int
	account models.Account
}

// NewMemoryRepository validates the records and indexes them by id.
func NewMemoryRepository(issues []models.Issue, account models.Account) (*MemoryRepository, error) {
	r := &MemoryRepository{
		issues:  make([]models.Issue, 0, len(issues)),
		byID:    make(map[string]int, len(issues)),
		account: account,
	}
	for i := range issues {
		is := issues[i]
		if err := is.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[is.ID]; dup {
			return nil, fmt.Errorf("duplicate issue id %q", is.ID)
		}
		r.byID[is.ID] = len(r.issues)
		r.issues = append(r.issues, cloneIssue(is))
	}
	return r, nil
}

// LoadSample builds a repository from the embedded sample data set.
func LoadSample() (*MemoryRepository, error) {
	issuesRaw, err := sampleData.ReadFile("data/issues.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read sample issues: %w", err)
	}
	accountRaw, err := sampleData.ReadFile("data/account.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read sample account: %w", err)
	}
	return load(issuesRaw, accountRaw)
}

// LoadFiles builds a repository from YAML files on disk. An empty path
// falls back to the embedded sample for that part.
func LoadFiles(issuesPath, accountPath string) (*MemoryRepository, error) {
	issuesRaw, err := readOrSample(issuesPath, "data/issues.yaml")
	if err != nil {
		return nil, err
	}
	accountRaw, err := readOrSample(accountPath, "data/account.yaml")
	if err != nil {
		return nil, err
	}
	return load(issuesRaw, accountRaw)
}

func readOrSample(path, sample string) ([]byte, error) {
	if path == "" {
		return sampleData.ReadFile(sample)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

func load(issuesRaw, accountRaw []byte) (*MemoryRepository, error) {
	var issues []models.Issue
	if err := yaml.Unmarshal(issuesRaw, &issues); err != nil {
		return nil, fmt.Errorf("failed to parse issues: %w", err)
	}
	var account models.Account
	if err := yaml.Unmarshal(accountRaw, &account); err != nil {
		return nil, fmt.Errorf("failed to parse account: %w", err)
	}
	return NewMemoryRepository(issues, account)
}

// List returns a copy of every record in load order.
func (r *MemoryRepository) List(ctx context.Context) ([]models.Issue, error) {
	out := make([]models.Issue, len(r.issues))
	for i := range r.issues {
		out[i] = cloneIssue(r.issues[i])
	}
	return out, nil
}

// Get returns a copy of the record with the given id.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Issue, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}
	is := cloneIssue(r.issues[idx])
	return &is, nil
}

// Account returns a copy of the account snapshot.
func (r *MemoryRepository) Account(ctx context.Context) (*models.Account, error) {
	a := r.account
	a.HealthMetrics = append([]models.HealthMetric(nil), r.account.HealthMetrics...)
	a.Alerts = append([]models.Alert(nil), r.account.Alerts...)
	a.BusinessMetrics = append([]models.BusinessMetric(nil), r.account.BusinessMetrics...)
	a.Performance = append([]models.PerformancePoint(nil), r.account.Performance...)
	return &a, nil
}

func cloneIssue(is models.Issue) models.Issue {
	is.Log = append([]models.LogEntry{}, is.Log...)
	return is
}
