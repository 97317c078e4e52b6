package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

func TestLoadSample(t *testing.T) {
	repo, err := LoadSample()
	require.NoError(t, err)

	issues, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 6)
	assert.Equal(t, "C001", issues[0].ID)
	assert.Equal(t, models.ImpactHigh, issues[0].Impact)
	assert.Len(t, issues[0].Log, 3)

	acct, err := repo.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A1B2C3D4E5F6G7", acct.SellerID)
	assert.Equal(t, 978, acct.HealthScore)
	assert.Len(t, acct.Performance, 12)
}

func TestGet(t *testing.T) {
	repo, err := LoadSample()
	require.NoError(t, err)

	is, err := repo.Get(context.Background(), "C004")
	require.NoError(t, err)
	assert.Equal(t, "Smart LED Light Bulb", is.Product)

	_, err = repo.Get(context.Background(), "C999")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListReturnsCopies(t *testing.T) {
	repo, err := LoadSample()
	require.NoError(t, err)

	first, _ := repo.List(context.Background())
	first[0].Product = "mutated"
	first[0].Log[0].Event = "mutated"

	second, _ := repo.List(context.Background())
	assert.Equal(t, "Wireless Ergonomic Mouse", second[0].Product)
	assert.Equal(t, "Issue automatically detected.", second[0].Log[0].Event)
}

func TestNewMemoryRepositoryRejectsDuplicates(t *testing.T) {
	is := models.Issue{ID: "C1", Status: models.StatusNew, Impact: models.ImpactLow, Opened: models.NewDate(2025, 1, 1)}
	_, err := NewMemoryRepository([]models.Issue{is, is}, models.Account{})
	assert.ErrorContains(t, err, "duplicate issue id")
}

func TestLoadFilesRejectsUnknownStatus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.yaml")
	content := `
- id: X1
  asin: B000000000
  product: Widget
  type: IP Complaint
  status: Escalated
  opened: 2025-09-01
  atRiskSales: 10
  impact: High
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadFiles(path, "")
	assert.ErrorContains(t, err, "invalid status")
}
