package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "financeiro.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financeiro.db")
	logger := logging.NewMockLogger()
	ctx := context.Background()

	s, err := New(path, logger)
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, models.Category{UserID: 1, Name: "Saúde"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// migrations are idempotent
	s, err = New(path, logger)
	require.NoError(t, err)
	defer s.Close()

	c, err := s.FindCategoryByName(ctx, 1, "Saúde")
	require.NoError(t, err)
	assert.Equal(t, "Saúde", c.Name)
	assert.Len(t, logger.EntriesByLevel("INFO"), 2)
}

func TestSaveTransaction_UnknownCategoryRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	missing := int64(42)
	_, err := s.SaveTransaction(ctx, models.Transaction{
		UserID:     1,
		Name:       "Órfã",
		Date:       mustDate(t, "2024-01-01"),
		CategoryID: &missing,
	})
	assert.Error(t, err, "foreign keys are enforced")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutils.ParseISODate(s)
	require.NoError(t, err)
	return d
}
