package services

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/prepforge/pkg/models"
)

func TestCachedCatalog_ProblemsCachedAcrossCalls(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	cache := NewMemoCache(0, testLogger())
	defer cache.Close()
	catalog := NewCachedCatalog(NewCatalogRepository(mockDB), cache, time.Minute, testLogger())

	rows := pgxmock.NewRows([]string{"id", "title", "difficulty", "description", "approach", "blind75"}).
		AddRow("p1", "Two Sum", models.DifficultyEasy, "", "", true)

	// One expectation only: the second call must come from the cache.
	mockDB.ExpectQuery("SELECT id, title, difficulty").WillReturnRows(rows)

	first, err := catalog.Problems(context.Background())
	require.NoError(t, err)
	second, err := catalog.Problems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCachedCatalog_UnknownCompanyNotCached(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	cache := NewMemoCache(0, testLogger())
	defer cache.Close()
	catalog := NewCachedCatalog(NewCatalogRepository(mockDB), cache, time.Minute, testLogger())

	columns := []string{"id", "name", "technologies", "tech_stack", "engineering_challenges", "problem_domains", "buzzwords"}

	// Both lookups hit the store: a miss is never cached so a backfill
	// becomes visible immediately.
	mockDB.ExpectQuery("SELECT id, name, technologies").
		WithArgs("ghost-corp").
		WillReturnRows(pgxmock.NewRows(columns))
	mockDB.ExpectQuery("SELECT id, name, technologies").
		WithArgs("ghost-corp").
		WillReturnRows(pgxmock.NewRows(columns))

	profile, err := catalog.CompanyProfile(context.Background(), "ghost-corp")
	require.NoError(t, err)
	assert.Nil(t, profile)

	profile, err = catalog.CompanyProfile(context.Background(), "ghost-corp")
	require.NoError(t, err)
	assert.Nil(t, profile)

	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCachedCatalog_CompanyProfileCached(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	cache := NewMemoCache(0, testLogger())
	defer cache.Close()
	catalog := NewCachedCatalog(NewCatalogRepository(mockDB), cache, time.Minute, testLogger())

	rows := pgxmock.NewRows([]string{"id", "name", "technologies", "tech_stack", "engineering_challenges", "problem_domains", "buzzwords"}).
		AddRow("acme", "Acme", []string(nil), []byte(nil), []string(nil), []string(nil), []string(nil))

	mockDB.ExpectQuery("SELECT id, name, technologies").
		WithArgs("acme").
		WillReturnRows(rows)

	first, err := catalog.CompanyProfile(context.Background(), "acme")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := catalog.CompanyProfile(context.Background(), "acme")
	require.NoError(t, err)
	assert.Same(t, first, second, "cached profile must be the shared snapshot")

	require.NoError(t, mockDB.ExpectationsWereMet())
}
