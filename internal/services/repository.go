package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/temcen/prepforge/pkg/models"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs;
// satisfied by pgxmock in tests.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// CatalogRepository reads the externally materialized collections from
// the document store. All reads are snapshot loads; nothing here
// mutates catalog data.
type CatalogRepository struct {
	db PgxQuerier
}

func NewCatalogRepository(db PgxQuerier) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Problems loads the full problem catalog.
func (r *CatalogRepository) Problems(ctx context.Context) ([]models.Problem, error) {
	query := `
		SELECT id, title, difficulty, description, approach, blind75
		FROM problems
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query problems: %w", err)
	}
	defer rows.Close()

	var problems []models.Problem
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(&p.ID, &p.Title, &p.Difficulty, &p.Description, &p.Approach, &p.Blind75); err != nil {
			return nil, fmt.Errorf("failed to scan problem row: %w", err)
		}
		problems = append(problems, p)
	}

	return problems, rows.Err()
}

// RoleScores loads every role-score record keyed by problem id. Scores
// are stored as jsonb.
func (r *CatalogRepository) RoleScores(ctx context.Context) (map[string]*models.RoleScoreRecord, error) {
	query := `
		SELECT problem_id, scores, data_structures, patterns, domain_concepts, complexity, version
		FROM problem_role_scores
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query role scores: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*models.RoleScoreRecord)
	for rows.Next() {
		var record models.RoleScoreRecord
		var scoresJSON []byte

		err := rows.Scan(
			&record.ProblemID, &scoresJSON, &record.DataStructures,
			&record.Patterns, &record.DomainConcepts, &record.Complexity,
			&record.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role score row: %w", err)
		}

		if len(scoresJSON) > 0 {
			if err := json.Unmarshal(scoresJSON, &record.Scores); err != nil {
				return nil, fmt.Errorf("invalid role scores for problem %s: %w", record.ProblemID, err)
			}
		}

		records[record.ProblemID] = &record
	}

	return records, rows.Err()
}

// CompanyProfile loads one company by id. Returns (nil, nil) when the
// company does not exist; the caller decides whether that is fatal.
func (r *CatalogRepository) CompanyProfile(ctx context.Context, companyID string) (*models.CompanyProfile, error) {
	query := `
		SELECT id, name, technologies, tech_stack, engineering_challenges, problem_domains, buzzwords
		FROM company_profiles
		WHERE id = $1
	`

	var profile models.CompanyProfile
	var techStackJSON []byte

	err := r.db.QueryRow(ctx, query, companyID).Scan(
		&profile.ID, &profile.Name, &profile.Technologies, &techStackJSON,
		&profile.EngineeringChallenges, &profile.ProblemDomains, &profile.Buzzwords,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query company profile %s: %w", companyID, err)
	}

	if len(techStackJSON) > 0 {
		if err := json.Unmarshal(techStackJSON, &profile.TechStack); err != nil {
			return nil, fmt.Errorf("invalid tech stack for company %s: %w", companyID, err)
		}
	}

	return &profile, nil
}

// CompanyFrequency loads all recency-bucket frequency entries for a
// company. A company with no entries yields an empty snapshot, not an
// error.
func (r *CatalogRepository) CompanyFrequency(ctx context.Context, companyID string) (*models.CompanyFrequency, error) {
	query := `
		SELECT bucket, problem_id, frequency, difficulty, topics
		FROM company_frequency
		WHERE company_id = $1
	`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query company frequency for %s: %w", companyID, err)
	}
	defer rows.Close()

	snapshot := &models.CompanyFrequency{
		CompanyID: companyID,
		Buckets:   make(map[models.RecencyBucket][]models.FrequencyEntry),
	}

	for rows.Next() {
		var bucket models.RecencyBucket
		var entry models.FrequencyEntry

		if err := rows.Scan(&bucket, &entry.ProblemID, &entry.Frequency, &entry.Difficulty, &entry.Topics); err != nil {
			return nil, fmt.Errorf("failed to scan frequency row: %w", err)
		}

		snapshot.Buckets[bucket] = append(snapshot.Buckets[bucket], entry)
	}

	return snapshot, rows.Err()
}
