package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const suiteColumns = `id, code_artifact_id, governance_rule_id, framework, test_code,
	        test_count, generation_prompt, status, generated_by, generated_at`

// CreateTestSuite stores a generated test suite and its audit entry in one
// transaction.
func (db *DB) CreateTestSuite(ctx context.Context, input *TestSuiteCreateInput, audit *AuditEntryCreateInput) (*TestSuite, error) {
	framework := input.Framework
	if framework == "" {
		framework = FrameworkXUnit
	}

	var s *TestSuite
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO test_suites (code_artifact_id, governance_rule_id, framework,
			                          test_code, test_count, generation_prompt, status, generated_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+suiteColumns,
			input.CodeArtifactID, input.GovernanceRuleID, framework,
			input.TestCode, input.TestCount, input.GenerationPrompt,
			SuiteStatusGenerated, input.GeneratedBy)

		var scanErr error
		s, scanErr = scanTestSuite(row)
		if scanErr != nil {
			return fmt.Errorf("failed to create test suite: %w", scanErr)
		}

		if audit != nil {
			audit.GovernanceRuleID = input.GovernanceRuleID
			audit.CodeArtifactID = &input.CodeArtifactID
			audit.TestSuiteID = &s.ID
			if _, err := insertAuditEntry(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetTestSuiteByID retrieves a suite by id, nil if absent
func (db *DB) GetTestSuiteByID(ctx context.Context, id uuid.UUID) (*TestSuite, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+suiteColumns+` FROM test_suites WHERE id = $1`, id)

	s, err := scanTestSuite(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get test suite: %w", err)
	}
	return s, nil
}

// GetTestSuites retrieves all suites, newest first
func (db *DB) GetTestSuites(ctx context.Context) ([]TestSuite, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+suiteColumns+` FROM test_suites ORDER BY generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list test suites: %w", err)
	}
	defer rows.Close()

	var suites []TestSuite
	for rows.Next() {
		s, err := scanTestSuite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test suite: %w", err)
		}
		suites = append(suites, *s)
	}
	return suites, rows.Err()
}

func scanTestSuite(row pgx.Row) (*TestSuite, error) {
	var s TestSuite
	var prompt *string
	err := row.Scan(&s.ID, &s.CodeArtifactID, &s.GovernanceRuleID, &s.Framework,
		&s.TestCode, &s.TestCount, &prompt, &s.Status, &s.GeneratedBy, &s.GeneratedAt)
	if err != nil {
		return nil, err
	}
	if prompt != nil {
		s.GenerationPrompt = *prompt
	}
	return &s, nil
}
