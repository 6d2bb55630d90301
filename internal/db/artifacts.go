package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const artifactColumns = `id, governance_rule_id, language, class_name, code,
	        generation_prompt, context_used, status, generated_by, generated_at`

// CreateCodeArtifact stores a generated artifact and its audit entry in one
// transaction. A failed artifact write leaves no audit entry behind.
func (db *DB) CreateCodeArtifact(ctx context.Context, input *CodeArtifactCreateInput, audit *AuditEntryCreateInput) (*CodeArtifact, error) {
	language := input.Language
	if language == "" {
		language = "csharp"
	}

	contextJSON, err := json.Marshal(input.ContextUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal context ids: %w", err)
	}

	var a *CodeArtifact
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO code_artifacts (governance_rule_id, language, class_name, code,
			                             generation_prompt, context_used, status, generated_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+artifactColumns,
			input.GovernanceRuleID, language, input.ClassName, input.Code,
			input.GenerationPrompt, contextJSON, ArtifactStatusGenerated, input.GeneratedBy)

		var scanErr error
		a, scanErr = scanCodeArtifact(row)
		if scanErr != nil {
			return fmt.Errorf("failed to create code artifact: %w", scanErr)
		}

		if audit != nil {
			audit.GovernanceRuleID = input.GovernanceRuleID
			audit.CodeArtifactID = &a.ID
			if _, err := insertAuditEntry(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetCodeArtifactByID retrieves an artifact by id, nil if absent
func (db *DB) GetCodeArtifactByID(ctx context.Context, id uuid.UUID) (*CodeArtifact, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+artifactColumns+` FROM code_artifacts WHERE id = $1`, id)

	a, err := scanCodeArtifact(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get code artifact: %w", err)
	}
	return a, nil
}

// GetCodeArtifacts retrieves all artifacts, newest first
func (db *DB) GetCodeArtifacts(ctx context.Context) ([]CodeArtifact, error) {
	return db.queryCodeArtifacts(ctx,
		`SELECT `+artifactColumns+` FROM code_artifacts ORDER BY generated_at DESC`)
}

// GetCodeArtifactsByRuleID retrieves artifacts for one rule, newest first
func (db *DB) GetCodeArtifactsByRuleID(ctx context.Context, ruleID uuid.UUID) ([]CodeArtifact, error) {
	return db.queryCodeArtifacts(ctx,
		`SELECT `+artifactColumns+` FROM code_artifacts
		 WHERE governance_rule_id = $1 ORDER BY generated_at DESC`, ruleID)
}

func (db *DB) queryCodeArtifacts(ctx context.Context, query string, args ...any) ([]CodeArtifact, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list code artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []CodeArtifact
	for rows.Next() {
		a, err := scanCodeArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan code artifact: %w", err)
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, rows.Err()
}

func scanCodeArtifact(row pgx.Row) (*CodeArtifact, error) {
	var a CodeArtifact
	var prompt *string
	var contextJSON []byte
	err := row.Scan(&a.ID, &a.GovernanceRuleID, &a.Language, &a.ClassName, &a.Code,
		&prompt, &contextJSON, &a.Status, &a.GeneratedBy, &a.GeneratedAt)
	if err != nil {
		return nil, err
	}
	if prompt != nil {
		a.GenerationPrompt = *prompt
	}
	if contextJSON != nil {
		_ = json.Unmarshal(contextJSON, &a.ContextUsed)
	}
	return &a, nil
}
