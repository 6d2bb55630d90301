package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const runColumns = `id, code_artifact_id, test_suite_id, governance_rule_id, run_number,
	        status, stages, compliance_gate_passed, test_results, triggered_by,
	        started_at, completed_at`

// CreatePipelineRun stores a simulated run and its audit entry in one
// transaction. Runs are immutable once written except for UpdatePipelineRunStatus.
func (db *DB) CreatePipelineRun(ctx context.Context, input *PipelineRunCreateInput, audit *AuditEntryCreateInput) (*PipelineRun, error) {
	stagesJSON, err := json.Marshal(input.Stages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stages: %w", err)
	}
	resultsJSON, err := json.Marshal(input.TestResults)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test results: %w", err)
	}

	var r *PipelineRun
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO pipeline_runs (code_artifact_id, test_suite_id, governance_rule_id,
			                            run_number, status, stages, compliance_gate_passed,
			                            test_results, triggered_by, completed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING `+runColumns,
			input.CodeArtifactID, input.TestSuiteID, input.GovernanceRuleID,
			input.RunNumber, input.Status, stagesJSON, input.ComplianceGatePassed,
			resultsJSON, input.TriggeredBy, input.CompletedAt)

		var scanErr error
		r, scanErr = scanPipelineRun(row)
		if scanErr != nil {
			return fmt.Errorf("failed to create pipeline run: %w", scanErr)
		}

		if audit != nil {
			audit.GovernanceRuleID = input.GovernanceRuleID
			audit.CodeArtifactID = &input.CodeArtifactID
			audit.TestSuiteID = &input.TestSuiteID
			audit.PipelineRunID = &r.ID
			if _, err := insertAuditEntry(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetPipelineRunByID retrieves a run by id, nil if absent
func (db *DB) GetPipelineRunByID(ctx context.Context, id uuid.UUID) (*PipelineRun, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM pipeline_runs WHERE id = $1`, id)

	r, err := scanPipelineRun(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pipeline run: %w", err)
	}
	return r, nil
}

// GetPipelineRuns retrieves all runs, newest first
func (db *DB) GetPipelineRuns(ctx context.Context) ([]PipelineRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM pipeline_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []PipelineRun
	for rows.Next() {
		r, err := scanPipelineRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pipeline run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// UpdatePipelineRunStatus is the single permitted mutation of a stored run
func (db *DB) UpdatePipelineRunStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update pipeline run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "pipeline run", ID: id}
	}
	return nil
}

func scanPipelineRun(row pgx.Row) (*PipelineRun, error) {
	var r PipelineRun
	var stagesJSON, resultsJSON []byte
	err := row.Scan(&r.ID, &r.CodeArtifactID, &r.TestSuiteID, &r.GovernanceRuleID,
		&r.RunNumber, &r.Status, &stagesJSON, &r.ComplianceGatePassed, &resultsJSON,
		&r.TriggeredBy, &r.StartedAt, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	if stagesJSON != nil {
		_ = json.Unmarshal(stagesJSON, &r.Stages)
	}
	if resultsJSON != nil {
		_ = json.Unmarshal(resultsJSON, &r.TestResults)
	}
	return &r, nil
}
