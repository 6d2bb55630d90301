package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CreateAuditEntry appends an entry to the audit trail. The trail is
// append-only: no update or delete methods exist anywhere in this package.
func (db *DB) CreateAuditEntry(ctx context.Context, input *AuditEntryCreateInput) (*AuditEntry, error) {
	return insertAuditEntry(ctx, db.pool, input)
}

// insertAuditEntry performs the append against a pool or an open transaction,
// so entity writes can include their audit entry atomically.
func insertAuditEntry(ctx context.Context, q querier, input *AuditEntryCreateInput) (*AuditEntry, error) {
	var detailsJSON []byte
	if input.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(input.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	var e AuditEntry
	err := q.QueryRow(ctx,
		`INSERT INTO audit_trail (governance_rule_id, code_artifact_id, test_suite_id,
		                          pipeline_run_id, action, actor, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, governance_rule_id, code_artifact_id, test_suite_id,
		           pipeline_run_id, action, actor, timestamp`,
		input.GovernanceRuleID, input.CodeArtifactID, input.TestSuiteID,
		input.PipelineRunID, input.Action, input.Actor, detailsJSON,
	).Scan(&e.ID, &e.GovernanceRuleID, &e.CodeArtifactID, &e.TestSuiteID,
		&e.PipelineRunID, &e.Action, &e.Actor, &e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit entry: %w", err)
	}

	e.Details = input.Details
	return &e, nil
}

// GetAuditTrail retrieves all audit entries, newest first
func (db *DB) GetAuditTrail(ctx context.Context) ([]AuditEntry, error) {
	return db.queryAuditEntries(ctx,
		`SELECT id, governance_rule_id, code_artifact_id, test_suite_id,
		        pipeline_run_id, action, actor, details, timestamp
		 FROM audit_trail ORDER BY timestamp DESC`)
}

// GetAuditTrailByRuleID retrieves audit entries for one rule, newest first
func (db *DB) GetAuditTrailByRuleID(ctx context.Context, ruleID uuid.UUID) ([]AuditEntry, error) {
	return db.queryAuditEntries(ctx,
		`SELECT id, governance_rule_id, code_artifact_id, test_suite_id,
		        pipeline_run_id, action, actor, details, timestamp
		 FROM audit_trail WHERE governance_rule_id = $1
		 ORDER BY timestamp DESC`, ruleID)
}

func (db *DB) queryAuditEntries(ctx context.Context, query string, args ...any) ([]AuditEntry, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var detailsJSON []byte
		if err := rows.Scan(&e.ID, &e.GovernanceRuleID, &e.CodeArtifactID, &e.TestSuiteID,
			&e.PipelineRunID, &e.Action, &e.Actor, &detailsJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if detailsJSON != nil {
			_ = json.Unmarshal(detailsJSON, &e.Details)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
