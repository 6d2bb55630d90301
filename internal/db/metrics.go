package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const metricColumns = `id, governance_rule_id, code_artifact_id, test_suite_id,
	        metric_type, score, details, evaluated_by, evaluated_at`

// CreateEvaluationMetric records a metric. Score bounds are validated at the
// request boundary; the schema CHECK is the backstop.
func (db *DB) CreateEvaluationMetric(ctx context.Context, input *EvaluationMetricCreateInput) (*EvaluationMetric, error) {
	var detailsJSON []byte
	if input.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(input.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metric details: %w", err)
		}
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO evaluation_metrics (governance_rule_id, code_artifact_id, test_suite_id,
		                                 metric_type, score, details, evaluated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+metricColumns,
		input.GovernanceRuleID, input.CodeArtifactID, input.TestSuiteID,
		input.MetricType, input.Score, detailsJSON, input.EvaluatedBy)

	m, err := scanEvaluationMetric(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation metric: %w", err)
	}
	return m, nil
}

// GetEvaluationMetrics retrieves all metrics, newest first
func (db *DB) GetEvaluationMetrics(ctx context.Context) ([]EvaluationMetric, error) {
	return db.queryEvaluationMetrics(ctx,
		`SELECT `+metricColumns+` FROM evaluation_metrics ORDER BY evaluated_at DESC`)
}

// GetEvaluationMetricsByRuleID retrieves metrics for one rule, newest first
func (db *DB) GetEvaluationMetricsByRuleID(ctx context.Context, ruleID uuid.UUID) ([]EvaluationMetric, error) {
	return db.queryEvaluationMetrics(ctx,
		`SELECT `+metricColumns+` FROM evaluation_metrics
		 WHERE governance_rule_id = $1 ORDER BY evaluated_at DESC`, ruleID)
}

func (db *DB) queryEvaluationMetrics(ctx context.Context, query string, args ...any) ([]EvaluationMetric, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation metrics: %w", err)
	}
	defer rows.Close()

	var metrics []EvaluationMetric
	for rows.Next() {
		m, err := scanEvaluationMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation metric: %w", err)
		}
		metrics = append(metrics, *m)
	}
	return metrics, rows.Err()
}

func scanEvaluationMetric(row pgx.Row) (*EvaluationMetric, error) {
	var m EvaluationMetric
	var detailsJSON []byte
	err := row.Scan(&m.ID, &m.GovernanceRuleID, &m.CodeArtifactID, &m.TestSuiteID,
		&m.MetricType, &m.Score, &detailsJSON, &m.EvaluatedBy, &m.EvaluatedAt)
	if err != nil {
		return nil, err
	}
	if detailsJSON != nil {
		_ = json.Unmarshal(detailsJSON, &m.Details)
	}
	return &m, nil
}
