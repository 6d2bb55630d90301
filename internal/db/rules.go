package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DuplicateRuleError indicates a rule with the same external rule id already exists
type DuplicateRuleError struct {
	RuleID string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule id already exists: %s", e.RuleID)
}

// NotFoundError indicates a referenced record does not exist
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

const ruleColumns = `id, rule_id, title, statement, source_of_truth, category,
	        priority, status, created_by, created_at, updated_at`

// CreateRule inserts a rule and its audit entry in one transaction.
// A duplicate external rule id returns DuplicateRuleError.
func (db *DB) CreateRule(ctx context.Context, input *RuleCreateInput, audit *AuditEntryCreateInput) (*Rule, error) {
	status := input.Status
	if status == "" {
		status = RuleStatusDraft
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	var r Rule
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO governance_rules (rule_id, title, statement, source_of_truth,
			                               category, priority, status, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+ruleColumns,
			input.RuleID, input.Title, input.Statement, input.SourceOfTruth,
			input.Category, priority, status, input.CreatedBy,
		).Scan(&r.ID, &r.RuleID, &r.Title, &r.Statement, &r.SourceOfTruth, &r.Category,
			&r.Priority, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return &DuplicateRuleError{RuleID: input.RuleID}
			}
			return fmt.Errorf("failed to create rule: %w", err)
		}

		if audit != nil {
			audit.GovernanceRuleID = r.ID
			if _, err := insertAuditEntry(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRuleByID retrieves a rule by its internal id, nil if absent
func (db *DB) GetRuleByID(ctx context.Context, id uuid.UUID) (*Rule, error) {
	var r Rule
	err := db.pool.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM governance_rules WHERE id = $1`, id,
	).Scan(&r.ID, &r.RuleID, &r.Title, &r.Statement, &r.SourceOfTruth, &r.Category,
		&r.Priority, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return &r, nil
}

// GetRules retrieves all rules, newest first
func (db *DB) GetRules(ctx context.Context) ([]Rule, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+ruleColumns+` FROM governance_rules ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.ID, &r.RuleID, &r.Title, &r.Statement, &r.SourceOfTruth,
			&r.Category, &r.Priority, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// UpdateRule applies a partial update and appends the audit entry in one
// transaction. Returns NotFoundError if the rule does not exist.
func (db *DB) UpdateRule(ctx context.Context, id uuid.UUID, input *RuleUpdateInput, audit *AuditEntryCreateInput) (*Rule, error) {
	var sets []string
	var args []any
	argNum := 1

	appendSet := func(column string, value *string) {
		if value != nil {
			sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
			args = append(args, *value)
			argNum++
		}
	}
	appendSet("title", input.Title)
	appendSet("statement", input.Statement)
	appendSet("source_of_truth", input.SourceOfTruth)
	appendSet("category", input.Category)
	appendSet("priority", input.Priority)
	appendSet("status", input.Status)

	if len(sets) == 0 {
		return db.GetRuleByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE governance_rules SET %s WHERE id = $%d RETURNING `+ruleColumns,
		strings.Join(sets, ", "), argNum)

	var r Rule
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query, args...).Scan(
			&r.ID, &r.RuleID, &r.Title, &r.Statement, &r.SourceOfTruth, &r.Category,
			&r.Priority, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			if err == pgx.ErrNoRows {
				return &NotFoundError{Kind: "rule", ID: id}
			}
			return fmt.Errorf("failed to update rule: %w", err)
		}

		if audit != nil {
			audit.GovernanceRuleID = r.ID
			if _, err := insertAuditEntry(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRule removes a rule and records the deletion. Dependent artifacts,
// suites, runs, and audit entries are untouched: there is no cascade.
func (db *DB) DeleteRule(ctx context.Context, id uuid.UUID, audit *AuditEntryCreateInput) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM governance_rules WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete rule: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &NotFoundError{Kind: "rule", ID: id}
		}

		if audit != nil {
			audit.GovernanceRuleID = id
			if _, err := insertAuditEntry(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
}
