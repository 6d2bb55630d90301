package db

import (
	"time"

	"github.com/google/uuid"
)

// Rule priority levels
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Rule statuses
const (
	RuleStatusDraft    = "draft"
	RuleStatusActive   = "active"
	RuleStatusArchived = "archived"
)

// Context document types
const (
	DocTypeRegulatory       = "regulatory_doc"
	DocTypeADR              = "adr"
	DocTypeUtilitySignature = "utility_signature"
	DocTypeBestPractice     = "best_practice"
)

// Code artifact statuses
const (
	ArtifactStatusGenerated = "generated"
	ArtifactStatusValidated = "validated"
	ArtifactStatusDeployed  = "deployed"
)

// Test suite frameworks and statuses
const (
	FrameworkXUnit = "xunit"
	FrameworkNUnit = "nunit"

	SuiteStatusGenerated = "generated"
	SuiteStatusPassing   = "passing"
	SuiteStatusFailing   = "failing"
)

// Pipeline run and stage statuses
const (
	RunStatusPending = "pending"
	RunStatusRunning = "running"
	RunStatusPassed  = "passed"
	RunStatusFailed  = "failed"
	RunStatusBlocked = "blocked"

	StageStatusPending = "pending"
	StageStatusRunning = "running"
	StageStatusPassed  = "passed"
	StageStatusFailed  = "failed"
)

// Evaluation metric types
const (
	MetricPromptEffectiveness = "prompt_effectiveness"
	MetricRuleAdherence       = "rule_adherence"
	MetricCodeQuality         = "code_quality"
	MetricTestCoverage        = "test_coverage"
)

// Audit action constants for known mutation events
const (
	ActionRuleCreated      = "rule_created"
	ActionRuleUpdated      = "rule_updated"
	ActionRuleDeleted      = "rule_deleted"
	ActionCodeGenerated    = "code_generated"
	ActionTestsGenerated   = "tests_generated"
	ActionPipelineExecuted = "pipeline_executed"
)

// Rule represents a governance rule tracked by a stable external identifier
type Rule struct {
	ID            uuid.UUID `json:"id"`
	RuleID        string    `json:"rule_id"`
	Title         string    `json:"title"`
	Statement     string    `json:"statement"`
	SourceOfTruth string    `json:"source_of_truth"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RuleCreateInput holds fields for creating a rule
type RuleCreateInput struct {
	RuleID        string
	Title         string
	Statement     string
	SourceOfTruth string
	Category      string
	Priority      string
	Status        string
	CreatedBy     uuid.UUID
}

// RuleUpdateInput holds optional fields for a partial rule update.
// Nil fields are left unchanged.
type RuleUpdateInput struct {
	Title         *string
	Statement     *string
	SourceOfTruth *string
	Category      *string
	Priority      *string
	Status        *string
}

// ContextDocument represents reference material supplied to generation prompts
type ContextDocument struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedBy uuid.UUID      `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ContextDocumentCreateInput holds fields for creating a context document
type ContextDocumentCreateInput struct {
	Title     string
	Type      string
	Content   string
	Tags      []string
	Metadata  map[string]any
	CreatedBy uuid.UUID
}

// ContextDocumentUpdateInput holds optional fields for a partial document update
type ContextDocumentUpdateInput struct {
	Title    *string
	Content  *string
	Tags     []string
	Metadata map[string]any
}

// CodeArtifact represents generated code bound to a governance rule
type CodeArtifact struct {
	ID               uuid.UUID   `json:"id"`
	GovernanceRuleID uuid.UUID   `json:"governance_rule_id"`
	Language         string      `json:"language"`
	ClassName        string      `json:"class_name"`
	Code             string      `json:"code"`
	GenerationPrompt string      `json:"generation_prompt,omitempty"`
	ContextUsed      []uuid.UUID `json:"context_used,omitempty"`
	Status           string      `json:"status"`
	GeneratedBy      uuid.UUID   `json:"generated_by"`
	GeneratedAt      time.Time   `json:"generated_at"`
}

// CodeArtifactCreateInput holds fields for storing a generated artifact
type CodeArtifactCreateInput struct {
	GovernanceRuleID uuid.UUID
	Language         string
	ClassName        string
	Code             string
	GenerationPrompt string
	ContextUsed      []uuid.UUID
	GeneratedBy      uuid.UUID
}

// TestSuite represents a generated compliance test suite
type TestSuite struct {
	ID               uuid.UUID `json:"id"`
	CodeArtifactID   uuid.UUID `json:"code_artifact_id"`
	GovernanceRuleID uuid.UUID `json:"governance_rule_id"`
	Framework        string    `json:"framework"`
	TestCode         string    `json:"test_code"`
	TestCount        int       `json:"test_count"`
	GenerationPrompt string    `json:"generation_prompt,omitempty"`
	Status           string    `json:"status"`
	GeneratedBy      uuid.UUID `json:"generated_by"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// TestSuiteCreateInput holds fields for storing a generated test suite
type TestSuiteCreateInput struct {
	CodeArtifactID   uuid.UUID
	GovernanceRuleID uuid.UUID
	Framework        string
	TestCode         string
	TestCount        int
	GenerationPrompt string
	GeneratedBy      uuid.UUID
}

// Stage is a single simulated pipeline stage with millisecond timestamps
type Stage struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	StartedAt   int64  `json:"started_at"`
	CompletedAt int64  `json:"completed_at"`
}

// TestResults summarizes simulated test execution for a run
type TestResults struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// PipelineRun represents a simulated CI/CD pipeline execution
type PipelineRun struct {
	ID                   uuid.UUID   `json:"id"`
	CodeArtifactID       uuid.UUID   `json:"code_artifact_id"`
	TestSuiteID          uuid.UUID   `json:"test_suite_id"`
	GovernanceRuleID     uuid.UUID   `json:"governance_rule_id"`
	RunNumber            int         `json:"run_number"`
	Status               string      `json:"status"`
	Stages               []Stage     `json:"stages"`
	ComplianceGatePassed bool        `json:"compliance_gate_passed"`
	TestResults          TestResults `json:"test_results"`
	TriggeredBy          uuid.UUID   `json:"triggered_by"`
	StartedAt            time.Time   `json:"started_at"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
}

// PipelineRunCreateInput holds fields for storing a simulated run
type PipelineRunCreateInput struct {
	CodeArtifactID       uuid.UUID
	TestSuiteID          uuid.UUID
	GovernanceRuleID     uuid.UUID
	RunNumber            int
	Status               string
	Stages               []Stage
	ComplianceGatePassed bool
	TestResults          TestResults
	TriggeredBy          uuid.UUID
	CompletedAt          *time.Time
}

// EvaluationMetric records a quality score for generated output
type EvaluationMetric struct {
	ID               uuid.UUID      `json:"id"`
	GovernanceRuleID uuid.UUID      `json:"governance_rule_id"`
	CodeArtifactID   *uuid.UUID     `json:"code_artifact_id,omitempty"`
	TestSuiteID      *uuid.UUID     `json:"test_suite_id,omitempty"`
	MetricType       string         `json:"metric_type"`
	Score            int            `json:"score"`
	Details          map[string]any `json:"details,omitempty"`
	EvaluatedBy      string         `json:"evaluated_by"`
	EvaluatedAt      time.Time      `json:"evaluated_at"`
}

// EvaluationMetricCreateInput holds fields for recording a metric
type EvaluationMetricCreateInput struct {
	GovernanceRuleID uuid.UUID
	CodeArtifactID   *uuid.UUID
	TestSuiteID      *uuid.UUID
	MetricType       string
	Score            int
	Details          map[string]any
	EvaluatedBy      string
}

// AuditEntry is an append-only lineage record tying a rule to the
// code, tests, and pipeline runs it produced
type AuditEntry struct {
	ID               uuid.UUID      `json:"id"`
	GovernanceRuleID uuid.UUID      `json:"governance_rule_id"`
	CodeArtifactID   *uuid.UUID     `json:"code_artifact_id,omitempty"`
	TestSuiteID      *uuid.UUID     `json:"test_suite_id,omitempty"`
	PipelineRunID    *uuid.UUID     `json:"pipeline_run_id,omitempty"`
	Action           string         `json:"action"`
	Actor            uuid.UUID      `json:"actor"`
	Details          map[string]any `json:"details,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// AuditEntryCreateInput holds fields for appending an audit entry
type AuditEntryCreateInput struct {
	GovernanceRuleID uuid.UUID
	CodeArtifactID   *uuid.UUID
	TestSuiteID      *uuid.UUID
	PipelineRunID    *uuid.UUID
	Action           string
	Actor            uuid.UUID
	Details          map[string]any
}

// User represents an authenticated actor
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
