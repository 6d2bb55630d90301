// Package generation orchestrates code and test generation: it assembles a
// prompt from a governance rule and optional context documents, makes a
// single call to the text-generation service, applies best-effort extraction
// heuristics to the response, and persists the result with its audit entry.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/llm"
	"github.com/govgate/govgate/internal/prompts"
)

const promptFile = "generation.json"

// Store is the storage surface the orchestrator needs
type Store interface {
	GetRuleByID(ctx context.Context, id uuid.UUID) (*db.Rule, error)
	GetContextDocumentByID(ctx context.Context, id uuid.UUID) (*db.ContextDocument, error)
	GetCodeArtifactByID(ctx context.Context, id uuid.UUID) (*db.CodeArtifact, error)
	CreateCodeArtifact(ctx context.Context, input *db.CodeArtifactCreateInput, audit *db.AuditEntryCreateInput) (*db.CodeArtifact, error)
	CreateTestSuite(ctx context.Context, input *db.TestSuiteCreateInput, audit *db.AuditEntryCreateInput) (*db.TestSuite, error)
}

// GenerationError indicates the text-generation call failed or returned
// unusable content. The triggering operation fails as a whole: nothing is
// persisted.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Orchestrator coordinates prompt assembly, the LLM call, and persistence
type Orchestrator struct {
	store Store
	llm   llm.Client
}

// New creates an orchestrator
func New(store Store, client llm.Client) *Orchestrator {
	return &Orchestrator{store: store, llm: client}
}

// GenerateCode generates enforcement code for a rule and stores it as a
// CodeArtifact. Missing context document ids are skipped silently; a missing
// rule is a NotFoundError.
func (o *Orchestrator) GenerateCode(ctx context.Context, ruleID uuid.UUID, contextDocIDs []uuid.UUID, actor uuid.UUID) (*db.CodeArtifact, error) {
	rule, err := o.store.GetRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, &db.NotFoundError{Kind: "rule", ID: ruleID}
	}

	contextSection, err := o.assembleContext(ctx, contextDocIDs)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "code_user"), map[string]string{
		"RuleID":         rule.RuleID,
		"Title":          rule.Title,
		"Statement":      rule.Statement,
		"SourceOfTruth":  rule.SourceOfTruth,
		"ContextSection": contextSection,
	})

	code, err := o.llm.GenerateContent(ctx, prompts.MustGet(promptFile, "code_system"), prompt, llm.TierStandard)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	className := ExtractClassName(code)

	return o.store.CreateCodeArtifact(ctx,
		&db.CodeArtifactCreateInput{
			GovernanceRuleID: ruleID,
			ClassName:        className,
			Code:             code,
			GenerationPrompt: prompt,
			ContextUsed:      contextDocIDs,
			GeneratedBy:      actor,
		},
		&db.AuditEntryCreateInput{
			Action:  db.ActionCodeGenerated,
			Actor:   actor,
			Details: map[string]any{"class_name": className},
		})
}

// GenerateTests generates a compliance test suite for a stored artifact.
// Framework defaults to xunit.
func (o *Orchestrator) GenerateTests(ctx context.Context, artifactID uuid.UUID, framework string, actor uuid.UUID) (*db.TestSuite, error) {
	artifact, err := o.store.GetCodeArtifactByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, &db.NotFoundError{Kind: "code artifact", ID: artifactID}
	}

	rule, err := o.store.GetRuleByID(ctx, artifact.GovernanceRuleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, &db.NotFoundError{Kind: "rule", ID: artifact.GovernanceRuleID}
	}

	if framework == "" {
		framework = db.FrameworkXUnit
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "test_user"), map[string]string{
		"Statement": rule.Statement,
		"Code":      artifact.Code,
		"Framework": framework,
	})
	system := prompts.Format(prompts.MustGet(promptFile, "test_system"), map[string]string{
		"Framework": framework,
	})

	testCode, err := o.llm.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	testCount := CountTests(testCode)

	return o.store.CreateTestSuite(ctx,
		&db.TestSuiteCreateInput{
			CodeArtifactID:   artifactID,
			GovernanceRuleID: artifact.GovernanceRuleID,
			Framework:        framework,
			TestCode:         testCode,
			TestCount:        testCount,
			GenerationPrompt: prompt,
			GeneratedBy:      actor,
		},
		&db.AuditEntryCreateInput{
			Action:  db.ActionTestsGenerated,
			Actor:   actor,
			Details: map[string]any{"framework": framework, "test_count": testCount},
		})
}

// assembleContext concatenates the bodies of resolvable context documents.
// Unresolvable ids are skipped rather than failing the generation.
func (o *Orchestrator) assembleContext(ctx context.Context, ids []uuid.UUID) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}

	var sections []string
	for _, id := range ids {
		doc, err := o.store.GetContextDocumentByID(ctx, id)
		if err != nil {
			return "", err
		}
		if doc == nil {
			continue
		}
		sections = append(sections, fmt.Sprintf("%s:\n%s", doc.Title, doc.Content))
	}

	if len(sections) == 0 {
		return "", nil
	}
	return fmt.Sprintf("Additional Context:\n%s\n\n", strings.Join(sections, "\n\n")), nil
}
