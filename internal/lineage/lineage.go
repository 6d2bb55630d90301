// Package lineage composes the read-side view of the audit trail: entries
// for a rule, resolved against the code, tests, and pipeline runs they
// reference. Pure composition over stored data; nothing here mutates.
package lineage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/govgate/govgate/internal/db"
)

// Store is the storage surface the aggregator needs
type Store interface {
	GetAuditTrail(ctx context.Context) ([]db.AuditEntry, error)
	GetAuditTrailByRuleID(ctx context.Context, ruleID uuid.UUID) ([]db.AuditEntry, error)
	GetRuleByID(ctx context.Context, id uuid.UUID) (*db.Rule, error)
	GetCodeArtifactByID(ctx context.Context, id uuid.UUID) (*db.CodeArtifact, error)
	GetTestSuiteByID(ctx context.Context, id uuid.UUID) (*db.TestSuite, error)
	GetPipelineRunByID(ctx context.Context, id uuid.UUID) (*db.PipelineRun, error)
}

// Entry is an audit entry with its references resolved. Resolved fields are
// nil when the referenced record no longer exists (rules do not cascade).
type Entry struct {
	db.AuditEntry
	CodeArtifact *db.CodeArtifact `json:"code_artifact,omitempty"`
	TestSuite    *db.TestSuite    `json:"test_suite,omitempty"`
	PipelineRun  *db.PipelineRun  `json:"pipeline_run,omitempty"`
}

// RuleLineage is the full lineage view for one rule
type RuleLineage struct {
	Rule    *db.Rule       `json:"rule,omitempty"`
	Entries []Entry        `json:"entries"`
	Summary map[string]int `json:"summary"`
}

// Aggregator builds lineage views
type Aggregator struct {
	store Store
}

// New creates an aggregator
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// AuditTrail returns every audit entry, newest first
func (a *Aggregator) AuditTrail(ctx context.Context) ([]db.AuditEntry, error) {
	return a.store.GetAuditTrail(ctx)
}

// ByRule returns the lineage for one rule: its audit entries newest first,
// each resolved against the records it references, plus per-action counts.
// The rule itself may be nil if it was deleted; its entries survive.
func (a *Aggregator) ByRule(ctx context.Context, ruleID uuid.UUID) (*RuleLineage, error) {
	entries, err := a.store.GetAuditTrailByRuleID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	rule, err := a.store.GetRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	resolved, err := a.resolve(ctx, entries)
	if err != nil {
		return nil, err
	}

	return &RuleLineage{
		Rule:    rule,
		Entries: resolved,
		Summary: Summarize(entries),
	}, nil
}

// Summarize counts entries per action
func Summarize(entries []db.AuditEntry) map[string]int {
	summary := make(map[string]int, len(entries))
	for _, e := range entries {
		summary[e.Action]++
	}
	return summary
}

// resolve looks up every artifact, suite, and run referenced by the entries.
// Lookups are deduplicated and fanned out concurrently; the whole view is
// loaded in memory per call.
func (a *Aggregator) resolve(ctx context.Context, entries []db.AuditEntry) ([]Entry, error) {
	artifactIDs := make(map[uuid.UUID]struct{})
	suiteIDs := make(map[uuid.UUID]struct{})
	runIDs := make(map[uuid.UUID]struct{})
	for _, e := range entries {
		if e.CodeArtifactID != nil {
			artifactIDs[*e.CodeArtifactID] = struct{}{}
		}
		if e.TestSuiteID != nil {
			suiteIDs[*e.TestSuiteID] = struct{}{}
		}
		if e.PipelineRunID != nil {
			runIDs[*e.PipelineRunID] = struct{}{}
		}
	}

	var mu sync.Mutex
	artifacts := make(map[uuid.UUID]*db.CodeArtifact, len(artifactIDs))
	suites := make(map[uuid.UUID]*db.TestSuite, len(suiteIDs))
	runs := make(map[uuid.UUID]*db.PipelineRun, len(runIDs))

	g, gctx := errgroup.WithContext(ctx)
	for id := range artifactIDs {
		g.Go(func() error {
			artifact, err := a.store.GetCodeArtifactByID(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[id] = artifact
			mu.Unlock()
			return nil
		})
	}
	for id := range suiteIDs {
		g.Go(func() error {
			suite, err := a.store.GetTestSuiteByID(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			suites[id] = suite
			mu.Unlock()
			return nil
		})
	}
	for id := range runIDs {
		g.Go(func() error {
			run, err := a.store.GetPipelineRunByID(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			runs[id] = run
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := make([]Entry, len(entries))
	for i, e := range entries {
		entry := Entry{AuditEntry: e}
		if e.CodeArtifactID != nil {
			entry.CodeArtifact = artifacts[*e.CodeArtifactID]
		}
		if e.TestSuiteID != nil {
			entry.TestSuite = suites[*e.TestSuiteID]
		}
		if e.PipelineRunID != nil {
			entry.PipelineRun = runs[*e.PipelineRunID]
		}
		resolved[i] = entry
	}
	return resolved, nil
}
