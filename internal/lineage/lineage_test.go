package lineage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govgate/govgate/internal/db"
)

type fakeStore struct {
	trail     []db.AuditEntry
	rules     map[uuid.UUID]*db.Rule
	artifacts map[uuid.UUID]*db.CodeArtifact
	suites    map[uuid.UUID]*db.TestSuite
	runs      map[uuid.UUID]*db.PipelineRun

	artifactLookups atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rules:     make(map[uuid.UUID]*db.Rule),
		artifacts: make(map[uuid.UUID]*db.CodeArtifact),
		suites:    make(map[uuid.UUID]*db.TestSuite),
		runs:      make(map[uuid.UUID]*db.PipelineRun),
	}
}

func (f *fakeStore) GetAuditTrail(_ context.Context) ([]db.AuditEntry, error) {
	return f.trail, nil
}

func (f *fakeStore) GetAuditTrailByRuleID(_ context.Context, ruleID uuid.UUID) ([]db.AuditEntry, error) {
	var entries []db.AuditEntry
	for _, e := range f.trail {
		if e.GovernanceRuleID == ruleID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (f *fakeStore) GetRuleByID(_ context.Context, id uuid.UUID) (*db.Rule, error) {
	return f.rules[id], nil
}

func (f *fakeStore) GetCodeArtifactByID(_ context.Context, id uuid.UUID) (*db.CodeArtifact, error) {
	f.artifactLookups.Add(1)
	return f.artifacts[id], nil
}

func (f *fakeStore) GetTestSuiteByID(_ context.Context, id uuid.UUID) (*db.TestSuite, error) {
	return f.suites[id], nil
}

func (f *fakeStore) GetPipelineRunByID(_ context.Context, id uuid.UUID) (*db.PipelineRun, error) {
	return f.runs[id], nil
}

func TestByRule_FullLineage(t *testing.T) {
	store := newFakeStore()
	ruleID := uuid.New()
	artifactID := uuid.New()
	suiteID := uuid.New()
	runID := uuid.New()
	actor := uuid.New()

	store.rules[ruleID] = &db.Rule{ID: ruleID, RuleID: "GOV-001", Title: "Data retention limits"}
	store.artifacts[artifactID] = &db.CodeArtifact{ID: artifactID, GovernanceRuleID: ruleID, ClassName: "RetentionGovernor"}
	store.suites[suiteID] = &db.TestSuite{ID: suiteID, GovernanceRuleID: ruleID, TestCount: 3}
	store.runs[runID] = &db.PipelineRun{ID: runID, GovernanceRuleID: ruleID, RunNumber: 7}

	now := time.Now()
	store.trail = []db.AuditEntry{
		{GovernanceRuleID: ruleID, PipelineRunID: &runID, CodeArtifactID: &artifactID, TestSuiteID: &suiteID, Action: db.ActionPipelineExecuted, Actor: actor, Timestamp: now},
		{GovernanceRuleID: ruleID, CodeArtifactID: &artifactID, TestSuiteID: &suiteID, Action: db.ActionTestsGenerated, Actor: actor, Timestamp: now.Add(-time.Minute)},
		{GovernanceRuleID: ruleID, CodeArtifactID: &artifactID, Action: db.ActionCodeGenerated, Actor: actor, Timestamp: now.Add(-2 * time.Minute)},
		{GovernanceRuleID: ruleID, Action: db.ActionRuleCreated, Actor: actor, Timestamp: now.Add(-3 * time.Minute)},
	}

	lineage, err := New(store).ByRule(context.Background(), ruleID)
	require.NoError(t, err)

	require.NotNil(t, lineage.Rule)
	assert.Equal(t, "GOV-001", lineage.Rule.RuleID)
	require.Len(t, lineage.Entries, 4)

	// Newest entry carries all three resolved references
	first := lineage.Entries[0]
	require.NotNil(t, first.PipelineRun)
	assert.Equal(t, 7, first.PipelineRun.RunNumber)
	require.NotNil(t, first.CodeArtifact)
	assert.Equal(t, "RetentionGovernor", first.CodeArtifact.ClassName)
	require.NotNil(t, first.TestSuite)
	assert.Equal(t, 3, first.TestSuite.TestCount)

	// Creation entry has nothing to resolve
	last := lineage.Entries[3]
	assert.Nil(t, last.CodeArtifact)
	assert.Nil(t, last.TestSuite)
	assert.Nil(t, last.PipelineRun)

	assert.Equal(t, map[string]int{
		db.ActionRuleCreated:      1,
		db.ActionCodeGenerated:    1,
		db.ActionTestsGenerated:   1,
		db.ActionPipelineExecuted: 1,
	}, lineage.Summary)

	// The artifact referenced three times is fetched once
	assert.Equal(t, int32(1), store.artifactLookups.Load())
}

func TestByRule_DeletedRuleKeepsEntries(t *testing.T) {
	store := newFakeStore()
	ruleID := uuid.New()
	actor := uuid.New()

	store.trail = []db.AuditEntry{
		{GovernanceRuleID: ruleID, Action: db.ActionRuleDeleted, Actor: actor},
		{GovernanceRuleID: ruleID, Action: db.ActionRuleCreated, Actor: actor},
	}

	lineage, err := New(store).ByRule(context.Background(), ruleID)
	require.NoError(t, err)

	assert.Nil(t, lineage.Rule)
	assert.Len(t, lineage.Entries, 2)
	assert.Equal(t, 1, lineage.Summary[db.ActionRuleDeleted])
}

func TestByRule_DanglingReference(t *testing.T) {
	store := newFakeStore()
	ruleID := uuid.New()
	artifactID := uuid.New() // never stored

	store.rules[ruleID] = &db.Rule{ID: ruleID, RuleID: "GOV-002"}
	store.trail = []db.AuditEntry{
		{GovernanceRuleID: ruleID, CodeArtifactID: &artifactID, Action: db.ActionCodeGenerated, Actor: uuid.New()},
	}

	lineage, err := New(store).ByRule(context.Background(), ruleID)
	require.NoError(t, err)

	require.Len(t, lineage.Entries, 1)
	assert.Nil(t, lineage.Entries[0].CodeArtifact)
	require.NotNil(t, lineage.Entries[0].CodeArtifactID)
}

func TestByRule_NoEntries(t *testing.T) {
	lineage, err := New(newFakeStore()).ByRule(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Nil(t, lineage.Rule)
	assert.Empty(t, lineage.Entries)
	assert.Empty(t, lineage.Summary)
}

func TestSummarize(t *testing.T) {
	entries := []db.AuditEntry{
		{Action: db.ActionRuleCreated},
		{Action: db.ActionCodeGenerated},
		{Action: db.ActionCodeGenerated},
		{Action: db.ActionRuleUpdated},
	}

	assert.Equal(t, map[string]int{
		db.ActionRuleCreated:   1,
		db.ActionRuleUpdated:   1,
		db.ActionCodeGenerated: 2,
	}, Summarize(entries))
}
