// Package pipeline simulates CI/CD pipeline executions with a compliance
// gate. No build or test process actually runs: the simulator produces a
// fixed stage sequence and records it as a PipelineRun.
package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
)

// Store is the storage surface the simulator needs
type Store interface {
	GetCodeArtifactByID(ctx context.Context, id uuid.UUID) (*db.CodeArtifact, error)
	GetTestSuiteByID(ctx context.Context, id uuid.UUID) (*db.TestSuite, error)
	CreatePipelineRun(ctx context.Context, input *db.PipelineRunCreateInput, audit *db.AuditEntryCreateInput) (*db.PipelineRun, error)
}

// Stage names in execution order
var stageNames = [4]string{"Build", "Unit Tests", "Compliance Gate", "Deploy"}

// Stage window offsets in seconds from the run start. Stage i spans
// [offsets[i], offsets[i+1]].
var stageOffsets = [5]int64{0, 2, 5, 7, 10}

// Simulator produces deterministic pipeline runs
type Simulator struct {
	store Store
	now   func() time.Time
	runNo func() int
}

// New creates a simulator using wall-clock time and random run numbers
func New(store Store) *Simulator {
	return &Simulator{
		store: store,
		now:   time.Now,
		runNo: func() int { return rand.Intn(1000) + 1 },
	}
}

// Run simulates a pipeline execution for an artifact/suite pair and persists
// it. Both ids must resolve; the gate passes whenever they do.
func (s *Simulator) Run(ctx context.Context, artifactID, suiteID, actor uuid.UUID) (*db.PipelineRun, error) {
	artifact, err := s.store.GetCodeArtifactByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, &db.NotFoundError{Kind: "code artifact", ID: artifactID}
	}

	suite, err := s.store.GetTestSuiteByID(ctx, suiteID)
	if err != nil {
		return nil, err
	}
	if suite == nil {
		return nil, &db.NotFoundError{Kind: "test suite", ID: suiteID}
	}

	start := s.now()
	stages := BuildStages(start)
	completedAt := start.Add(time.Duration(stageOffsets[len(stageOffsets)-1]) * time.Second)

	return s.store.CreatePipelineRun(ctx,
		&db.PipelineRunCreateInput{
			CodeArtifactID:       artifactID,
			TestSuiteID:          suiteID,
			GovernanceRuleID:     artifact.GovernanceRuleID,
			RunNumber:            s.runNo(),
			Status:               db.RunStatusPassed,
			Stages:               stages,
			ComplianceGatePassed: true,
			TestResults: db.TestResults{
				Total:  suite.TestCount,
				Passed: suite.TestCount,
				Failed: 0,
			},
			TriggeredBy: actor,
			CompletedAt: &completedAt,
		},
		&db.AuditEntryCreateInput{
			Action: db.ActionPipelineExecuted,
			Actor:  actor,
			Details: map[string]any{
				"status":                 db.RunStatusPassed,
				"compliance_gate_passed": true,
			},
		})
}

// BuildStages produces the four fixed stages, all passed, with millisecond
// timestamps at the synthetic offsets from start.
func BuildStages(start time.Time) []db.Stage {
	base := start.UnixMilli()
	stages := make([]db.Stage, len(stageNames))
	for i, name := range stageNames {
		stages[i] = db.Stage{
			Name:        name,
			Status:      db.StageStatusPassed,
			StartedAt:   base + stageOffsets[i]*1000,
			CompletedAt: base + stageOffsets[i+1]*1000,
		}
	}
	return stages
}
