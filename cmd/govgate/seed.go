package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/schemas"
)

var seedFilePath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load governance rules and context documents from a seed file",
	Long:  `Validate a JSON seed file against the seed schema and insert its rules and context documents. Seeded rules get rule_created audit entries attributed to a system user.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFilePath, "file", "seed.json", "Path to the seed file")
	rootCmd.AddCommand(seedCmd)
}

type seedFile struct {
	Rules []struct {
		RuleID        string `json:"rule_id"`
		Title         string `json:"title"`
		Statement     string `json:"statement"`
		SourceOfTruth string `json:"source_of_truth"`
		Category      string `json:"category"`
		Priority      string `json:"priority"`
		Status        string `json:"status"`
	} `json:"rules"`
	ContextDocuments []struct {
		Title    string         `json:"title"`
		Type     string         `json:"type"`
		Content  string         `json:"content"`
		Tags     []string       `json:"tags"`
		Metadata map[string]any `json:"metadata"`
	} `json:"context_documents"`
}

const seedUserEmail = "seed@govgate.local"

func runSeed(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	content, err := os.ReadFile(seedFilePath)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := schemas.ValidateSeed(content); err != nil {
		return fmt.Errorf("seed file invalid: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(content, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	actor, err := ensureSeedUser(ctx, database)
	if err != nil {
		return err
	}

	for _, r := range seed.Rules {
		rule, err := database.CreateRule(ctx, &db.RuleCreateInput{
			RuleID:        r.RuleID,
			Title:         r.Title,
			Statement:     r.Statement,
			SourceOfTruth: r.SourceOfTruth,
			Category:      r.Category,
			Priority:      r.Priority,
			Status:        r.Status,
			CreatedBy:     actor,
		}, &db.AuditEntryCreateInput{
			Action: db.ActionRuleCreated,
			Actor:  actor,
			Details: map[string]any{
				"rule_id": r.RuleID,
				"title":   r.Title,
				"seeded":  true,
			},
		})
		if err != nil {
			var dup *db.DuplicateRuleError
			if errors.As(err, &dup) {
				fmt.Printf("Skipping existing rule %s\n", r.RuleID)
				continue
			}
			return fmt.Errorf("failed to seed rule %s: %w", r.RuleID, err)
		}
		fmt.Printf("Seeded rule %s (%s)\n", rule.RuleID, rule.ID)
	}

	for _, d := range seed.ContextDocuments {
		doc, err := database.CreateContextDocument(ctx, &db.ContextDocumentCreateInput{
			Title:     d.Title,
			Type:      d.Type,
			Content:   d.Content,
			Tags:      d.Tags,
			Metadata:  d.Metadata,
			CreatedBy: actor,
		})
		if err != nil {
			return fmt.Errorf("failed to seed context document %q: %w", d.Title, err)
		}
		fmt.Printf("Seeded context document %q (%s)\n", doc.Title, doc.ID)
	}

	return nil
}

// ensureSeedUser finds or creates the system user seeded data is attributed to.
func ensureSeedUser(ctx context.Context, database *db.DB) (uuid.UUID, error) {
	user, _, err := database.GetUserByEmail(ctx, seedUserEmail)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up seed user: %w", err)
	}
	if user != nil {
		return user.ID, nil
	}

	id, err := database.CreateUser(ctx, "Seed", seedUserEmail)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create seed user: %w", err)
	}
	return id, nil
}
