package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, title, type, content, tags, metadata,
	        created_by, created_at, updated_at`

// CreateContextDocument stores a new context document
func (db *DB) CreateContextDocument(ctx context.Context, input *ContextDocumentCreateInput) (*ContextDocument, error) {
	tagsJSON, metadataJSON, err := marshalDocumentFields(input.Tags, input.Metadata)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO context_documents (title, type, content, tags, metadata, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+documentColumns,
		input.Title, input.Type, input.Content, tagsJSON, metadataJSON, input.CreatedBy)

	d, err := scanContextDocument(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create context document: %w", err)
	}
	return d, nil
}

// GetContextDocumentByID retrieves a document by id, nil if absent
func (db *DB) GetContextDocumentByID(ctx context.Context, id uuid.UUID) (*ContextDocument, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM context_documents WHERE id = $1`, id)

	d, err := scanContextDocument(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get context document: %w", err)
	}
	return d, nil
}

// GetContextDocuments retrieves all documents, newest first
func (db *DB) GetContextDocuments(ctx context.Context) ([]ContextDocument, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM context_documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list context documents: %w", err)
	}
	defer rows.Close()

	var docs []ContextDocument
	for rows.Next() {
		d, err := scanContextDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan context document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// UpdateContextDocument applies a partial update. Returns NotFoundError if
// the document does not exist.
func (db *DB) UpdateContextDocument(ctx context.Context, id uuid.UUID, input *ContextDocumentUpdateInput) (*ContextDocument, error) {
	var sets []string
	var args []any
	argNum := 1

	if input.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argNum))
		args = append(args, *input.Title)
		argNum++
	}
	if input.Content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", argNum))
		args = append(args, *input.Content)
		argNum++
	}
	if input.Tags != nil {
		tagsJSON, err := json.Marshal(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		sets = append(sets, fmt.Sprintf("tags = $%d", argNum))
		args = append(args, tagsJSON)
		argNum++
	}
	if input.Metadata != nil {
		metadataJSON, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		sets = append(sets, fmt.Sprintf("metadata = $%d", argNum))
		args = append(args, metadataJSON)
		argNum++
	}

	if len(sets) == 0 {
		return db.GetContextDocumentByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE context_documents SET %s WHERE id = $%d RETURNING `+documentColumns,
		strings.Join(sets, ", "), argNum)

	row := db.pool.QueryRow(ctx, query, args...)
	d, err := scanContextDocument(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "context document", ID: id}
		}
		return nil, fmt.Errorf("failed to update context document: %w", err)
	}
	return d, nil
}

// DeleteContextDocument removes a document. Returns NotFoundError if absent.
func (db *DB) DeleteContextDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM context_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete context document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "context document", ID: id}
	}
	return nil
}

func marshalDocumentFields(tags []string, metadata map[string]any) ([]byte, []byte, error) {
	var tagsJSON, metadataJSON []byte
	var err error
	if tags != nil {
		tagsJSON, err = json.Marshal(tags)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
	}
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}
	return tagsJSON, metadataJSON, nil
}

func scanContextDocument(row pgx.Row) (*ContextDocument, error) {
	var d ContextDocument
	var tagsJSON, metadataJSON []byte
	err := row.Scan(&d.ID, &d.Title, &d.Type, &d.Content, &tagsJSON, &metadataJSON,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tagsJSON != nil {
		_ = json.Unmarshal(tagsJSON, &d.Tags)
	}
	if metadataJSON != nil {
		_ = json.Unmarshal(metadataJSON, &d.Metadata)
	}
	return &d, nil
}
