package blocksys

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/blocksys"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
	"inkwell/internal/repository/postgres"
)

// PostgresDocumentRepository implements the DocumentRepository interface.
// Block lists are stored in a JSONB column: the block structure is owned
// by the application and the database never queries inside it.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) blocksysRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	blocks, err := json.Marshal(doc.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_id, parent_id, title, icon, cover_image, blocks, is_template, word_count, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		doc.ID,
		doc.WorkspaceID,
		doc.ParentID,
		doc.Title,
		doc.Icon,
		doc.CoverImage,
		blocks,
		doc.IsTemplate,
		doc.WordCount,
		doc.CreatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document %s already exists", doc.ID),
				ResourceType: "document",
				ResourceID:   doc.ID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("workspace %s: %w", doc.WorkspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, workspace_id, parent_id, title, icon, cover_image, blocks, is_template, word_count, created_by, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListByWorkspace returns the workspace's documents in creation order
func (r *PostgresDocumentRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, workspace_id, parent_id, title, icon, cover_image, blocks, is_template, word_count, created_by, created_at, updated_at
		FROM %s
		WHERE workspace_id = $1
		ORDER BY created_at, id
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return documents, nil
}

// Update persists the document's current state
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	blocks, err := json.Marshal(doc.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $2, title = $3, icon = $4, cover_image = $5, blocks = $6, is_template = $7, word_count = $8, updated_at = $9
		WHERE id = $1
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		doc.ID,
		doc.ParentID,
		doc.Title,
		doc.Icon,
		doc.CoverImage,
		blocks,
		doc.IsTemplate,
		doc.WordCount,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a single document
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var blocks []byte
	err := row.Scan(
		&doc.ID,
		&doc.WorkspaceID,
		&doc.ParentID,
		&doc.Title,
		&doc.Icon,
		&doc.CoverImage,
		&blocks,
		&doc.IsTemplate,
		&doc.WordCount,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		if err := json.Unmarshal(blocks, &doc.Blocks); err != nil {
			return nil, fmt.Errorf("decode blocks: %w", err)
		}
	}
	return &doc, nil
}
