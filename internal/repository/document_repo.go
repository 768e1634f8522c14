package repository

import (
	"context"
	"errors"
	"fmt"

	"document_manager/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrDuplicateSlug is returned when the documents.slug uniqueness constraint
// rejects an insert. The service retries allocation on it.
var ErrDuplicateSlug = errors.New("document slug already exists")

// DocumentRepository defines operations for document and document-type data
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id int) (*model.Document, error)
	FindAll(ctx context.Context) ([]model.Document, error)
	FindByOwner(ctx context.Context, ownerID int) ([]model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id int) (bool, error)
	// MaxSlugSuffix scans for slugs equal to base or matching base-<digits> and
	// returns the highest trailing integer, a bare base counting as 0. Returns
	// -1 when nothing matches.
	MaxSlugSuffix(ctx context.Context, base string) (int, error)

	CreateType(ctx context.Context, docType *model.DocumentType) error
	FindAllTypes(ctx context.Context) ([]model.DocumentType, error)
	FindTypeByID(ctx context.Context, id int) (*model.DocumentType, error)
}

type documentRepository struct {
	db DBTX
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `id, title, type_id, description, slug, owner_id, stored_path, created_at`

// Create inserts a new document. The slug uniqueness constraint is the final
// authority on allocation; violations surface as ErrDuplicateSlug.
func (r *documentRepository) Create(ctx context.Context, d *model.Document) error {
	sql := `INSERT INTO documents (title, type_id, description, slug, owner_id, stored_path, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql, d.Title, d.TypeID, d.Description, d.Slug, d.OwnerID, d.StoredPath, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// FindByID retrieves a document by its ID
func (r *documentRepository) FindByID(ctx context.Context, id int) (*model.Document, error) {
	d := &model.Document{}
	sql := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&d.ID, &d.Title, &d.TypeID, &d.Description, &d.Slug, &d.OwnerID, &d.StoredPath, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find document by ID: %w", err)
	}
	return d, nil
}

// FindAll retrieves every document
func (r *documentRepository) FindAll(ctx context.Context) ([]model.Document, error) {
	sql := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// FindByOwner retrieves every document owned by the given user
func (r *documentRepository) FindByOwner(ctx context.Context, ownerID int) ([]model.Document, error) {
	sql := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents by owner: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func scanDocuments(rows pgx.Rows) ([]model.Document, error) {
	var documents []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID, &d.Title, &d.TypeID, &d.Description, &d.Slug, &d.OwnerID, &d.StoredPath, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return documents, nil
}

// Update rewrites the mutable fields of an existing document in one statement.
// The slug is deliberately left out: it never changes after allocation.
func (r *documentRepository) Update(ctx context.Context, d *model.Document) error {
	sql := `UPDATE documents SET title = $1, type_id = $2, description = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, sql, d.Title, d.TypeID, d.Description, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a document row. Returns false if no row matched.
func (r *documentRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MaxSlugSuffix finds the highest numeric suffix among slugs derived from the
// same base. Base slugs only contain [a-z0-9-], so embedding the base into the
// regexp is safe.
func (r *documentRepository) MaxSlugSuffix(ctx context.Context, base string) (int, error) {
	sql := `SELECT COALESCE(MAX(COALESCE(substring(slug from ('^' || $1::text || '-([0-9]+)$'))::int, 0)), -1)
            FROM documents
            WHERE slug = $1 OR slug ~ ('^' || $1::text || '-[0-9]+$')`
	var max int
	if err := r.db.QueryRow(ctx, sql, base).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to scan slug suffixes: %w", err)
	}
	return max, nil
}

// CreateType inserts a new document type
func (r *documentRepository) CreateType(ctx context.Context, t *model.DocumentType) error {
	sql := `INSERT INTO doctypes (title) VALUES ($1) RETURNING id`
	if err := r.db.QueryRow(ctx, sql, t.Title).Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to create document type: %w", err)
	}
	return nil
}

// FindAllTypes retrieves every document type
func (r *documentRepository) FindAllTypes(ctx context.Context) ([]model.DocumentType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title FROM doctypes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query document types: %w", err)
	}
	defer rows.Close()

	var types []model.DocumentType
	for rows.Next() {
		var t model.DocumentType
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("failed to scan document type row: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document type rows: %w", err)
	}
	return types, nil
}

// FindTypeByID retrieves a document type by ID
func (r *documentRepository) FindTypeByID(ctx context.Context, id int) (*model.DocumentType, error) {
	t := &model.DocumentType{}
	err := r.db.QueryRow(ctx, `SELECT id, title FROM doctypes WHERE id = $1`, id).Scan(&t.ID, &t.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document type by ID: %w", err)
	}
	return t, nil
}
