package repository

import (
	"context"
	"fmt"

	"document_manager/internal/model"
)

// ApiLogRepository persists the request audit trail
type ApiLogRepository interface {
	Insert(ctx context.Context, entry *model.ApiLog) error
}

type apiLogRepository struct {
	db DBTX
}

// NewApiLogRepository creates a new ApiLogRepository
func NewApiLogRepository(db DBTX) ApiLogRepository {
	return &apiLogRepository{db: db}
}

// Insert appends one audit row. Callers treat failure as best-effort.
func (r *apiLogRepository) Insert(ctx context.Context, e *model.ApiLog) error {
	sql := `INSERT INTO api_logs (api_key, ip_address, method, path, status_code, process_ms, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, e.APIKey, e.IPAddress, e.Method, e.Path, e.StatusCode, e.ProcessMs, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert api log: %w", err)
	}
	return nil
}
