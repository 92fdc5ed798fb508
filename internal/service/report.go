package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salesdash/internal/model"
	"salesdash/internal/report"
)

var ErrReportNotFound = errors.New("report not found")

// ReportService keeps generated reports per operator.
type ReportService struct {
	db *sql.DB
}

func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) Save(ctx context.Context, userID string, b *report.Bundle) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, file_name, digest, order_count, revenue, rows_read, rows_dropped, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, b.ID, userID, b.FileName, b.Digest, b.KPIs.OrderCount, b.KPIs.Revenue, b.RowsRead, b.RowsDropped, string(payload), b.GeneratedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *ReportService) ListByUser(ctx context.Context, userID string) ([]model.ReportSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, file_name, digest, order_count, revenue, rows_read, rows_dropped, created_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []model.ReportSummary
	for rows.Next() {
		var r model.ReportSummary
		if err := rows.Scan(&r.ID, &r.UserID, &r.FileName, &r.Digest, &r.OrderCount, &r.Revenue, &r.RowsRead, &r.RowsDropped, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return reports, nil
}

// Get returns the stored bundle JSON. Reports of other users are reported
// as not found.
func (s *ReportService) Get(ctx context.Context, userID, id string) (json.RawMessage, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reports WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return json.RawMessage(payload), nil
}

// DeleteOlderThan removes reports created before cutoff.
func (s *ReportService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
