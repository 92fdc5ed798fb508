package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"salesdash/internal/ingest"
	"salesdash/internal/model"
	"salesdash/internal/mw"
	"salesdash/internal/notify"
	"salesdash/internal/report"
	"salesdash/internal/service"
)

var errEmptyUpload = errors.New("empty upload")

type ReportGenerator interface {
	Generate(ctx context.Context, fileName string, data []byte) (*report.Bundle, error)
}

type ReportStore interface {
	Save(ctx context.Context, userID string, b *report.Bundle) error
	ListByUser(ctx context.Context, userID string) ([]model.ReportSummary, error)
	Get(ctx context.Context, userID, id string) (json.RawMessage, error)
}

// UploadReportHandler builds a report from an uploaded export. The file is
// taken from the multipart field "file", or from the raw body with the name
// in ?name=.
func UploadReportHandler(gen ReportGenerator, store ReportStore, pub notify.Publisher, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		name, data, err := readUpload(w, r, maxBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			case errors.Is(err, errEmptyUpload):
				http.Error(w, "file is required", http.StatusBadRequest)
			default:
				http.Error(w, "invalid upload", http.StatusBadRequest)
			}
			return
		}

		bundle, err := gen.Generate(r.Context(), name, data)
		if err != nil {
			switch {
			case errors.Is(err, ingest.ErrSchemaMismatch):
				http.Error(w, "unsupported file structure", http.StatusUnprocessableEntity)
			case errors.Is(err, ingest.ErrUnreadable):
				http.Error(w, "unreadable file", http.StatusBadRequest)
			default:
				slog.Error("report generation failed", "file", name, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if err := store.Save(r.Context(), userID, bundle); err != nil {
			slog.Error("report save failed", "report", bundle.ID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		ev := notify.ReportEvent{
			ReportID:    bundle.ID,
			UserID:      userID,
			FileName:    bundle.FileName,
			Digest:      bundle.Digest,
			OrderCount:  bundle.KPIs.OrderCount,
			Revenue:     bundle.KPIs.Revenue,
			RowsDropped: bundle.RowsDropped,
			GeneratedAt: bundle.GeneratedAt,
		}
		if err := pub.PublishReport(r.Context(), ev); err != nil {
			slog.Warn("report event not published", "report", bundle.ID, "error", err)
		}

		slog.Info("report generated",
			"report", bundle.ID,
			"file", bundle.FileName,
			"rows_read", bundle.RowsRead,
			"rows_dropped", bundle.RowsDropped,
			"orders", bundle.KPIs.OrderCount,
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(bundle); err != nil {
			slog.Error("encode report", "error", err)
		}
	}
}

func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return "", nil, fmt.Errorf("parse form: %w", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return "", nil, errEmptyUpload
			}
			return "", nil, fmt.Errorf("form file: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("read form file: %w", err)
		}
		if len(data) == 0 {
			return "", nil, errEmptyUpload
		}
		return hdr.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errEmptyUpload
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}
	return name, data, nil
}

func ListReportsHandler(store ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reports, err := store.ListByUser(r.Context(), userID)
		if err != nil {
			slog.Error("list reports failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(reports) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reports); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

func GetReportHandler(store ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		if _, err := uuid.Parse(id); err != nil {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}

		payload, err := store.Get(r.Context(), userID, id)
		if err != nil {
			if errors.Is(err, service.ErrReportNotFound) {
				http.Error(w, "report not found", http.StatusNotFound)
				return
			}
			slog.Error("get report failed", "report", id, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}
}
