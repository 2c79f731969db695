package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"document-gateway/documents/domain"
)

// ErrStore envolve falhas do repositório.
var ErrStore = errors.New("store document")

// Repository persiste documentos assinados pelo participant_inn da descrição.
type Repository interface {
	Save(ctx context.Context, signature string, doc domain.Document) error
}

type Service struct {
	Repo   Repository
	Logger *slog.Logger
}

// Create transforma a submissão em Document e o persiste.
// Sem repositório o documento só é registrado em log.
func (s Service) Create(ctx context.Context, sub domain.Submission) (domain.Document, error) {
	doc := sub.Document()
	signature := sub.Signature()

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if s.Repo != nil {
		if err := s.Repo.Save(ctx, signature, doc); err != nil {
			return domain.Document{}, fmt.Errorf("%w %q: %w", ErrStore, doc.DocID, err)
		}
	}

	logger.InfoContext(ctx, "document created",
		"doc_id", doc.DocID,
		"doc_type", doc.DocType,
		"signature", signature,
		"products", len(doc.Products),
	)
	return doc, nil
}
