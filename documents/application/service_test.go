package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"document-gateway/documents/domain"
)

type recordingRepo struct {
	signature string
	doc       domain.Document
	err       error
}

func (r *recordingRepo) Save(_ context.Context, signature string, doc domain.Document) error {
	r.signature = signature
	r.doc = doc
	return r.err
}

func TestService_Create_SavesWithSignature(t *testing.T) {
	repo := &recordingRepo{}
	svc := Service{Repo: repo, Logger: slog.New(slog.DiscardHandler)}

	sub := domain.Submission{
		DocID:       "doc-1",
		DocType:     domain.DocTypeIntroduceGoods,
		Description: &domain.Description{ParticipantInn: "7700000001"},
		Products:    []domain.Product{{UitCode: "u1"}},
	}
	doc, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.DocID != "doc-1" || len(doc.Products) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if repo.signature != "7700000001" || repo.doc.DocID != "doc-1" {
		t.Fatalf("unexpected save: %q %+v", repo.signature, repo.doc)
	}
}

func TestService_Create_WrapsStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := Service{Repo: &recordingRepo{err: boom}, Logger: slog.New(slog.DiscardHandler)}

	_, err := svc.Create(context.Background(), domain.Submission{DocID: "doc-2"})
	if !errors.Is(err, ErrStore) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrStore wrapping cause, got %v", err)
	}
}

func TestService_Create_WithoutRepo(t *testing.T) {
	doc, err := Service{}.Create(context.Background(), domain.Submission{DocID: "doc-3"})
	if err != nil || doc.DocID != "doc-3" {
		t.Fatalf("unexpected result %+v %v", doc, err)
	}
}
