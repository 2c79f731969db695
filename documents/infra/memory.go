package infra

import (
	"context"
	"errors"

	"document-gateway/documents/domain"

	"github.com/dgraph-io/ristretto/v2"
)

var (
	ErrEmptyDocID = errors.New("document without doc_id")
	ErrDropped    = errors.New("memory store dropped document")
)

type storedDocument struct {
	Signature string
	Document  domain.Document
}

// MemoryRepository guarda documentos em memória, com no máximo maxDocs
// entradas (ristretto descarta as menos usadas).
type MemoryRepository struct {
	rc *ristretto.Cache[string, storedDocument]
}

func NewMemoryRepository(maxDocs int64) (*MemoryRepository, error) {
	if maxDocs <= 0 {
		maxDocs = 10_000
	}
	rc, err := ristretto.NewCache(&ristretto.Config[string, storedDocument]{
		NumCounters: maxDocs * 10,
		MaxCost:     maxDocs,
		BufferItems: 64,
		// custo 1 por documento: MaxCost conta documentos, não bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryRepository{rc: rc}, nil
}

func (m *MemoryRepository) Save(_ context.Context, signature string, doc domain.Document) error {
	if doc.DocID == "" {
		return ErrEmptyDocID
	}
	if !m.rc.Set(doc.DocID, storedDocument{Signature: signature, Document: doc}, 1) {
		return ErrDropped
	}
	m.rc.Wait()
	return nil
}

// Get retorna o documento e a assinatura com que foi salvo.
func (m *MemoryRepository) Get(_ context.Context, docID string) (domain.Document, string, bool) {
	v, ok := m.rc.Get(docID)
	if !ok {
		return domain.Document{}, "", false
	}
	return v.Document, v.Signature, true
}

func (m *MemoryRepository) Close() {
	m.rc.Close()
}
