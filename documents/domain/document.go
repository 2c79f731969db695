package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed envolve toda falha de decodificação da submissão.
var ErrMalformed = errors.New("malformed document")

type DocType string

const DocTypeIntroduceGoods DocType = "LP_INTRODUCE_GOODS"

func (t DocType) Valid() bool {
	return t == DocTypeIntroduceGoods
}

func (t *DocType) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("doc_type: expected string")
	}
	if v := DocType(s); !v.Valid() {
		return fmt.Errorf("doc_type: unknown value %q", s)
	}
	*t = DocType(s)
	return nil
}

type Product struct {
	CertificateDocument       string `json:"certificate_document"`
	CertificateDocumentDate   Date   `json:"certificate_document_date"`
	CertificateDocumentNumber string `json:"certificate_document_number"`
	OwnerInn                  string `json:"owner_inn"`
	ProducerInn               string `json:"producer_inn"`
	ProductionDate            Date   `json:"production_date"`
	TnvedCode                 string `json:"tnved_code"`
	UitCode                   string `json:"uit_code"`
	UituCode                  string `json:"uitu_code"`
}

type Description struct {
	ParticipantInn string `json:"participant_inn"`
}

// Document é o que é persistido e devolvido ao cliente.
type Document struct {
	DocID          string    `json:"doc_id"`
	DocStatus      string    `json:"doc_status"`
	ImportRequest  bool      `json:"importRequest"`
	OwnerInn       string    `json:"owner_inn"`
	ParticipantInn string    `json:"participant_inn"`
	ProducerInn    string    `json:"producer_inn"`
	ProductionDate Date      `json:"production_date"`
	ProductionType string    `json:"production_type"`
	RegDate        Date      `json:"reg_date"`
	RegNumber      string    `json:"reg_number"`
	DocType        DocType   `json:"doc_type"`
	Products       []Product `json:"products"`
}

// Submission é o corpo completo aceito pelo endpoint de criação.
type Submission struct {
	DocID          string       `json:"doc_id"`
	DocStatus      string       `json:"doc_status"`
	ImportRequest  bool         `json:"importRequest"`
	OwnerInn       string       `json:"owner_inn"`
	ParticipantInn string       `json:"participant_inn"`
	ProducerInn    string       `json:"producer_inn"`
	ProductionDate Date         `json:"production_date"`
	ProductionType string       `json:"production_type"`
	RegDate        Date         `json:"reg_date"`
	RegNumber      string       `json:"reg_number"`
	DocType        DocType      `json:"doc_type"`
	Description    *Description `json:"description"`
	Products       []Product    `json:"products"`
}

// Document descarta a descrição; o resto é copiado como veio.
func (s Submission) Document() Document {
	return Document{
		DocID:          s.DocID,
		DocStatus:      s.DocStatus,
		ImportRequest:  s.ImportRequest,
		OwnerInn:       s.OwnerInn,
		ParticipantInn: s.ParticipantInn,
		ProducerInn:    s.ProducerInn,
		ProductionDate: s.ProductionDate,
		ProductionType: s.ProductionType,
		RegDate:        s.RegDate,
		RegNumber:      s.RegNumber,
		DocType:        s.DocType,
		Products:       s.Products,
	}
}

// Signature é o participant_inn da descrição ("" sem descrição).
func (s Submission) Signature() string {
	if s.Description == nil {
		return ""
	}
	return s.Description.ParticipantInn
}

// Decode lê exatamente um objeto JSON, sem campos desconhecidos.
func Decode(r io.Reader) (Submission, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s Submission
	if err := dec.Decode(&s); err != nil {
		return Submission{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Submission{}, fmt.Errorf("%w: unexpected data after document", ErrMalformed)
	}
	if err := s.Validate(); err != nil {
		return Submission{}, err
	}
	return s, nil
}

// Validate exige doc_id, a chave sob a qual o documento é armazenado.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.DocID) == "" {
		return fmt.Errorf("%w: doc_id is required", ErrMalformed)
	}
	return nil
}
