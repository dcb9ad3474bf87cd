package services

import (
	"context"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

type ExportStore interface {
	Get(ctx context.Context, id string) (*Session, error)
}

type ExportParams struct {
	SessionID string
	Format    string // "table" (default) or "rfc4180"
	Template  bool   // header only
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	ETag        string
}

type ExportService struct {
	store ExportStore
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

func (s *ExportService) load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, NewInvalidError("session id required")
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	return sess, nil
}

// ExportCSV renders the session's responses, or an empty template.
func (s *ExportService) ExportCSV(ctx context.Context, params ExportParams) (*ExportResult, error) {
	sess, err := s.load(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}
	responses := sess.Responses
	filename := "reponses_" + sess.Survey.OrgName + ".csv"
	if params.Template {
		responses = nil
		filename = "modele_enquete_" + sess.Survey.OrgName + ".csv"
	}

	var data []byte
	switch params.Format {
	case "", "table":
		data = []byte(ToTable(sess.Survey.Questions, responses))
	case "rfc4180":
		data, err = ToCSV(sess.Survey.Questions, responses)
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewInvalidError("unsupported format")
	}
	return &ExportResult{
		Filename:    filename,
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
		ETag:        contentETag(data),
	}, nil
}

// SharePayload renders the session's share document.
func (s *ExportService) SharePayload(ctx context.Context, id string) (*ExportResult, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := ToSharePayload(sess.Survey)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    "enquete_" + sess.Survey.OrgName + ".json",
		ContentType: "application/json; charset=utf-8",
		Data:        data,
		ETag:        contentETag(data),
	}, nil
}

// contentETag is a strong validator derived from the exported bytes.
func contentETag(data []byte) string {
	sum := blake2b.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
