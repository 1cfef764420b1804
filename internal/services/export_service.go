package services

import (
	"context"
	"fmt"
	"io"

	"accountbook/internal/category"
	"accountbook/internal/core"
	"accountbook/internal/export"
	"accountbook/internal/storage"
)

// ExportService assembles a user's full account book for download.
type ExportService struct {
	store storage.Store
	names *category.Directory
}

func NewExportService(store storage.Store, names *category.Directory) *ExportService {
	return &ExportService{store: store, names: names}
}

func (s *ExportService) Bundle(ctx context.Context, sess core.Session) (export.Bundle, error) {
	u, err := s.store.UserByID(ctx, sess.Owner)
	if err != nil {
		return export.Bundle{}, fmt.Errorf("load profile: %w", err)
	}
	cats, err := s.store.CustomCategories(ctx, sess.Owner)
	if err != nil {
		return export.Bundle{}, fmt.Errorf("load categories: %w", err)
	}
	rows, err := s.store.ListTransactions(ctx, core.TransactionQuery{Owner: sess.Owner})
	if err != nil {
		return export.Bundle{}, fmt.Errorf("load transactions: %w", err)
	}
	b := export.Bundle{User: u, Categories: cats, Transactions: rows}
	if s.names != nil {
		b.Name = s.names.Names(ctx, sess.Owner)
	}
	return b, nil
}

// Write renders the caller's bundle in format f.
func (s *ExportService) Write(ctx context.Context, sess core.Session, f export.Format, w io.Writer) error {
	b, err := s.Bundle(ctx, sess)
	if err != nil {
		return err
	}
	if f == export.FormatXML {
		return export.WriteXML(w, b)
	}
	return export.WriteCSV(w, b)
}
