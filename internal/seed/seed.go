// Package seed builds the initial inbox from one of the configured
// sources: the built-in sample letters, an mbox file or a seed database.
package seed

import (
	"context"
	"fmt"

	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/store"
)

// Load returns the initial inbox for cfg.
func Load(ctx context.Context, cfg model.SeedConfig) ([]model.Mail, error) {
	switch cfg.Source {
	case "", model.SeedSample:
		return Sample(), nil
	case model.SeedMbox:
		return LoadMbox(cfg.Path)
	case model.SeedSQLite:
		return LoadDB(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.Source)
	}
}

// LoadDB reads every mail from the seed database at path.
func LoadDB(ctx context.Context, path string) ([]model.Mail, error) {
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed db %s: %w", path, err)
	}
	defer s.Close()

	mails, err := s.LoadMails(ctx, store.MailFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading seed db %s: %w", path, err)
	}
	return mails, nil
}

// Import reads the mbox at mboxPath into the seed database at dbPath and
// returns the number of mails written. With replace set the database is
// emptied first.
func Import(ctx context.Context, mboxPath, dbPath string, replace bool) (int, error) {
	mails, err := LoadMbox(mboxPath)
	if err != nil {
		return 0, err
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return 0, fmt.Errorf("opening seed db %s: %w", dbPath, err)
	}
	defer s.Close()

	if replace {
		if err := s.ClearMails(ctx); err != nil {
			return 0, err
		}
	}
	return s.ImportMails(ctx, mails)
}
