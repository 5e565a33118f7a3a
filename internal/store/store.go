package store

import (
	"context"

	"github.com/nhle/letterbox/internal/model"
)

// MailFilter narrows a mail query. The zero value selects everything in
// insertion order.
type MailFilter struct {
	ImportantOnly bool
	Query         *string // matches sender, subject and preview
	Limit         int
}

// Store is the seed inbox database. The running session only reads it;
// the import command fills it.
type Store interface {
	LoadMails(ctx context.Context, filter MailFilter) ([]model.Mail, error)
	CountMails(ctx context.Context) (int, error)
	ImportMails(ctx context.Context, mails []model.Mail) (int, error)
	ClearMails(ctx context.Context) error
	Close() error
}
