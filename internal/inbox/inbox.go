// Package inbox holds the ordered mail collection and its two mutations.
package inbox

import (
	"github.com/nhle/letterbox/internal/model"
)

// ChangeKind identifies which mutation produced a Change.
type ChangeKind int

const (
	ChangeDeleted ChangeKind = iota + 1
	ChangeImportance
)

// String returns a short label for logs.
func (k ChangeKind) String() string {
	switch k {
	case ChangeDeleted:
		return "deleted"
	case ChangeImportance:
		return "importance"
	default:
		return "unknown"
	}
}

// Change is emitted to listeners after every effective mutation.
type Change struct {
	Kind ChangeKind
	ID   int

	// Important is the new flag value for ChangeImportance.
	Important bool

	// Remaining is the list length after the mutation.
	Remaining int
}

// Listener receives change notifications synchronously.
type Listener func(Change)

// List is the ordered inbox. Insertion order is display order. It is not
// safe for concurrent use; all calls are expected from the UI loop.
type List struct {
	mails     []model.Mail
	listeners map[int]Listener
	nextSub   int
}

// New returns a list seeded with copies of mails in the given order.
func New(mails []model.Mail) *List {
	l := &List{
		mails:     make([]model.Mail, 0, len(mails)),
		listeners: make(map[int]Listener),
	}
	for _, m := range mails {
		l.mails = append(l.mails, m.Clone())
	}
	return l
}

// Len returns the number of mails.
func (l *List) Len() int { return len(l.mails) }

// Snapshot returns a copy of the current list.
func (l *List) Snapshot() []model.Mail {
	out := make([]model.Mail, len(l.mails))
	for i, m := range l.mails {
		out[i] = m.Clone()
	}
	return out
}

// Get returns a copy of the mail with id.
func (l *List) Get(id int) (model.Mail, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return model.Mail{}, false
	}
	return l.mails[i].Clone(), true
}

// Delete removes the mail with id, keeping the order of the rest. It
// reports whether anything was removed; an absent id is a no-op.
func (l *List) Delete(id int) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}

	next := make([]model.Mail, 0, len(l.mails)-1)
	next = append(next, l.mails[:i]...)
	next = append(next, l.mails[i+1:]...)
	l.mails = next

	l.emit(Change{Kind: ChangeDeleted, ID: id, Remaining: len(l.mails)})
	return true
}

// ToggleImportant flips the important flag of the mail with id. It reports
// whether a mail was found; an absent id is a no-op.
func (l *List) ToggleImportant(id int) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}

	updated := l.mails[i].Clone()
	updated.Important = !updated.Important

	next := make([]model.Mail, len(l.mails))
	copy(next, l.mails)
	next[i] = updated
	l.mails = next

	l.emit(Change{
		Kind:      ChangeImportance,
		ID:        id,
		Important: updated.Important,
		Remaining: len(l.mails),
	})
	return true
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (l *List) Subscribe(fn Listener) (unsubscribe func()) {
	id := l.nextSub
	l.nextSub++
	l.listeners[id] = fn
	return func() { delete(l.listeners, id) }
}

func (l *List) indexOf(id int) int {
	for i := range l.mails {
		if l.mails[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *List) emit(c Change) {
	for i := 0; i < l.nextSub; i++ {
		if fn, ok := l.listeners[i]; ok {
			fn(c)
		}
	}
}
