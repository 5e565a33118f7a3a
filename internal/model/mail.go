package model

// Mail is a single letter in the inbox.
type Mail struct {
	// ID is unique for the lifetime of a session.
	ID int `json:"id" db:"id"`

	Sender  string `json:"sender" db:"sender"`
	Subject string `json:"subject" db:"subject"`
	Preview string `json:"preview" db:"preview"`

	// Body holds paragraphs in display order.
	Body []string `json:"body" db:"-"`

	// StampRef locates the stamp image shown in the card corner.
	StampRef string `json:"stamp_ref" db:"stamp_ref"`

	// Timestamp is a display string and is never parsed.
	Timestamp string `json:"timestamp" db:"timestamp"`

	Important bool `json:"important" db:"important"`
}

// Clone returns a deep copy so callers never share the Body slice.
func (m Mail) Clone() Mail {
	c := m
	if m.Body != nil {
		c.Body = append([]string(nil), m.Body...)
	}
	return c
}
