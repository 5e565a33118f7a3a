package seed

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-mbox"

	"github.com/nhle/letterbox/internal/model"
)

const previewRunes = 60

// LoadMbox reads every message of the mbox file at path.
func LoadMbox(path string) ([]model.Mail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mbox %s: %w", path, err)
	}
	defer f.Close()

	mails, err := ReadMbox(f)
	if err != nil {
		return nil, fmt.Errorf("reading mbox %s: %w", path, err)
	}
	return mails, nil
}

// ReadMbox parses an mbox stream. Messages that fail to parse are logged
// and skipped; IDs are assigned from 1 in file order.
func ReadMbox(r io.Reader) ([]model.Mail, error) {
	reader := mbox.NewReader(r)

	var mails []model.Mail
	for n := 1; ; n++ {
		msg, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return mails, fmt.Errorf("message %d: %w", n, err)
		}

		m, err := parseMessage(msg)
		if err != nil {
			log.Printf("seed: skipping message %d: %v", n, err)
			continue
		}
		m.ID = len(mails) + 1
		mails = append(mails, m)
	}
	return mails, nil
}

// parseMessage converts one RFC 5322 message into a letter.
func parseMessage(r io.Reader) (model.Mail, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return model.Mail{}, fmt.Errorf("parsing headers: %w", err)
	}
	defer mr.Close()

	var m model.Mail
	m.Sender = senderName(mr.Header)
	if subject, err := mr.Header.Subject(); err == nil {
		m.Subject = subject
	} else {
		m.Subject = mr.Header.Get("Subject")
	}
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		m.Timestamp = date.Local().Format("15:04")
	}
	m.Important = flagged(mr.Header)
	m.StampRef = mr.Header.Get("X-Stamp")

	text, err := firstPlainText(mr)
	if err != nil {
		return model.Mail{}, err
	}
	m.Body = Paragraphs(text)
	m.Preview = preview(m.Body, m.Subject)
	return m, nil
}

func firstPlainText(mr *mail.Reader) (string, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("reading body: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if contentType != "" && !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", fmt.Errorf("reading text part: %w", err)
		}
		return string(body), nil
	}
}

// senderName prefers the display name and falls back to the local part of
// the address.
func senderName(h mail.Header) string {
	addrs, err := h.AddressList("From")
	if err != nil || len(addrs) == 0 {
		return strings.TrimSpace(h.Get("From"))
	}
	a := addrs[0]
	if a.Name != "" {
		return a.Name
	}
	local, _, _ := strings.Cut(a.Address, "@")
	return local
}

// flagged reports the mutt/Thunderbird style "F" status flag.
func flagged(h mail.Header) bool {
	return strings.ContainsRune(h.Get("X-Status"), 'F')
}

// Paragraphs splits text on blank lines. Lines inside a paragraph are
// joined with a space.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out []string
		cur []string
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// preview picks the first paragraph that is not a salutation, cut to a
// single card line.
func preview(body []string, subject string) string {
	p := subject
	for i, para := range body {
		if i == 0 && len(body) > 1 && strings.HasSuffix(para, ",") {
			continue
		}
		p = para
		break
	}
	if utf8.RuneCountInString(p) <= previewRunes {
		return p
	}
	r := []rune(p)
	return strings.TrimSpace(string(r[:previewRunes-1])) + "…"
}
