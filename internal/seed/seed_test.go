package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/letterbox/internal/model"
)

const testMbox = "From carl@example.com Sun Mar  1 12:53:00 2026\n" +
	"From: Carl <carl@example.com>\n" +
	"To: sam@example.com\n" +
	"Subject: coffee on sunday?\n" +
	"Date: Sun, 01 Mar 2026 12:53:00 +0000\n" +
	"Content-Type: text/plain; charset=utf-8\n" +
	"\n" +
	"hey sam,\n" +
	"\n" +
	"you up for some coffee on sunday?\n" +
	"was thinking bonanza\n" +
	"\n" +
	"Carl\n" +
	"\n" +
	"From olivia@example.com Sun Mar  1 09:41:00 2026\n" +
	"From: olivia@example.com\n" +
	"Subject: =?ISO-8859-1?Q?caf=E9_slides?=\n" +
	"X-Status: F\n" +
	"MIME-Version: 1.0\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\n" +
	"\n" +
	"--b1\n" +
	"Content-Type: text/html; charset=utf-8\n" +
	"\n" +
	"<p>ignored</p>\n" +
	"--b1\n" +
	"Content-Type: text/plain; charset=iso-8859-1\n" +
	"Content-Transfer-Encoding: quoted-printable\n" +
	"\n" +
	"deck is at the caf=E9\n" +
	"--b1--\n"

func writeMbox(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inbox.mbox")
	require.NoError(t, os.WriteFile(path, []byte(testMbox), 0o600))
	return path
}

func TestSampleLetters(t *testing.T) {
	mails := Sample()
	require.Len(t, mails, 3)

	assert.Equal(t, "carl", mails[0].Sender)
	assert.Equal(t, "12:53", mails[0].Timestamp)
	assert.Len(t, mails[0].Body, 5)
	assert.Equal(t, []int{1, 2, 3}, []int{mails[0].ID, mails[1].ID, mails[2].ID})
	for _, m := range mails {
		assert.False(t, m.Important)
		assert.NotEmpty(t, m.StampRef)
	}
}

func TestReadMbox(t *testing.T) {
	mails, err := ReadMbox(strings.NewReader(testMbox))
	require.NoError(t, err)
	require.Len(t, mails, 2)

	carl := mails[0]
	assert.Equal(t, 1, carl.ID)
	assert.Equal(t, "Carl", carl.Sender)
	assert.Equal(t, "coffee on sunday?", carl.Subject)
	assert.Equal(t, []string{
		"hey sam,",
		"you up for some coffee on sunday? was thinking bonanza",
		"Carl",
	}, carl.Body)
	assert.Equal(t, "you up for some coffee on sunday? was thinking bonanza", carl.Preview)
	assert.NotEmpty(t, carl.Timestamp)
	assert.False(t, carl.Important)

	olivia := mails[1]
	assert.Equal(t, 2, olivia.ID)
	assert.Equal(t, "olivia", olivia.Sender)
	assert.Equal(t, "café slides", olivia.Subject)
	assert.Equal(t, []string{"deck is at the café"}, olivia.Body)
	assert.True(t, olivia.Important)
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"a b", "c"}, Paragraphs("a\r\nb\r\n\r\n\r\nc\n"))
	assert.Empty(t, Paragraphs("\n \n"))
}

func TestPreviewFallsBackToSubject(t *testing.T) {
	assert.Equal(t, "hello", preview(nil, "hello"))
	assert.Equal(t, "hi,", preview([]string{"hi,"}, "subject"))

	long := strings.Repeat("x", 100)
	p := preview([]string{long}, "")
	assert.Equal(t, previewRunes, len([]rune(p)))
	assert.True(t, strings.HasSuffix(p, "…"))
}

func TestLoadDispatch(t *testing.T) {
	ctx := context.Background()

	mails, err := Load(ctx, model.SeedConfig{Source: model.SeedSample})
	require.NoError(t, err)
	assert.Len(t, mails, 3)

	mails, err = Load(ctx, model.SeedConfig{Source: model.SeedMbox, Path: writeMbox(t)})
	require.NoError(t, err)
	assert.Len(t, mails, 2)

	_, err = Load(ctx, model.SeedConfig{Source: "imap"})
	assert.Error(t, err)

	_, err = Load(ctx, model.SeedConfig{Source: model.SeedMbox, Path: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestImportThenLoadDB(t *testing.T) {
	ctx := context.Background()
	mboxPath := writeMbox(t)
	dbPath := filepath.Join(t.TempDir(), "seed.db")

	n, err := Import(ctx, mboxPath, dbPath, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Import(ctx, mboxPath, dbPath, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mails, err := Load(ctx, model.SeedConfig{Source: model.SeedSQLite, Path: dbPath})
	require.NoError(t, err)
	require.Len(t, mails, 2)
	assert.Equal(t, "Carl", mails[0].Sender)
	assert.Len(t, mails[0].Body, 3)
	assert.True(t, mails[1].Important)
}
