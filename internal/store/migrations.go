package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS mails (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	sender      TEXT NOT NULL,
	subject     TEXT NOT NULL DEFAULT '',
	preview     TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '[]',
	stamp_ref   TEXT NOT NULL DEFAULT '',
	timestamp   TEXT NOT NULL DEFAULT '',
	important   INTEGER NOT NULL DEFAULT 0,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_mails_important ON mails(important);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
