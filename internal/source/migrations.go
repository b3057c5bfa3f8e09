package source

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of snapshot schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS labels (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sections (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS subsections (
	id         TEXT PRIMARY KEY,
	section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_subsections_section_id ON subsections(section_id);

CREATE TABLE IF NOT EXISTS todos (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT,
	scheduled_date   DATETIME,
	deadline_date    DATETIME,
	duration_minutes INTEGER,
	priority         TEXT NOT NULL DEFAULT 'p4' CHECK(priority IN ('p1', 'p2', 'p3', 'p4')),
	location         TEXT,
	is_completed     INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	completed_at     DATETIME,
	section_id       TEXT,
	subsection_id    TEXT,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
-- Labels on a todo are value snapshots, so the label columns are copied
-- rather than joined against labels.
CREATE TABLE IF NOT EXISTS todo_labels (
	todo_id  TEXT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	label_id TEXT NOT NULL,
	name     TEXT NOT NULL,
	color    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (todo_id, position)
);

CREATE TABLE IF NOT EXISTS reminders (
	id        TEXT PRIMARY KEY,
	todo_id   TEXT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	remind_at DATETIME NOT NULL,
	type      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_todo_id ON reminders(todo_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
