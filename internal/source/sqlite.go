package source

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/todo-way/internal/model"
)

// SQLite is a Provider reading the snapshot from a local SQLite database.
// The stores never write back to it; Seed exists to build snapshot files.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (or creates) a SQLite snapshot at dbPath and runs any
// pending schema migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database lives only as long as its single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLite) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// todoLabelRow is a label snapshot row keyed by its owning todo.
type todoLabelRow struct {
	TodoID string `db:"todo_id"`
	model.Label
}

// reminderRow is a reminder row keyed by its owning todo.
type reminderRow struct {
	TodoID string `db:"todo_id"`
	model.Reminder
}

// ListTodos reads every todo with its label snapshots and reminders.
func (s *SQLite) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	err := s.db.SelectContext(ctx, &todos, `
		SELECT id, title, description, scheduled_date, deadline_date,
			duration_minutes, priority, location, is_completed, completed_at,
			section_id, subsection_id, created_at, updated_at
		FROM todos ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}

	var labels []todoLabelRow
	err = s.db.SelectContext(ctx, &labels, `
		SELECT todo_id, label_id AS id, name, color
		FROM todo_labels ORDER BY todo_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying todo labels: %w", err)
	}

	var reminders []reminderRow
	err = s.db.SelectContext(ctx, &reminders, `
		SELECT todo_id, id, remind_at, type
		FROM reminders ORDER BY todo_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}

	labelsByTodo := make(map[string][]model.Label)
	for _, r := range labels {
		labelsByTodo[r.TodoID] = append(labelsByTodo[r.TodoID], r.Label)
	}
	remindersByTodo := make(map[string][]model.Reminder)
	for _, r := range reminders {
		remindersByTodo[r.TodoID] = append(remindersByTodo[r.TodoID], r.Reminder)
	}

	for i := range todos {
		todos[i].Labels = append([]model.Label{}, labelsByTodo[todos[i].ID]...)
		todos[i].Reminders = append([]model.Reminder{}, remindersByTodo[todos[i].ID]...)
	}
	return todos, nil
}

// ListSections reads every section with its subsections, in sort order.
func (s *SQLite) ListSections(ctx context.Context) ([]model.Section, error) {
	var sections []model.Section
	err := s.db.SelectContext(ctx, &sections,
		"SELECT id, name, sort_order FROM sections ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}

	var subsections []model.Subsection
	err = s.db.SelectContext(ctx, &subsections, `
		SELECT id, name, sort_order, section_id
		FROM subsections ORDER BY section_id, sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("querying subsections: %w", err)
	}

	bySection := make(map[string][]model.Subsection)
	for _, sub := range subsections {
		bySection[sub.SectionID] = append(bySection[sub.SectionID], sub)
	}
	for i := range sections {
		sections[i].Subsections = append([]model.Subsection{}, bySection[sections[i].ID]...)
	}
	return sections, nil
}

// ListLabels reads every label.
func (s *SQLite) ListLabels(ctx context.Context) ([]model.Label, error) {
	labels := []model.Label{}
	err := s.db.SelectContext(ctx, &labels,
		"SELECT id, name, color FROM labels ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	return labels, nil
}

// Seed replaces the database contents with snap.
func (s *SQLite) Seed(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"reminders", "todo_labels", "todos", "subsections", "sections", "labels"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, l := range snap.Labels {
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO labels (id, name, color) VALUES (:id, :name, :color)", l); err != nil {
			return fmt.Errorf("inserting label %s: %w", l.ID, err)
		}
	}

	for _, sec := range snap.Sections {
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO sections (id, name, sort_order) VALUES (:id, :name, :sort_order)", sec); err != nil {
			return fmt.Errorf("inserting section %s: %w", sec.ID, err)
		}
		for _, sub := range sec.Subsections {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO subsections (id, section_id, name, sort_order)
				VALUES (:id, :section_id, :name, :sort_order)`, sub); err != nil {
				return fmt.Errorf("inserting subsection %s: %w", sub.ID, err)
			}
		}
	}

	for _, t := range snap.Todos {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO todos (
				id, title, description, scheduled_date, deadline_date,
				duration_minutes, priority, location, is_completed, completed_at,
				section_id, subsection_id, created_at, updated_at
			) VALUES (
				:id, :title, :description, :scheduled_date, :deadline_date,
				:duration_minutes, :priority, :location, :is_completed, :completed_at,
				:section_id, :subsection_id, :created_at, :updated_at
			)`, t); err != nil {
			return fmt.Errorf("inserting todo %s: %w", t.ID, err)
		}
		for i, l := range t.Labels {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO todo_labels (todo_id, position, label_id, name, color)
				VALUES (?, ?, ?, ?, ?)`, t.ID, i, l.ID, l.Name, l.Color); err != nil {
				return fmt.Errorf("setting label %s on todo %s: %w", l.ID, t.ID, err)
			}
		}
		for i, r := range t.Reminders {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO reminders (id, todo_id, position, remind_at, type)
				VALUES (?, ?, ?, ?, ?)`, r.ID, t.ID, i, r.RemindAt.UTC(), r.Type); err != nil {
				return fmt.Errorf("adding reminder %s to todo %s: %w", r.ID, t.ID, err)
			}
		}
	}

	return tx.Commit()
}
