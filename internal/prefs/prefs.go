// Package prefs holds UI preferences. Sidebar, theme, calendar view and
// card display fields are persisted as a YAML blob; the selected todo and
// the create dialog state live only in memory.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/model"
)

// BlobName is the base name of the persisted preference blob.
const BlobName = "the-todo-way-ui"

// ErrUnknownField is returned when toggling a card display field that does
// not exist.
var ErrUnknownField = errors.New("unknown display field")

// DisplayFields lists the toggleable card display fields by key.
var DisplayFields = []string{
	"show_date",
	"show_deadline",
	"show_duration",
	"show_priority",
	"show_labels",
	"show_section",
}

// Store holds the preference state. A Store with an empty path never
// touches disk.
type Store struct {
	path     string
	log      *zap.Logger
	validate *validator.Validate

	mu             sync.RWMutex
	prefs          model.Preferences
	selectedTodoID string
	createOpen     bool
	createDefaults *model.CreateTodoInput
}

// Open loads the blob at path. A missing, unreadable or invalid blob yields
// the defaults; the problem is logged, never returned.
func Open(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		path:     path,
		log:      log.Named("prefs"),
		validate: validator.New(),
		prefs:    model.DefaultPreferences(),
	}
	if path == "" {
		return s
	}

	p, err := s.read()
	switch {
	case err == nil:
		s.prefs = p
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("no preference blob, using defaults", zap.String("path", path))
	default:
		s.log.Warn("ignoring preference blob", zap.String("path", path), zap.Error(err))
	}
	return s
}

func (s *Store) read() (model.Preferences, error) {
	def := model.DefaultPreferences()

	if _, err := os.Stat(s.path); err != nil {
		return def, err
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	v.SetDefault("sidebar_open", def.SidebarOpen)
	v.SetDefault("theme", string(def.Theme))
	v.SetDefault("calendar_view", string(def.CalendarView))
	for name, val := range fieldMap(&def.TodoCardDisplayFields) {
		v.SetDefault("todo_card_display_fields."+name, *val)
	}

	if err := v.ReadInConfig(); err != nil {
		return def, fmt.Errorf("reading preferences %s: %w", s.path, err)
	}

	p := model.DefaultPreferences()
	if err := v.Unmarshal(&p); err != nil {
		return def, fmt.Errorf("parsing preferences %s: %w", s.path, err)
	}
	if err := s.validate.Struct(p); err != nil {
		return def, fmt.Errorf("validating preferences %s: %w", s.path, err)
	}
	return p, nil
}

// Save writes the persisted preferences to the blob.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	p := s.Preferences()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preferences directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	v.Set("sidebar_open", p.SidebarOpen)
	v.Set("theme", string(p.Theme))
	v.Set("calendar_view", string(p.CalendarView))
	fields := make(map[string]any, len(DisplayFields))
	for name, val := range fieldMap(&p.TodoCardDisplayFields) {
		fields[name] = *val
	}
	v.Set("todo_card_display_fields", fields)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing preferences to %s: %w", s.path, err)
	}
	return nil
}

// update applies fn under the lock and persists the result.
func (s *Store) update(fn func(p *model.Preferences) error) error {
	s.mu.Lock()
	next := s.prefs
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.prefs = next
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.log.Error("saving preferences failed", zap.Error(err))
		return err
	}
	return nil
}

// Preferences returns the persisted part of the state.
func (s *Store) Preferences() model.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// ToggleSidebar flips the sidebar state.
func (s *Store) ToggleSidebar() error {
	return s.update(func(p *model.Preferences) error {
		p.SidebarOpen = !p.SidebarOpen
		return nil
	})
}

// SetTheme selects the color scheme.
func (s *Store) SetTheme(theme model.Theme) error {
	return s.update(func(p *model.Preferences) error {
		if err := s.validate.Var(string(theme), "oneof=light dark system"); err != nil {
			return fmt.Errorf("invalid theme %q: %w", theme, err)
		}
		p.Theme = theme
		return nil
	})
}

// SetCalendarView selects the calendar layout.
func (s *Store) SetCalendarView(view model.CalendarView) error {
	return s.update(func(p *model.Preferences) error {
		if err := s.validate.Var(string(view), "oneof=timeGridDay timeGridThreeDay timeGridWorkWeek timeGridWeek dayGridMonth"); err != nil {
			return fmt.Errorf("invalid calendar view %q: %w", view, err)
		}
		p.CalendarView = view
		return nil
	})
}

// ToggleCardDisplayField flips one card display field, named by its key
// (for example "show_deadline").
func (s *Store) ToggleCardDisplayField(name string) error {
	return s.update(func(p *model.Preferences) error {
		val, ok := fieldMap(&p.TodoCardDisplayFields)[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		*val = !*val
		return nil
	})
}

// OpenTodoDetail selects the todo shown in the detail view.
func (s *Store) OpenTodoDetail(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTodoID = id
}

// CloseTodoDetail clears the selection.
func (s *Store) CloseTodoDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTodoID = ""
}

// SelectedTodoID returns the selected todo, if any.
func (s *Store) SelectedTodoID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedTodoID, s.selectedTodoID != ""
}

// OpenCreateDialog opens the create dialog prefilled with defaults, which
// may be nil.
func (s *Store) OpenCreateDialog(defaults *model.CreateTodoInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createOpen = true
	s.createDefaults = nil
	if defaults != nil {
		d := *defaults
		s.createDefaults = &d
	}
}

// CloseCreateDialog closes the create dialog and drops its defaults.
func (s *Store) CloseCreateDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createOpen = false
	s.createDefaults = nil
}

// CreateDialog reports whether the create dialog is open and its defaults.
func (s *Store) CreateDialog() (open bool, defaults *model.CreateTodoInput) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.createDefaults != nil {
		d := *s.createDefaults
		defaults = &d
	}
	return s.createOpen, defaults
}

func fieldMap(f *model.CardDisplayFields) map[string]*bool {
	return map[string]*bool{
		"show_date":     &f.ShowDate,
		"show_deadline": &f.ShowDeadline,
		"show_duration": &f.ShowDuration,
		"show_priority": &f.ShowPriority,
		"show_labels":   &f.ShowLabels,
		"show_section":  &f.ShowSection,
	}
}
