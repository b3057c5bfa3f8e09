package model

// Theme is the color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// CalendarView identifies a calendar layout.
type CalendarView string

const (
	CalendarDay      CalendarView = "timeGridDay"
	CalendarThreeDay CalendarView = "timeGridThreeDay"
	CalendarWorkWeek CalendarView = "timeGridWorkWeek"
	CalendarWeek     CalendarView = "timeGridWeek"
	CalendarMonth    CalendarView = "dayGridMonth"
)

// CardDisplayFields controls which attributes a todo card shows.
type CardDisplayFields struct {
	ShowDate     bool `mapstructure:"show_date" yaml:"show_date"`
	ShowDeadline bool `mapstructure:"show_deadline" yaml:"show_deadline"`
	ShowDuration bool `mapstructure:"show_duration" yaml:"show_duration"`
	ShowPriority bool `mapstructure:"show_priority" yaml:"show_priority"`
	ShowLabels   bool `mapstructure:"show_labels" yaml:"show_labels"`
	ShowSection  bool `mapstructure:"show_section" yaml:"show_section"`
}

// Preferences is the persisted part of the UI state.
type Preferences struct {
	SidebarOpen           bool              `mapstructure:"sidebar_open" yaml:"sidebar_open"`
	Theme                 Theme             `mapstructure:"theme" yaml:"theme" validate:"oneof=light dark system"`
	CalendarView          CalendarView      `mapstructure:"calendar_view" yaml:"calendar_view" validate:"oneof=timeGridDay timeGridThreeDay timeGridWorkWeek timeGridWeek dayGridMonth"`
	TodoCardDisplayFields CardDisplayFields `mapstructure:"todo_card_display_fields" yaml:"todo_card_display_fields"`
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		SidebarOpen:  true,
		Theme:        ThemeSystem,
		CalendarView: CalendarWeek,
		TodoCardDisplayFields: CardDisplayFields{
			ShowDate:     true,
			ShowDeadline: true,
			ShowDuration: true,
			ShowPriority: true,
			ShowLabels:   true,
			ShowSection:  false,
		},
	}
}
