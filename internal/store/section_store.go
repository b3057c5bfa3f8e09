package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/ident"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
)

// SectionStore owns the ordered sections (with their subsections) and the
// flat label list.
//
// Todos reference sections by id and carry label snapshots, so nothing
// here cascades into the todo collection.
type SectionStore struct {
	notifier

	provider source.Provider
	opts     options
	log      *zap.Logger

	mu          sync.RWMutex
	sections    []model.Section
	labels      []model.Label
	loading     int
	sectionsErr error
	labelsErr   error
}

// NewSectionStore creates an empty SectionStore that loads from p.
func NewSectionStore(p source.Provider, opts ...Option) *SectionStore {
	o := buildOptions(opts)
	return &SectionStore{
		provider: p,
		opts:     o,
		log:      o.logger.Named("sections"),
		sections: []model.Section{},
		labels:   []model.Label{},
	}
}

// LoadSections replaces the sections with the provider's snapshot. On
// failure the sections are left unchanged and the error is kept for Err.
func (s *SectionStore) LoadSections(ctx context.Context) {
	s.begin()

	var sections []model.Section
	var err error
	if s.provider == nil {
		err = errors.New("no data provider")
	} else {
		sections, err = s.provider.ListSections(ctx)
	}

	s.mu.Lock()
	s.loading--
	if err != nil {
		s.sectionsErr = fmt.Errorf("%w: fetching sections: %w", ErrLoadFailed, err)
		s.mu.Unlock()
		s.log.Warn("loading sections failed", zap.Error(err))
		return
	}
	s.sectionsErr = nil
	s.sections = make([]model.Section, len(sections))
	for i, sec := range sections {
		s.sections[i] = sec.Clone()
	}
	s.mu.Unlock()

	s.log.Debug("sections loaded", zap.Int("count", len(sections)))
	s.publish(Event{Kind: EventSectionsLoaded})
}

// LoadLabels replaces the labels with the provider's snapshot. On failure
// the labels are left unchanged and the error is kept for Err.
func (s *SectionStore) LoadLabels(ctx context.Context) {
	s.begin()

	var labels []model.Label
	var err error
	if s.provider == nil {
		err = errors.New("no data provider")
	} else {
		labels, err = s.provider.ListLabels(ctx)
	}

	s.mu.Lock()
	s.loading--
	if err != nil {
		s.labelsErr = fmt.Errorf("%w: fetching labels: %w", ErrLoadFailed, err)
		s.mu.Unlock()
		s.log.Warn("loading labels failed", zap.Error(err))
		return
	}
	s.labelsErr = nil
	s.labels = append([]model.Label{}, labels...)
	s.mu.Unlock()

	s.log.Debug("labels loaded", zap.Int("count", len(labels)))
	s.publish(Event{Kind: EventLabelsLoaded})
}

func (s *SectionStore) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

// CreateSection appends a section named name with sort_order one past the
// current section count.
func (s *SectionStore) CreateSection(name string) model.Section {
	s.mu.Lock()
	sec := model.Section{
		ID:          s.opts.ids.New(ident.KindSection),
		Name:        name,
		SortOrder:   len(s.sections) + 1,
		Subsections: []model.Subsection{},
	}
	s.sections = append(s.sections, sec)
	s.mu.Unlock()

	s.log.Debug("section created", zap.String("id", sec.ID))
	s.publish(Event{Kind: EventSectionChanged, ID: sec.ID})
	return sec.Clone()
}

// UpdateSection renames a section in place. It reports false if id is
// unknown.
func (s *SectionStore) UpdateSection(id, name string) bool {
	s.mu.Lock()
	i := s.sectionIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.sections[i].Name = name
	s.mu.Unlock()

	s.publish(Event{Kind: EventSectionChanged, ID: id})
	return true
}

// DeleteSection removes a section and its subsections. Sort orders of the
// remaining sections are not renumbered and todos referencing the section
// keep their dangling section_id. It reports false if id is unknown.
func (s *SectionStore) DeleteSection(id string) bool {
	s.mu.Lock()
	i := s.sectionIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.sections = append(s.sections[:i:i], s.sections[i+1:]...)
	s.mu.Unlock()

	s.log.Debug("section deleted", zap.String("id", id))
	s.publish(Event{Kind: EventSectionChanged, ID: id})
	return true
}

// CreateSubsection appends a subsection to the section sectionID. It
// reports false, creating nothing, if the section does not exist.
func (s *SectionStore) CreateSubsection(sectionID, name string) (model.Subsection, bool) {
	s.mu.Lock()
	i := s.sectionIndex(sectionID)
	if i < 0 {
		s.mu.Unlock()
		return model.Subsection{}, false
	}
	sec := s.sections[i].Clone()
	sub := model.Subsection{
		ID:        s.opts.ids.New(ident.KindSubsection),
		Name:      name,
		SortOrder: len(sec.Subsections) + 1,
		SectionID: sectionID,
	}
	sec.Subsections = append(sec.Subsections, sub)
	s.sections[i] = sec
	s.mu.Unlock()

	s.log.Debug("subsection created", zap.String("id", sub.ID), zap.String("section_id", sectionID))
	s.publish(Event{Kind: EventSectionChanged, ID: sectionID})
	return sub, true
}

// CreateLabel appends a label.
func (s *SectionStore) CreateLabel(name, color string) model.Label {
	l := model.Label{
		ID:    s.opts.ids.New(ident.KindLabel),
		Name:  name,
		Color: color,
	}
	s.mu.Lock()
	s.labels = append(s.labels, l)
	s.mu.Unlock()

	s.log.Debug("label created", zap.String("id", l.ID))
	s.publish(Event{Kind: EventLabelChanged, ID: l.ID})
	return l
}

// UpdateLabel changes a label's name and color. Snapshots already held by
// todos keep the old values. It reports false if id is unknown.
func (s *SectionStore) UpdateLabel(id, name, color string) bool {
	s.mu.Lock()
	i := s.labelIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.labels[i].Name = name
	s.labels[i].Color = color
	s.mu.Unlock()

	s.publish(Event{Kind: EventLabelChanged, ID: id})
	return true
}

// DeleteLabel removes a label. Todos keep their snapshot copies. It reports
// false if id is unknown.
func (s *SectionStore) DeleteLabel(id string) bool {
	s.mu.Lock()
	i := s.labelIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.labels = append(s.labels[:i:i], s.labels[i+1:]...)
	s.mu.Unlock()

	s.log.Debug("label deleted", zap.String("id", id))
	s.publish(Event{Kind: EventLabelChanged, ID: id})
	return true
}

// Sections returns a copy of the sections in order.
func (s *SectionStore) Sections() []model.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Section, len(s.sections))
	for i, sec := range s.sections {
		out[i] = sec.Clone()
	}
	return out
}

// Section returns a copy of the section with the given id.
func (s *SectionStore) Section(id string) (model.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.sectionIndex(id)
	if i < 0 {
		return model.Section{}, false
	}
	return s.sections[i].Clone(), true
}

// SectionName resolves a section id for display. Dangling ids report
// false.
func (s *SectionStore) SectionName(id string) (string, bool) {
	sec, ok := s.Section(id)
	return sec.Name, ok
}

// Labels returns a copy of the labels in order.
func (s *SectionStore) Labels() []model.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Label{}, s.labels...)
}

// Label returns the label with the given id.
func (s *SectionStore) Label(id string) (model.Label, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.labelIndex(id)
	if i < 0 {
		return model.Label{}, false
	}
	return s.labels[i], true
}

// IsLoading reports whether a section or label load is in progress.
func (s *SectionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Err returns the errors recorded by the last failed loads, if any.
func (s *SectionStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return errors.Join(s.sectionsErr, s.labelsErr)
}

func (s *SectionStore) sectionIndex(id string) int {
	for i, sec := range s.sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func (s *SectionStore) labelIndex(id string) int {
	for i, l := range s.labels {
		if l.ID == id {
			return i
		}
	}
	return -1
}
