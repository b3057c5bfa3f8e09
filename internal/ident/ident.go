// Package ident generates identifiers for new todos, sections, subsections
// and labels.
package ident

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind selects the prefix of a generated identifier.
type Kind string

const (
	KindTodo       Kind = "todo"
	KindSection    Kind = "sec"
	KindSubsection Kind = "subsec"
	KindLabel      Kind = "lbl"
	KindReminder   Kind = "rem"
)

// Generator produces identifiers of the form <kind>-<unix millis>-<random>.
type Generator struct {
	now func() time.Time
}

// NewGenerator returns a Generator reading time from now. A nil now uses
// time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// New returns a fresh identifier for kind. It never fails.
func (g *Generator) New(kind Kind) string {
	return fmt.Sprintf("%s-%d-%s", kind, g.now().UnixMilli(), suffix())
}

// suffix returns eight random hex characters from a v4 UUID.
func suffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

var defaultGenerator = NewGenerator(nil)

// New returns a fresh identifier for kind using the wall clock.
func New(kind Kind) string {
	return defaultGenerator.New(kind)
}
