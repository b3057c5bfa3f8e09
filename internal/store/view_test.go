package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/nhle/todo-way/internal/model"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func deadlines(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		if t.DeadlineDate == nil {
			out[i] = "null"
		} else {
			out[i] = t.DeadlineDate.Format("2006-01-02")
		}
	}
	return out
}

func TestViewNullsSortLastInBothDirections(t *testing.T) {
	todos := []model.Todo{
		{ID: "a", DeadlineDate: nil},
		{ID: "b", DeadlineDate: date("2025-01-01")},
		{ID: "c", DeadlineDate: nil},
		{ID: "d", DeadlineDate: date("2024-06-01")},
	}

	asc := View(todos, model.TodoFilters{}, model.SortByDeadlineDate, model.SortAsc)
	if got, want := deadlines(asc), []string{"2024-06-01", "2025-01-01", "null", "null"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ascending: got %v, want %v", got, want)
	}

	desc := View(todos, model.TodoFilters{}, model.SortByDeadlineDate, model.SortDesc)
	if got, want := deadlines(desc), []string{"2025-01-01", "2024-06-01", "null", "null"}; !reflect.DeepEqual(got, want) {
		t.Errorf("descending: got %v, want %v", got, want)
	}
}

func TestViewScheduledDateNullsLast(t *testing.T) {
	todos := []model.Todo{
		{ID: "none"},
		{ID: "late", ScheduledDate: date("2025-03-02")},
		{ID: "early", ScheduledDate: date("2025-03-01")},
	}
	got := ids(View(todos, model.TodoFilters{}, model.SortByScheduledDate, model.SortDesc))
	if want := []string{"late", "early", "none"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestViewSortByCreatedAt(t *testing.T) {
	todos := []model.Todo{
		{ID: "mid", CreatedAt: *date("2025-02-01")},
		{ID: "old", CreatedAt: *date("2025-01-01")},
		{ID: "new", CreatedAt: *date("2025-03-01")},
	}
	if got := ids(View(todos, model.TodoFilters{}, model.SortByCreatedAt, model.SortDesc)); !reflect.DeepEqual(got, []string{"new", "mid", "old"}) {
		t.Errorf("desc: got %v", got)
	}
	if got := ids(View(todos, model.TodoFilters{}, model.SortByCreatedAt, model.SortAsc)); !reflect.DeepEqual(got, []string{"old", "mid", "new"}) {
		t.Errorf("asc: got %v", got)
	}
}

func TestViewSortByPriority(t *testing.T) {
	todos := []model.Todo{
		{ID: "p3", Priority: model.PriorityP3},
		{ID: "p1", Priority: model.PriorityP1},
		{ID: "p4", Priority: model.PriorityP4},
		{ID: "p2", Priority: model.PriorityP2},
	}
	if got := ids(View(todos, model.TodoFilters{}, model.SortByPriority, model.SortAsc)); !reflect.DeepEqual(got, []string{"p1", "p2", "p3", "p4"}) {
		t.Errorf("asc: got %v", got)
	}
	if got := ids(View(todos, model.TodoFilters{}, model.SortByPriority, model.SortDesc)); !reflect.DeepEqual(got, []string{"p4", "p3", "p2", "p1"}) {
		t.Errorf("desc: got %v", got)
	}
}

func TestViewSortIsStable(t *testing.T) {
	todos := []model.Todo{
		{ID: "first", Priority: model.PriorityP2},
		{ID: "second", Priority: model.PriorityP2},
		{ID: "third", Priority: model.PriorityP2},
	}
	got := ids(View(todos, model.TodoFilters{}, model.SortByPriority, model.SortDesc))
	if want := []string{"first", "second", "third"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("equal keys reordered: %v", got)
	}
}

func TestViewLabelFilterUsesOR(t *testing.T) {
	a := model.Label{ID: "A", Name: "a"}
	b := model.Label{ID: "B", Name: "b"}
	todos := []model.Todo{
		{ID: "1", Labels: []model.Label{a}},
		{ID: "2", Labels: []model.Label{b}},
		{ID: "3", Labels: []model.Label{a, b}},
		{ID: "4", Labels: []model.Label{}},
	}

	got := ids(View(todos, model.TodoFilters{LabelIDs: []string{"A"}}, "", model.SortAsc))
	if want := []string{"1", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels [A]: got %v, want %v", got, want)
	}

	got = ids(View(todos, model.TodoFilters{LabelIDs: []string{"A", "B"}}, "", model.SortAsc))
	if want := []string{"1", "2", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels [A B]: got %v, want %v", got, want)
	}
}

func TestViewCompletedHiddenByDefault(t *testing.T) {
	now := time.Now()
	todos := []model.Todo{
		{ID: "open"},
		{ID: "done", IsCompleted: true, CompletedAt: &now},
	}
	if got := ids(View(todos, model.TodoFilters{}, "", model.SortAsc)); !reflect.DeepEqual(got, []string{"open"}) {
		t.Errorf("default: got %v", got)
	}
	if got := ids(View(todos, model.TodoFilters{ShowCompleted: true}, "", model.SortAsc)); !reflect.DeepEqual(got, []string{"open", "done"}) {
		t.Errorf("show completed: got %v", got)
	}
}

func TestViewSectionFilterIsExact(t *testing.T) {
	todos := []model.Todo{
		{ID: "in-section", SectionID: model.Ptr("sec-1")},
		{ID: "in-subsection", SectionID: model.Ptr("sec-2"), SubsectionID: model.Ptr("sec-1")},
		{ID: "none"},
	}
	got := ids(View(todos, model.TodoFilters{SectionID: model.Ptr("sec-1")}, "", model.SortAsc))
	if want := []string{"in-section"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestViewPriorityFilter(t *testing.T) {
	todos := []model.Todo{
		{ID: "1", Priority: model.PriorityP1},
		{ID: "2", Priority: model.PriorityP2},
		{ID: "3", Priority: model.PriorityP1},
	}
	got := ids(View(todos, model.TodoFilters{Priority: model.Ptr(model.PriorityP1)}, "", model.SortAsc))
	if want := []string{"1", "3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestViewIsPure(t *testing.T) {
	todos := []model.Todo{
		{ID: "x", Priority: model.PriorityP3, DeadlineDate: date("2025-05-01"), Labels: []model.Label{{ID: "A"}}},
		{ID: "y", Priority: model.PriorityP1, Labels: []model.Label{{ID: "A"}}},
		{ID: "z", Priority: model.PriorityP2, DeadlineDate: date("2025-04-01")},
	}
	filters := model.TodoFilters{LabelIDs: []string{"A"}}

	snapshot := make([]model.Todo, len(todos))
	for i, t := range todos {
		snapshot[i] = t.Clone()
	}
	filterSnapshot := filters.Clone()

	first := View(todos, filters, model.SortByDeadlineDate, model.SortAsc)
	second := View(todos, filters, model.SortByDeadlineDate, model.SortAsc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different output")
	}
	if !reflect.DeepEqual(todos, snapshot) || !reflect.DeepEqual(filters, filterSnapshot) {
		t.Fatalf("View mutated its inputs")
	}

	first[0].Title = "mutated"
	first[0].Labels[0].ID = "mutated"
	if todos[0].Title == "mutated" || todos[0].Labels[0].ID == "mutated" {
		t.Fatalf("View output aliases its input")
	}
}

func TestViewUnknownSortFieldKeepsOrder(t *testing.T) {
	todos := []model.Todo{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	got := ids(View(todos, model.TodoFilters{}, model.SortField("title"), model.SortAsc))
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func ids(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}
