package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo-tracker/todos/core"
)

func newServiceWithFakeDB() (*fakeDB, *core.Service) {
	db := newFakeDB()
	return db, core.NewService(db, db)
}

func mustCreateTodo(t *testing.T, svc *core.Service, in core.TodoInput) core.Todo {
	t.Helper()

	todo, err := svc.CreateTodo(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to prepare todo: %v", err)
	}
	return todo
}

func strPtr(v string) *string {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError on %q, got %v", field, err)
	}
	if verr.Field != field {
		t.Fatalf("expected ValidationError on %q, got field %q", field, verr.Field)
	}
	if !errors.Is(err, core.ErrTodoInvalidArgs) {
		t.Fatalf("expected ValidationError to unwrap to ErrTodoInvalidArgs")
	}
}

func TestServiceCreateTodo_Defaults(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	todo, err := svc.CreateTodo(context.Background(), core.TodoInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("CreateTodo returned error: %v", err)
	}

	if todo.ID <= 0 {
		t.Fatalf("expected id to be assigned, got %d", todo.ID)
	}
	if todo.Completed {
		t.Fatalf("expected completed=false")
	}
	if todo.Priority != core.PriorityMedium {
		t.Fatalf("expected priority medium, got %q", todo.Priority)
	}
	if todo.Description != nil || todo.DueDate != nil {
		t.Fatalf("expected no description and no due date, got %v %v", todo.Description, todo.DueDate)
	}
	if todo.CreatedAt.After(todo.UpdatedAt) {
		t.Fatalf("created_at %v is after updated_at %v", todo.CreatedAt, todo.UpdatedAt)
	}
	if len(todo.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %d", len(todo.Assignments))
	}
}

func TestServiceCreateTodo_MissingTitle(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()

	for _, title := range []string{"", "   "} {
		_, err := svc.CreateTodo(context.Background(), core.TodoInput{Title: title})
		assertValidationField(t, err, "title")
	}

	items, err := db.ListTodos(context.Background(), core.ListTodosFilter{})
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no rows to be persisted, got %d", len(items))
	}
}

func TestServiceCreateTodo_TitleTooLong(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	_, err := svc.CreateTodo(context.Background(), core.TodoInput{Title: strings.Repeat("x", core.TitleMaxLength+1)})
	assertValidationField(t, err, "title")

	_, err = svc.CreateTodo(context.Background(), core.TodoInput{Title: strings.Repeat("я", core.TitleMaxLength)})
	if err != nil {
		t.Fatalf("expected 200 runes to be accepted, got %v", err)
	}
}

func TestServiceCreateTodo_InvalidPriority(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	_, err := svc.CreateTodo(context.Background(), core.TodoInput{Title: "task", Priority: "urgent"})
	assertValidationField(t, err, "priority")
}

func TestServiceCreateTodo_BlankDescriptionIsNull(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task", Description: strPtr("  ")})
	if todo.Description != nil {
		t.Fatalf("expected nil description, got %q", *todo.Description)
	}
}

func TestServicePatchTodo_OnlyTouchesGivenFields(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	todo := mustCreateTodo(t, svc, core.TodoInput{
		Title:       "old title",
		Description: strPtr("old description"),
		DueDate:     &due,
		Priority:    core.PriorityHigh,
	})

	updated, err := svc.PatchTodo(context.Background(), todo.ID, core.TodoPatch{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("PatchTodo returned error: %v", err)
	}

	if !updated.Completed {
		t.Fatalf("expected completed=true")
	}
	if updated.Title != todo.Title || updated.Priority != todo.Priority {
		t.Fatalf("unexpected change: %+v", updated)
	}
	if updated.Description == nil || *updated.Description != "old description" {
		t.Fatalf("expected description to stay, got %v", updated.Description)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatalf("expected due date to stay, got %v", updated.DueDate)
	}
	if !updated.CreatedAt.Equal(todo.CreatedAt) {
		t.Fatalf("created_at changed from %v to %v", todo.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(todo.UpdatedAt) {
		t.Fatalf("expected updated_at to move forward, got %v (was %v)", updated.UpdatedAt, todo.UpdatedAt)
	}
}

func TestServicePatchTodo_ClearsDescriptionAndDueDate(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task", Description: strPtr("text"), DueDate: &due})

	zero := time.Time{}
	updated, err := svc.PatchTodo(context.Background(), todo.ID, core.TodoPatch{
		Description: strPtr(""),
		DueDate:     &zero,
	})
	if err != nil {
		t.Fatalf("PatchTodo returned error: %v", err)
	}
	if updated.Description != nil || updated.DueDate != nil {
		t.Fatalf("expected description and due date to be cleared, got %v %v", updated.Description, updated.DueDate)
	}
}

func TestServicePatchTodo_InvalidPriority(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task"})

	invalid := core.Priority("urgent")
	_, err := svc.PatchTodo(context.Background(), todo.ID, core.TodoPatch{Priority: &invalid})
	assertValidationField(t, err, "priority")
}

func TestServicePatchTodo_BlankTitle(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task"})

	_, err := svc.PatchTodo(context.Background(), todo.ID, core.TodoPatch{Title: strPtr(" ")})
	assertValidationField(t, err, "title")
}

func TestServicePatchTodo_TodoNotFound(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()

	_, err := svc.PatchTodo(context.Background(), 999, core.TodoPatch{Title: strPtr("updated")})
	if !errors.Is(err, core.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestServiceAssignUser_CreateThenOverwriteRole(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	db.addUser(core.User{ID: 7, Username: "alice", Email: "alice@example.com"})
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "Write report"})

	first, created, err := svc.AssignUser(context.Background(), todo.ID, 7, "")
	if err != nil {
		t.Fatalf("AssignUser returned error: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create the assignment")
	}
	if first.Role != core.RoleAssignee {
		t.Fatalf("expected default role assignee, got %q", first.Role)
	}
	if first.User.Username != "alice" {
		t.Fatalf("expected user to be embedded, got %+v", first.User)
	}

	second, created, err := svc.AssignUser(context.Background(), todo.ID, 7, "reviewer")
	if err != nil {
		t.Fatalf("AssignUser returned error: %v", err)
	}
	if created {
		t.Fatalf("expected second call to update in place")
	}
	if second.Role != core.RoleReviewer {
		t.Fatalf("expected role reviewer, got %q", second.Role)
	}
	if !second.AssignedAt.Equal(first.AssignedAt) {
		t.Fatalf("assigned_at changed from %v to %v", first.AssignedAt, second.AssignedAt)
	}

	if n := db.assignmentCount(todo.ID); n != 1 {
		t.Fatalf("expected exactly one assignment, got %d", n)
	}

	got, err := svc.GetTodo(context.Background(), todo.ID)
	if err != nil {
		t.Fatalf("GetTodo returned error: %v", err)
	}
	if len(got.Assignments) != 1 || got.Assignments[0].Role != core.RoleReviewer {
		t.Fatalf("unexpected embedded assignments: %+v", got.Assignments)
	}
	if !got.UpdatedAt.Equal(todo.UpdatedAt) {
		t.Fatalf("assigning must not touch the todo row")
	}
}

func TestServiceAssignUser_MissingUserIDSkipsLookup(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task"})

	_, _, err := svc.AssignUser(context.Background(), todo.ID, 0, "assignee")
	assertValidationField(t, err, "user_id")

	if n := db.userLookups.Load(); n != 0 {
		t.Fatalf("expected no user lookups, got %d", n)
	}
}

func TestServiceAssignUser_InvalidRoleSkipsLookup(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	db.addUser(core.User{ID: 1, Username: "bob"})
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task"})

	_, _, err := svc.AssignUser(context.Background(), todo.ID, 1, "owner")
	assertValidationField(t, err, "role")

	if n := db.userLookups.Load(); n != 0 {
		t.Fatalf("expected no user lookups, got %d", n)
	}
	if n := db.assignmentCount(todo.ID); n != 0 {
		t.Fatalf("expected no assignment, got %d", n)
	}
}

func TestServiceAssignUser_UnknownUser(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task"})

	_, _, err := svc.AssignUser(context.Background(), todo.ID, 42, "")
	if !errors.Is(err, core.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if n := db.assignmentCount(todo.ID); n != 0 {
		t.Fatalf("expected no assignment, got %d", n)
	}
}

func TestServiceAssignUser_UnknownTodo(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	db.addUser(core.User{ID: 1, Username: "bob"})

	_, _, err := svc.AssignUser(context.Background(), 999, 1, "")
	if !errors.Is(err, core.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestServiceDeleteTodo_CascadesAssignments(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	todo := mustCreateTodo(t, svc, core.TodoInput{Title: "task"})
	other := mustCreateTodo(t, svc, core.TodoInput{Title: "other"})

	for id := int64(1); id <= 3; id++ {
		db.addUser(core.User{ID: id})
		if _, _, err := svc.AssignUser(context.Background(), todo.ID, id, ""); err != nil {
			t.Fatalf("failed to prepare assignment: %v", err)
		}
	}
	if _, _, err := svc.AssignUser(context.Background(), other.ID, 1, ""); err != nil {
		t.Fatalf("failed to prepare assignment: %v", err)
	}

	if err := svc.DeleteTodo(context.Background(), todo.ID); err != nil {
		t.Fatalf("DeleteTodo returned error: %v", err)
	}

	if n := db.assignmentCount(todo.ID); n != 0 {
		t.Fatalf("expected assignments to be deleted, got %d", n)
	}
	if n := db.assignmentCount(other.ID); n != 1 {
		t.Fatalf("expected other todo to keep its assignment, got %d", n)
	}

	_, err := svc.GetTodo(context.Background(), todo.ID)
	if !errors.Is(err, core.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}

	err = svc.DeleteTodo(context.Background(), todo.ID)
	if !errors.Is(err, core.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}

func titles(items []core.Todo) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestServiceListTodos_SearchAndOrdering(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()
	ctx := context.Background()

	mustCreateTodo(t, svc, core.TodoInput{Title: "Buy milk", Priority: core.PriorityLow})
	mustCreateTodo(t, svc, core.TodoInput{Title: "Fix FOO bug", Priority: core.PriorityHigh})
	mustCreateTodo(t, svc, core.TodoInput{Title: "Answer mail", Description: strPtr("about foo"), Priority: core.PriorityMedium})

	items, err := svc.ListTodos(ctx, core.ListTodosFilter{})
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if got := strings.Join(titles(items), "|"); got != "Answer mail|Fix FOO bug|Buy milk" {
		t.Fatalf("expected newest first, got %s", got)
	}

	items, err = svc.ListTodos(ctx, core.ListTodosFilter{Search: "foo", Ordering: core.ParseOrdering("title")})
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if got := strings.Join(titles(items), "|"); got != "Answer mail|Fix FOO bug" {
		t.Fatalf("unexpected search result: %s", got)
	}

	items, err = svc.ListTodos(ctx, core.ListTodosFilter{Ordering: core.ParseOrdering("-priority")})
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if got := strings.Join(titles(items), "|"); got != "Fix FOO bug|Answer mail|Buy milk" {
		t.Fatalf("unexpected priority ordering: %s", got)
	}

	items, err = svc.ListTodos(ctx, core.ListTodosFilter{Search: "foo mail"})
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if got := strings.Join(titles(items), "|"); got != "Answer mail" {
		t.Fatalf("expected terms to be AND-ed, got %s", got)
	}
}

func TestServiceListTodos_Filters(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeDB()
	ctx := context.Background()

	mustCreateTodo(t, svc, core.TodoInput{Title: "done", Completed: true, Priority: core.PriorityHigh})
	mustCreateTodo(t, svc, core.TodoInput{Title: "open", Priority: core.PriorityHigh})
	mustCreateTodo(t, svc, core.TodoInput{Title: "low"})

	high := core.PriorityHigh
	items, err := svc.ListTodos(ctx, core.ListTodosFilter{Completed: boolPtr(false), Priority: &high})
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if got := strings.Join(titles(items), "|"); got != "open" {
		t.Fatalf("unexpected filter result: %s", got)
	}

	invalid := core.Priority("urgent")
	_, err = svc.ListTodos(ctx, core.ListTodosFilter{Priority: &invalid})
	assertValidationField(t, err, "priority")

	_, err = svc.ListTodos(ctx, core.ListTodosFilter{Limit: -1})
	assertValidationField(t, err, "limit")
}

func TestParseOrdering(t *testing.T) {
	t.Parallel()

	got := core.ParseOrdering("-priority, title", "bogus", "-created_at")
	want := []core.Ordering{
		{Field: core.OrderByPriority, Desc: true},
		{Field: core.OrderByTitle},
		{Field: core.OrderByCreatedAt, Desc: true},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	def := core.ParseOrdering("password")
	if len(def) != 1 || def[0] != (core.Ordering{Field: core.OrderByCreatedAt, Desc: true}) {
		t.Fatalf("expected default ordering, got %v", def)
	}
}

func TestParsePriority_ExactChoicesOnly(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"low", "medium", "high"} {
		p, err := core.ParsePriority(v)
		if err != nil || string(p) != v {
			t.Fatalf("expected %q to parse, got %q, %v", v, p, err)
		}
	}
	for _, v := range []string{"", "HIGH", "  low ", "Medium", "urgent"} {
		_, err := core.ParsePriority(v)
		assertValidationField(t, err, "priority")
	}
}

func TestParseRole_ExactChoicesOnly(t *testing.T) {
	t.Parallel()

	r, err := core.ParseRole("")
	if err != nil || r != core.RoleAssignee {
		t.Fatalf("expected empty role to default to assignee, got %q, %v", r, err)
	}
	for _, v := range []string{"Reviewer", " assignee", "owner"} {
		_, err := core.ParseRole(v)
		assertValidationField(t, err, "role")
	}
}

func TestService_NonPositiveIDIsNotFound(t *testing.T) {
	t.Parallel()

	db, svc := newServiceWithFakeDB()
	db.addUser(core.User{ID: 1, Username: "bob"})
	ctx := context.Background()

	for _, id := range []int64{0, -1} {
		if _, err := svc.GetTodo(ctx, id); !errors.Is(err, core.ErrTodoNotFound) {
			t.Fatalf("GetTodo(%d): expected ErrTodoNotFound, got %v", id, err)
		}
		if _, err := svc.PatchTodo(ctx, id, core.TodoPatch{Title: strPtr("x")}); !errors.Is(err, core.ErrTodoNotFound) {
			t.Fatalf("PatchTodo(%d): expected ErrTodoNotFound, got %v", id, err)
		}
		if err := svc.DeleteTodo(ctx, id); !errors.Is(err, core.ErrTodoNotFound) {
			t.Fatalf("DeleteTodo(%d): expected ErrTodoNotFound, got %v", id, err)
		}
		if _, _, err := svc.AssignUser(ctx, id, 1, ""); !errors.Is(err, core.ErrTodoNotFound) {
			t.Fatalf("AssignUser(%d): expected ErrTodoNotFound, got %v", id, err)
		}
	}
}
