package core

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

type Service struct {
	db    DB
	users Users
}

func NewService(db DB, users Users) *Service {
	return &Service{
		db:    db,
		users: users,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Parsing

// ParsePriority accepts exactly low, medium or high. Callers decide what an
// absent value means.
func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if !p.Valid() {
		return "", NewValidationError("priority", `"`+v+`" is not a valid choice`)
	}
	return p, nil
}

// ParseRole accepts exactly assignee or reviewer. An empty string is the default.
func ParseRole(v string) (Role, error) {
	if v == "" {
		return RoleAssignee, nil
	}
	r := Role(v)
	if !r.Valid() {
		return "", NewValidationError("role", `"`+v+`" is not a valid choice`)
	}
	return r, nil
}

// ParseDueDate reads a YYYY-MM-DD date. The zero time means "no date".
func ParseDueDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DueDateLayout, v)
	if err != nil {
		return time.Time{}, NewValidationError("due_date", "date has wrong format, use YYYY-MM-DD")
	}
	return d, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", NewValidationError("title", "this field is required")
	}
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return "", NewValidationError("title", "ensure this field has no more than 200 characters")
	}
	return title, nil
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.TrimSpace(*d)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeDueDate(d *time.Time) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	v := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &v
}

// Todos

type TodoInput struct {
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
	Priority    Priority // "" => medium
}

// TodoPatch changes only the non-nil fields. An empty Description or a zero
// DueDate clears the value.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Priority    *Priority
}

func (s *Service) CreateTodo(ctx context.Context, in TodoInput) (Todo, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return Todo{}, err
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Todo{}, NewValidationError("priority", `"`+string(priority)+`" is not a valid choice`)
	}

	return s.db.CreateTodo(ctx, Todo{
		Title:       title,
		Description: normalizeDescription(in.Description),
		Completed:   in.Completed,
		DueDate:     normalizeDueDate(in.DueDate),
		Priority:    priority,
	})
}

func (s *Service) GetTodo(ctx context.Context, id int64) (Todo, error) {
	if id <= 0 {
		return Todo{}, ErrTodoNotFound
	}
	return s.db.GetTodo(ctx, id)
}

func (s *Service) ListTodos(ctx context.Context, f ListTodosFilter) ([]Todo, error) {
	if f.Limit < 0 {
		return nil, NewValidationError("limit", "must not be negative")
	}
	if f.Offset < 0 {
		return nil, NewValidationError("offset", "must not be negative")
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return nil, NewValidationError("priority", `"`+string(*f.Priority)+`" is not a valid choice`)
	}
	if len(f.Ordering) == 0 {
		f.Ordering = DefaultOrdering
	}
	return s.db.ListTodos(ctx, f)
}

func (s *Service) PatchTodo(ctx context.Context, id int64, p TodoPatch) (Todo, error) {
	if id <= 0 {
		return Todo{}, ErrTodoNotFound
	}

	cur, err := s.db.GetTodo(ctx, id)
	if err != nil {
		return Todo{}, err // ErrTodoNotFound -> NotFound
	}

	if p.Title != nil {
		title, err := normalizeTitle(*p.Title)
		if err != nil {
			return Todo{}, err
		}
		cur.Title = title
	}

	if p.Description != nil {
		cur.Description = normalizeDescription(p.Description)
	}

	if p.Completed != nil {
		cur.Completed = *p.Completed
	}

	if p.DueDate != nil {
		cur.DueDate = normalizeDueDate(p.DueDate)
	}

	if p.Priority != nil {
		if !p.Priority.Valid() {
			return Todo{}, NewValidationError("priority", `"`+string(*p.Priority)+`" is not a valid choice`)
		}
		cur.Priority = *p.Priority
	}

	return s.db.UpdateTodo(ctx, cur)
}

func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrTodoNotFound
	}
	return s.db.DeleteTodo(ctx, id)
}

// Assignments

// AssignUser gives the user a role on the todo, creating the assignment or
// overwriting the role of the existing one. created reports which happened.
func (s *Service) AssignUser(ctx context.Context, todoID, userID int64, role string) (Assignment, bool, error) {
	if todoID <= 0 {
		return Assignment{}, false, ErrTodoNotFound
	}
	if _, err := s.db.GetTodo(ctx, todoID); err != nil {
		return Assignment{}, false, err
	}

	if userID == 0 {
		return Assignment{}, false, NewValidationError("user_id", "user_id is required")
	}
	r, err := ParseRole(role)
	if err != nil {
		return Assignment{}, false, err
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return Assignment{}, false, err
	}

	return s.db.UpsertAssignment(ctx, todoID, userID, r)
}
