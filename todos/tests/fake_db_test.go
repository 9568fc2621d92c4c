package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"todo-tracker/todos/core"
)

type assignmentKey struct {
	todoID int64
	userID int64
}

type fakeDB struct {
	mu sync.RWMutex

	nextTodoID int64
	seq        int64

	todos       map[int64]core.Todo
	users       map[int64]core.User
	assignments map[assignmentKey]fakeAssignment

	userLookups atomic.Int64
}

type fakeAssignment struct {
	seq  int64
	role core.Role
	at   time.Time
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		nextTodoID:  1,
		todos:       make(map[int64]core.Todo),
		users:       make(map[int64]core.User),
		assignments: make(map[assignmentKey]fakeAssignment),
	}
}

func (db *fakeDB) addUser(u core.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.ID] = u
}

func (db *fakeDB) assignmentCount(todoID int64) int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	n := 0
	for k := range db.assignments {
		if k.todoID == todoID {
			n++
		}
	}
	return n
}

func cloneTodo(t core.Todo) core.Todo {
	out := t
	if t.Description != nil {
		d := *t.Description
		out.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	out.Assignments = nil
	return out
}

// withAssignments must be called with the lock held.
func (db *fakeDB) withAssignments(t core.Todo) core.Todo {
	out := cloneTodo(t)

	type entry struct {
		a   core.Assignment
		seq int64
	}
	var entries []entry
	for k, v := range db.assignments {
		if k.todoID != t.ID {
			continue
		}
		entries = append(entries, entry{
			a: core.Assignment{
				TodoID:     k.todoID,
				User:       db.users[k.userID],
				Role:       v.role,
				AssignedAt: v.at,
			},
			seq: v.seq,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	out.Assignments = make([]core.Assignment, 0, len(entries))
	for _, e := range entries {
		out.Assignments = append(out.Assignments, e.a)
	}
	return out
}

func (db *fakeDB) now() time.Time {
	db.seq++
	return time.Now().Add(time.Duration(db.seq) * time.Microsecond)
}

func (db *fakeDB) Ping(context.Context) error {
	return nil
}

func (db *fakeDB) GetUser(_ context.Context, id int64) (core.User, error) {
	db.userLookups.Add(1)

	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func (db *fakeDB) CreateTodo(_ context.Context, t core.Todo) (core.Todo, error) {
	if strings.TrimSpace(t.Title) == "" || !t.Priority.Valid() {
		return core.Todo{}, core.ErrTodoInvalidArgs
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	t.ID = db.nextTodoID
	db.nextTodoID++

	now := db.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	db.todos[t.ID] = cloneTodo(t)
	return db.withAssignments(t), nil
}

func (db *fakeDB) GetTodo(_ context.Context, id int64) (core.Todo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.todos[id]
	if !ok {
		return core.Todo{}, core.ErrTodoNotFound
	}
	return db.withAssignments(t), nil
}

func matchesSearch(t core.Todo, terms []string) bool {
	title := strings.ToLower(t.Title)
	description := ""
	if t.Description != nil {
		description = strings.ToLower(*t.Description)
	}
	for _, term := range terms {
		term = strings.ToLower(term)
		if !strings.Contains(title, term) && !strings.Contains(description, term) {
			return false
		}
	}
	return true
}

func compareTodos(a, b core.Todo, o core.Ordering) int {
	var c int
	switch o.Field {
	case core.OrderByTitle:
		c = strings.Compare(a.Title, b.Title)
	case core.OrderByCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case core.OrderByUpdatedAt:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	case core.OrderByDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			c = 0
		case a.DueDate == nil:
			c = 1 // nulls last, like postgres ASC
		case b.DueDate == nil:
			c = -1
		default:
			c = a.DueDate.Compare(*b.DueDate)
		}
	case core.OrderByPriority:
		c = a.Priority.Rank() - b.Priority.Rank()
	}
	if o.Desc {
		c = -c
	}
	return c
}

func (db *fakeDB) ListTodos(_ context.Context, f core.ListTodosFilter) ([]core.Todo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	terms := core.SearchTerms(f.Search)

	out := make([]core.Todo, 0, len(db.todos))
	for _, t := range db.todos {
		if !matchesSearch(t, terms) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		out = append(out, db.withAssignments(t))
	}

	ordering := f.Ordering
	if len(ordering) == 0 {
		ordering = core.DefaultOrdering
	}
	sort.Slice(out, func(i, j int) bool {
		for _, o := range ordering {
			if c := compareTodos(out[i], out[j], o); c != 0 {
				return c < 0
			}
		}
		return out[i].ID > out[j].ID
	})

	if f.Offset > len(out) {
		return []core.Todo{}, nil
	}
	if f.Offset > 0 {
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}

	return out, nil
}

func (db *fakeDB) UpdateTodo(_ context.Context, t core.Todo) (core.Todo, error) {
	if t.ID <= 0 || strings.TrimSpace(t.Title) == "" || !t.Priority.Valid() {
		return core.Todo{}, core.ErrTodoInvalidArgs
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	current, ok := db.todos[t.ID]
	if !ok {
		return core.Todo{}, core.ErrTodoNotFound
	}

	t.CreatedAt = current.CreatedAt
	t.UpdatedAt = db.now()

	db.todos[t.ID] = cloneTodo(t)
	return db.withAssignments(t), nil
}

func (db *fakeDB) DeleteTodo(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.todos[id]; !ok {
		return core.ErrTodoNotFound
	}

	delete(db.todos, id)
	for k := range db.assignments {
		if k.todoID == id {
			delete(db.assignments, k)
		}
	}
	return nil
}

func (db *fakeDB) UpsertAssignment(_ context.Context, todoID, userID int64, role core.Role) (core.Assignment, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.todos[todoID]; !ok {
		return core.Assignment{}, false, core.ErrTodoNotFound
	}
	user, ok := db.users[userID]
	if !ok {
		return core.Assignment{}, false, core.ErrUserNotFound
	}

	key := assignmentKey{todoID: todoID, userID: userID}
	current, exists := db.assignments[key]
	if exists {
		current.role = role
	} else {
		current = fakeAssignment{seq: db.seq + 1, role: role, at: db.now()}
	}
	db.assignments[key] = current

	return core.Assignment{
		TodoID:     todoID,
		User:       user,
		Role:       current.role,
		AssignedAt: current.at,
	}, !exists, nil
}
