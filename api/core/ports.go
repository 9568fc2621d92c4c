package core

import "context"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Todos interface {
	Pinger

	CreateTodo(ctx context.Context, in TodoInput) (Todo, error)
	GetTodo(ctx context.Context, id int64) (Todo, error)
	ListTodos(ctx context.Context, f ListTodosFilter) ([]Todo, error)
	UpdateTodo(ctx context.Context, id int64, p TodoPatch) (Todo, error)
	DeleteTodo(ctx context.Context, id int64) error

	// AssignUser reports whether the assignment was newly created.
	AssignUser(ctx context.Context, todoID int64, in AssignUserInput) (Assignment, bool, error)
}

type Deps struct {
	Todos Todos
}
