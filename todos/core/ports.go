package core

import "context"

type DB interface {
	Ping(ctx context.Context) error

	CreateTodo(ctx context.Context, t Todo) (Todo, error)
	GetTodo(ctx context.Context, id int64) (Todo, error)
	ListTodos(ctx context.Context, f ListTodosFilter) ([]Todo, error)
	UpdateTodo(ctx context.Context, t Todo) (Todo, error)
	DeleteTodo(ctx context.Context, id int64) error

	// UpsertAssignment creates the (todo, user) assignment or overwrites its
	// role. created reports whether a new row was inserted.
	UpsertAssignment(ctx context.Context, todoID, userID int64, role Role) (a Assignment, created bool, err error)
}

type Users interface {
	GetUser(ctx context.Context, id int64) (User, error)
}
