package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_todos.up.sql
var createTodosUp string

//go:embed migrations/03_create_todos_created_at_index.up.sql
var createTodosCreatedAtIndexUp string

//go:embed migrations/04_create_todo_assignments.up.sql
var createTodoAssignmentsUp string

// Migrate применяет миграции для todos-сервиса
func (db *DB) Migrate() error {
	db.log.Debug("running todosDB migrations")

	steps := []struct {
		name string
		sql  string
	}{
		{"users", createUsersUp},
		{"todos", createTodosUp},
		{"todos created_at index", createTodosCreatedAtIndexUp},
		{"todo_assignments", createTodoAssignmentsUp},
	}

	for _, step := range steps {
		if _, err := db.conn.Exec(step.sql); err != nil {
			return fmt.Errorf("apply %s migration: %w", step.name, err)
		}
	}

	db.log.Debug("todosDB migrations finished")
	return nil
}
