package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"todo-tracker/todos/core"
)

const (
	todoAssignmentsTodoFK = "todo_assignments_todo_id_fkey"
	todoAssignmentsUserFK = "todo_assignments_user_id_fkey"
)

const todoColumns = `id, title, description, completed, due_date, priority, created_at, updated_at`

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {
	db, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "error", err)
		return nil, err
	}
	return &DB{log: log, conn: db}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users

func (db *DB) GetUser(ctx context.Context, id int64) (core.User, error) {
	const q = `SELECT id, username, email FROM users WHERE id = $1`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Todos

func (db *DB) CreateTodo(ctx context.Context, t core.Todo) (core.Todo, error) {
	const q = `
		INSERT INTO todos(title, description, completed, due_date, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns + `;
	`

	var out core.Todo
	err := db.conn.GetContext(ctx, &out, q, t.Title, t.Description, t.Completed, t.DueDate, string(t.Priority))
	if err != nil {
		if isCheckViolation(err) {
			return core.Todo{}, core.ErrTodoInvalidArgs
		}
		return core.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	out.Assignments = []core.Assignment{}
	return out, nil
}

func (db *DB) GetTodo(ctx context.Context, id int64) (core.Todo, error) {
	const q = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1;`

	var t core.Todo
	if err := db.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Todo{}, core.ErrTodoNotFound
		}
		return core.Todo{}, fmt.Errorf("get todo: %w", err)
	}

	todos := []core.Todo{t}
	if err := db.attachAssignments(ctx, todos); err != nil {
		return core.Todo{}, err
	}
	return todos[0], nil
}

func (db *DB) ListTodos(ctx context.Context, f core.ListTodosFilter) ([]core.Todo, error) {
	q, args := buildListQuery(f)

	var out []core.Todo
	if err := db.conn.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if err := db.attachAssignments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) UpdateTodo(ctx context.Context, t core.Todo) (core.Todo, error) {
	const q = `
		UPDATE todos
		SET title = $2,
		    description = $3,
		    completed = $4,
		    due_date = $5,
		    priority = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + todoColumns + `;
	`

	var out core.Todo
	err := db.conn.GetContext(ctx, &out, q, t.ID, t.Title, t.Description, t.Completed, t.DueDate, string(t.Priority))
	if err != nil {
		if isCheckViolation(err) {
			return core.Todo{}, core.ErrTodoInvalidArgs
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Todo{}, core.ErrTodoNotFound
		}
		return core.Todo{}, fmt.Errorf("update todo: %w", err)
	}

	todos := []core.Todo{out}
	if err := db.attachAssignments(ctx, todos); err != nil {
		return core.Todo{}, err
	}
	return todos[0], nil
}

// DeleteTodo relies on ON DELETE CASCADE to drop the assignments.
func (db *DB) DeleteTodo(ctx context.Context, id int64) error {
	const q = `DELETE FROM todos WHERE id = $1`

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTodoNotFound
	}
	return nil
}

// Assignments

func (db *DB) UpsertAssignment(ctx context.Context, todoID, userID int64, role core.Role) (core.Assignment, bool, error) {
	// xmax = 0 only for freshly inserted tuples
	const q = `
		WITH up AS (
			INSERT INTO todo_assignments(todo_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (todo_id, user_id) DO UPDATE SET role = EXCLUDED.role
			RETURNING todo_id, user_id, role, assigned_at, (xmax = 0) AS created
		)
		SELECT up.todo_id, up.role, up.assigned_at, up.created,
		       u.id AS "user.id", u.username AS "user.username", u.email AS "user.email"
		FROM up
		JOIN users u ON u.id = up.user_id;
	`

	var row struct {
		core.Assignment
		Created bool `db:"created"`
	}
	if err := db.conn.GetContext(ctx, &row, q, todoID, userID, string(role)); err != nil {
		switch {
		case isForeignKeyViolation(err, todoAssignmentsTodoFK):
			return core.Assignment{}, false, core.ErrTodoNotFound
		case isForeignKeyViolation(err, todoAssignmentsUserFK):
			return core.Assignment{}, false, core.ErrUserNotFound
		case isCheckViolation(err):
			return core.Assignment{}, false, core.ErrTodoInvalidArgs
		case isUniqueViolation(err):
			return core.Assignment{}, false, fmt.Errorf("%w: %v", core.ErrConstraint, err)
		case errors.Is(err, sql.ErrNoRows):
			// user removed between insert and join
			return core.Assignment{}, false, core.ErrUserNotFound
		}
		return core.Assignment{}, false, fmt.Errorf("upsert assignment: %w", err)
	}
	return row.Assignment, row.Created, nil
}

func (db *DB) attachAssignments(ctx context.Context, todos []core.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(todos))
	for _, t := range todos {
		ids = append(ids, t.ID)
	}

	q, args, err := sqlx.In(`
		SELECT a.todo_id, a.role, a.assigned_at,
		       u.id AS "user.id", u.username AS "user.username", u.email AS "user.email"
		FROM todo_assignments a
		JOIN users u ON u.id = a.user_id
		WHERE a.todo_id IN (?)
		ORDER BY a.assigned_at ASC, a.id ASC;
	`, ids)
	if err != nil {
		return fmt.Errorf("build assignments query: %w", err)
	}

	var rows []core.Assignment
	if err := db.conn.SelectContext(ctx, &rows, db.conn.Rebind(q), args...); err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}

	byTodo := make(map[int64][]core.Assignment, len(todos))
	for _, a := range rows {
		byTodo[a.TodoID] = append(byTodo[a.TodoID], a)
	}
	for i := range todos {
		if as, ok := byTodo[todos[i].ID]; ok {
			todos[i].Assignments = as
		} else {
			todos[i].Assignments = []core.Assignment{}
		}
	}
	return nil
}

// pg helpers

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == constraint
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
