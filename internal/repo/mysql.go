package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// MySQLRepo stores items in MySQL. The DSN must set parseTime=true.
type MySQLRepo struct {
	db *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{db: db}
}

// OpenMySQL connects with parseTime and a UTC location forced on, whatever the DSN says.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func (m *MySQLRepo) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, mysqlSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (m *MySQLRepo) List(ctx context.Context) ([]model.TodoItem, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todo_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	items := make([]model.TodoItem, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return items, nil
}

func (m *MySQLRepo) Get(ctx context.Context, id int64) (model.TodoItem, error) {
	return m.get(ctx, m.db, id, "")
}

func (m *MySQLRepo) Create(ctx context.Context, in model.TodoInput) (model.TodoItem, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO todo_items (title, is_done, due_at, priority)
		VALUES (?, ?, ?, ?)`,
		in.Title, in.IsDone, in.DueAt.UTC(), string(in.Priority),
	)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.NewTodoItem(id, in), nil
}

// Update locks the row first: MySQL reports zero affected rows for an UPDATE
// that changes nothing, which cannot be told apart from a missing row.
func (m *MySQLRepo) Update(ctx context.Context, id int64, in model.TodoInput) (model.TodoItem, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := m.get(ctx, tx, id, " FOR UPDATE"); err != nil {
		return model.TodoItem{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE todo_items
		SET title = ?, is_done = ?, due_at = ?, priority = ?
		WHERE id = ?`,
		in.Title, in.IsDone, in.DueAt.UTC(), string(in.Priority), id,
	)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.TodoItem{}, fmt.Errorf("commit: %w", err)
	}
	return model.NewTodoItem(id, in), nil
}

func (m *MySQLRepo) Delete(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrorNotFound
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (m *MySQLRepo) get(ctx context.Context, q queryRower, id int64, suffix string) (model.TodoItem, error) {
	row := q.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todo_items WHERE id = ?`+suffix, id)
	item, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TodoItem{}, ErrorNotFound
	}
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("query todo: %w", err)
	}
	return item, nil
}
