package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/todo-api/internal/model"
)

// TodoRepo provides CRUD operations for todos. Every mutating method
// follows the same ordering: the record must exist (else ErrTodoNotFound),
// the record must belong to the caller (else ErrForbidden), and only then
// is the row changed. Mutations run inside a transaction with a row lock
// so the check and the write are atomic.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

// TodoPatch describes a partial update. A nil field means "leave
// unchanged"; a non-nil pointer to a zero value (empty description,
// false completion flag) is a real change.
type TodoPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
	ImageURL    *string
}

const todoColumns = "id,title,description,is_completed,user_id,added_by,image_url,created_at,updated_at"

// scanTodo reads one row into a model.Todo. The image_url column is
// nullable and mapped to a nil pointer when absent.
func scanTodo(row *sql.Row) (model.Todo, error) {
	var t model.Todo
	var img sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted,
		&t.UserID, &t.AddedBy, &img, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Todo{}, err
	}
	if img.Valid {
		u := img.String
		t.ImageURL = &u
	}
	return t, nil
}

// ListByOwner returns all todos belonging to the given user in insertion
// order.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id=? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]model.Todo, 0)
	for rows.Next() {
		var t model.Todo
		var img sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted,
			&t.UserID, &t.AddedBy, &img, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if img.Valid {
			u := img.String
			t.ImageURL = &u
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Create inserts a new todo and returns the stored record with generated
// id and timestamps populated.
func (r *TodoRepo) Create(ctx context.Context, ownerID uint64, addedBy, title, description string, imageURL *string) (model.Todo, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (title, description, is_completed, user_id, added_by, image_url) VALUES (?,?,0,?,?,?)",
		title, description, ownerID, addedBy, imageURL)
	if err != nil {
		return model.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Todo{}, err
	}
	// Query back the full row to pick up database-side defaults.
	return scanTodo(r.DB.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=?", id))
}

// GetOwned fetches a todo and enforces the exist-then-owner ordering:
// a missing record yields ErrTodoNotFound, a record owned by someone else
// yields ErrForbidden.
func (r *TodoRepo) GetOwned(ctx context.Context, id, ownerID uint64) (model.Todo, error) {
	t, err := scanTodo(r.DB.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=? LIMIT 1", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Todo{}, ErrTodoNotFound
		}
		return model.Todo{}, err
	}
	if t.UserID != ownerID {
		return model.Todo{}, ErrForbidden
	}
	return t, nil
}

// lockOwned loads a todo inside tx with a row lock, applying the same
// exist-then-owner ordering as GetOwned.
func lockOwned(ctx context.Context, tx *sql.Tx, id, ownerID uint64) (model.Todo, error) {
	var t model.Todo
	var img sql.NullString
	err := tx.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=? LIMIT 1 FOR UPDATE", id).
		Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted,
			&t.UserID, &t.AddedBy, &img, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Todo{}, ErrTodoNotFound
		}
		return model.Todo{}, err
	}
	if img.Valid {
		u := img.String
		t.ImageURL = &u
	}
	if t.UserID != ownerID {
		return model.Todo{}, ErrForbidden
	}
	return t, nil
}

// Update applies a partial patch to a todo owned by ownerID and returns
// the updated record. Fields left nil in the patch keep their current
// values.
func (r *TodoRepo) Update(ctx context.Context, id, ownerID uint64, patch TodoPatch) (model.Todo, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, err
	}
	defer tx.Rollback()

	t, err := lockOwned(ctx, tx, id, ownerID)
	if err != nil {
		return model.Todo{}, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	if patch.ImageURL != nil {
		t.ImageURL = patch.ImageURL
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET title=?, description=?, is_completed=?, image_url=? WHERE id=?",
		t.Title, t.Description, t.IsCompleted, t.ImageURL, id); err != nil {
		return model.Todo{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Todo{}, err
	}
	// Re-read outside the transaction so updated_at reflects the write.
	return scanTodo(r.DB.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=?", id))
}

// SetStatus flips only the completion flag and returns the updated record.
func (r *TodoRepo) SetStatus(ctx context.Context, id, ownerID uint64, isCompleted bool) (model.Todo, error) {
	return r.Update(ctx, id, ownerID, TodoPatch{IsCompleted: &isCompleted})
}

// DeleteByIDAndOwner removes a todo owned by ownerID. It returns the
// attachment URL that was stored on the record (nil when there was none)
// so the caller can release the blob after the row is gone.
func (r *TodoRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (*string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := lockOwned(ctx, tx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id=?", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t.ImageURL, nil
}
