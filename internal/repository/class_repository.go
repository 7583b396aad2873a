package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	db database.Querier
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db database.Querier) *ClassRepository {
	return &ClassRepository{db: db}
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*model.Class, error) {
	c := &model.Class{}
	err := r.db.QueryRow(ctx,
		`SELECT id, class_id, created_at, updated_at FROM classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.ClassID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByClassID retrieves a class by its external class number.
func (r *ClassRepository) GetByClassID(ctx context.Context, classID string) (*model.Class, error) {
	c := &model.Class{}
	err := r.db.QueryRow(ctx,
		`SELECT id, class_id, created_at, updated_at FROM classes WHERE class_id = $1`, classID,
	).Scan(&c.ID, &c.ClassID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all classes.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, class_id, created_at, updated_at FROM classes ORDER BY class_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.ClassID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO classes (class_id) VALUES ($1)
		 RETURNING id, created_at, updated_at`,
		c.ClassID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	_, err := r.db.Exec(ctx,
		`UPDATE classes SET class_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		c.ClassID, c.ID,
	)
	return err
}

// Delete removes a class by its ID.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}
