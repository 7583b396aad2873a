package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// GroupRepository handles group and membership data access.
type GroupRepository struct {
	db database.Querier
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db database.Querier) *GroupRepository {
	return &GroupRepository{db: db}
}

const groupColumns = `id, course_id, number, name, leader_id, created_at, updated_at`

func scanGroup(row interface{ Scan(...any) error }) (*model.Group, error) {
	g := &model.Group{}
	err := row.Scan(&g.ID, &g.CourseID, &g.Number, &g.Name, &g.LeaderID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a group by its ID.
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	return scanGroup(r.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
}

// ListByCourse retrieves the groups of a course in number order.
func (r *GroupRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Group, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE course_id = $1 ORDER BY number`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// UsedNumbers retrieves the group numbers already taken within a course.
func (r *GroupRepository) UsedNumbers(ctx context.Context, courseID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT number FROM groups WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO groups (course_id, number, name, leader_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		g.CourseID, g.Number, g.Name, g.LeaderID,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// Update modifies an existing group.
func (r *GroupRepository) Update(ctx context.Context, g *model.Group) error {
	_, err := r.db.Exec(ctx,
		`UPDATE groups
		 SET number = $1, name = $2, leader_id = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		g.Number, g.Name, g.LeaderID, g.ID,
	)
	return err
}

// Delete removes a group by its ID.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

// AddMember inserts a membership row.
func (r *GroupRepository) AddMember(ctx context.Context, m *model.GroupMembership) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO group_memberships (group_id, student_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		m.GroupID, m.StudentID,
	).Scan(&m.ID, &m.CreatedAt)
}

// RemoveMember deletes a membership row, reporting whether one existed.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, studentID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM group_memberships WHERE group_id = $1 AND student_id = $2`,
		groupID, studentID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListMembers retrieves the membership rows of a group.
func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]model.GroupMembership, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, group_id, student_id, created_at
		 FROM group_memberships WHERE group_id = $1 ORDER BY id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.GroupMembership
	for rows.Next() {
		var m model.GroupMembership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.StudentID, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// InAnyGroupOfCourse reports whether the student is already grouped within
// the course, as leader or member.
func (r *GroupRepository) InAnyGroupOfCourse(ctx context.Context, courseID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM groups g
		   LEFT JOIN group_memberships m ON m.group_id = g.id
		   WHERE g.course_id = $1 AND (g.leader_id = $2 OR m.student_id = $2)
		 )`,
		courseID, studentID,
	).Scan(&exists)
	return exists, err
}
