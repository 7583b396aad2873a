package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/propagation"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// StudentService manages student accounts. Every mutation runs its row
// change and permission propagation in one transaction.
type StudentService struct {
	pool *pgxpool.Pool
	auth *AuthService
	log  zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(pool *pgxpool.Pool, auth *AuthService, log zerolog.Logger) *StudentService {
	return &StudentService{
		pool: pool,
		auth: auth,
		log:  log.With().Str("component", "student_service").Logger(),
	}
}

func (s *StudentService) engine(tx pgx.Tx) *propagation.Engine {
	return propagation.NewEngine(perm.NewPGStore(tx), repository.NewDirectory(tx), s.log)
}

// Get retrieves a student by ID.
func (s *StudentService) Get(ctx context.Context, id int64) (*model.Student, error) {
	stu, err := repository.NewStudentRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return stu, err
}

// List retrieves all students.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return repository.NewStudentRepository(s.pool).List(ctx)
}

// ListByCourse retrieves the students enrolled in a course.
func (s *StudentService) ListByCourse(ctx context.Context, courseID int64) ([]model.Student, error) {
	return repository.NewStudentRepository(s.pool).ListByCourse(ctx, courseID)
}

// Create registers a login user and its student role, then seeds the
// student's permissions.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	if _, err := repository.NewClassRepository(s.pool).GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("class_id", "class does not exist")
		}
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	stu := &model.Student{
		SID:     req.SID,
		Name:    req.Name,
		Sex:     req.Sex,
		ClassID: req.ClassID,
	}
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		user := &model.User{Username: req.Username, PasswordHash: hash}
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("username", "username is already taken")
			}
			return err
		}
		stu.UserID = user.ID

		if err := repository.NewStudentRepository(tx).Create(ctx, stu); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("s_id", "student ID is already registered")
			}
			return err
		}

		return s.engine(tx).Apply(ctx, propagation.StudentCreated{Student: studentInfo(stu)})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("student_id", stu.ID).Str("s_id", stu.SID).Msg("student created")
	return stu, nil
}

// Update modifies a student's profile. A class move additionally relinks
// the student's classmate permissions.
func (s *StudentService) Update(ctx context.Context, id int64, req *model.UpdateStudentRequest) (*model.Student, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := repository.NewClassRepository(s.pool).GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("class_id", "class does not exist")
		}
		return nil, err
	}

	stu := &model.Student{
		ID:      old.ID,
		UserID:  old.UserID,
		SID:     req.SID,
		Name:    req.Name,
		Sex:     req.Sex,
		ClassID: req.ClassID,
	}
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewStudentRepository(tx).Update(ctx, stu); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("s_id", "student ID is already registered")
			}
			return err
		}
		if stu.ClassID == old.ClassID {
			return nil
		}
		return s.engine(tx).Apply(ctx, propagation.StudentClassChanged{
			Student:    studentInfo(stu),
			OldClassID: old.ClassID,
		})
	})
	if err != nil {
		return nil, err
	}
	return stu, nil
}

// Delete removes a student together with their login user. Enrollments and
// led groups are unwound first so every revoke path runs.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	stu, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		engine := s.engine(tx)

		led, err := ledGroups(ctx, tx, stu.ID)
		if err != nil {
			return err
		}
		for _, g := range led {
			if err := deleteGroupRow(ctx, tx, engine, stu.UserID, g); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM group_memberships WHERE student_id = $1`, stu.ID); err != nil {
			return err
		}

		takesRepo := repository.NewTakesRepository(tx)
		rows, err := takesRepo.ListByStudent(ctx, stu.ID)
		if err != nil {
			return err
		}
		for _, t := range rows {
			if err := takesRepo.Delete(ctx, t.ID); err != nil {
				return err
			}
			if err := engine.Apply(ctx, propagation.TakesDeleted{Takes: propagation.TakesInfo{
				TakesID:       t.ID,
				StudentID:     stu.ID,
				StudentUserID: stu.UserID,
				CourseID:      t.CourseID,
			}}); err != nil {
				return err
			}
		}

		if err := repository.NewStudentRepository(tx).Delete(ctx, stu.ID); err != nil {
			return err
		}
		if err := engine.Apply(ctx, propagation.StudentDeleted{Student: studentInfo(stu)}); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Delete(ctx, stu.UserID)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("student_id", stu.ID).Msg("student deleted")
	return nil
}

func studentInfo(stu *model.Student) propagation.StudentInfo {
	return propagation.StudentInfo{StudentID: stu.ID, UserID: stu.UserID, ClassID: stu.ClassID}
}

// ledGroups lists the groups a student leads.
func ledGroups(ctx context.Context, tx pgx.Tx, studentID int64) ([]model.Group, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, course_id, number, name, leader_id, created_at, updated_at
		 FROM groups WHERE leader_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.CourseID, &g.Number, &g.Name, &g.LeaderID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// deleteGroupRow removes a group and its memberships and dispatches the
// deletion event.
func deleteGroupRow(ctx context.Context, tx pgx.Tx, engine *propagation.Engine, leaderUserID int64, g model.Group) error {
	if _, err := tx.Exec(ctx, `DELETE FROM group_memberships WHERE group_id = $1`, g.ID); err != nil {
		return err
	}
	if err := repository.NewGroupRepository(tx).Delete(ctx, g.ID); err != nil {
		return err
	}
	return engine.Apply(ctx, propagation.GroupDeleted{Group: propagation.GroupInfo{
		GroupID:      g.ID,
		CourseID:     g.CourseID,
		LeaderID:     g.LeaderID,
		LeaderUserID: leaderUserID,
	}})
}
