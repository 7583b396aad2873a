package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/propagation"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// GroupService manages course work groups and their memberships.
type GroupService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(pool *pgxpool.Pool, log zerolog.Logger) *GroupService {
	return &GroupService{
		pool: pool,
		log:  log.With().Str("component", "group_service").Logger(),
	}
}

func (s *GroupService) engine(tx pgx.Tx) *propagation.Engine {
	return propagation.NewEngine(perm.NewPGStore(tx), repository.NewDirectory(tx), s.log)
}

// Get retrieves a group by ID.
func (s *GroupService) Get(ctx context.Context, id int64) (*model.Group, error) {
	g, err := repository.NewGroupRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// ListByCourse retrieves the groups of a course.
func (s *GroupService) ListByCourse(ctx context.Context, courseID int64) ([]model.Group, error) {
	return repository.NewGroupRepository(s.pool).ListByCourse(ctx, courseID)
}

// ListMembers retrieves the member students of a group, leader excluded.
func (s *GroupService) ListMembers(ctx context.Context, groupID int64) ([]model.Student, error) {
	if _, err := s.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return repository.NewStudentRepository(s.pool).ListByGroup(ctx, groupID)
}

// Create inserts a new group. The leader and all initial members must take
// the course and must not already be grouped in it; the group number is
// auto-assigned to the lowest unused letter when omitted.
func (s *GroupService) Create(ctx context.Context, req *model.CreateGroupRequest) (*model.Group, error) {
	course, err := repository.NewCourseRepository(s.pool).GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("course_id", "course does not exist")
		}
		return nil, err
	}

	size := 1 + len(req.Members)
	if course.MaxGroupSize > 0 && (size < course.MinGroupSize || size > course.MaxGroupSize) {
		return nil, fieldError("members", "group size is outside the course's limits")
	}

	g := &model.Group{
		CourseID: req.CourseID,
		Number:   strings.ToUpper(req.Number),
		Name:     req.Name,
		LeaderID: req.LeaderID,
	}
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		groupRepo := repository.NewGroupRepository(tx)

		leader, err := s.groupCandidate(ctx, tx, req.CourseID, req.LeaderID, "leader_id")
		if err != nil {
			return err
		}

		number, err := s.resolveNumber(ctx, groupRepo, req.CourseID, g.Number)
		if err != nil {
			return err
		}
		g.Number = number

		if err := groupRepo.Create(ctx, g); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("number", "group number is already taken")
			}
			return err
		}

		engine := s.engine(tx)
		if err := engine.Apply(ctx, propagation.GroupCreated{Group: groupInfo(g, leader.UserID)}); err != nil {
			return err
		}

		for _, studentID := range req.Members {
			if err := s.addMemberRow(ctx, tx, engine, g, leader.UserID, studentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("group_id", g.ID).Int64("course_id", g.CourseID).
		Str("number", g.Number).Msg("group created")
	return g, nil
}

// Update renames a group, changes its number, or hands leadership over. A
// leadership change moves the leader's edit grant.
func (s *GroupService) Update(ctx context.Context, id int64, req *model.UpdateGroupRequest) (*model.Group, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	g := &model.Group{
		ID:       old.ID,
		CourseID: old.CourseID,
		Number:   old.Number,
		Name:     req.Name,
		LeaderID: req.LeaderID,
	}
	if req.Number != "" {
		g.Number = strings.ToUpper(req.Number)
		if !strings.Contains(model.GroupNumbers, g.Number) {
			return nil, fieldError("number", "group number must be a letter A-Z")
		}
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		groupRepo := repository.NewGroupRepository(tx)
		students := repository.NewStudentRepository(tx)

		oldLeader, err := students.GetByID(ctx, old.LeaderID)
		if err != nil {
			return err
		}
		newLeaderUserID := oldLeader.UserID

		if req.LeaderID != old.LeaderID {
			newLeader, err := students.GetByID(ctx, req.LeaderID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fieldError("leader_id", "student does not exist")
				}
				return err
			}
			enrolled, err := repository.NewTakesRepository(tx).Exists(ctx, newLeader.ID, g.CourseID)
			if err != nil {
				return err
			}
			if !enrolled {
				return fieldError("leader_id", "leader must take the course")
			}
			// A member promoted to leader stops being a plain member.
			if _, err := groupRepo.RemoveMember(ctx, g.ID, newLeader.ID); err != nil {
				return err
			}
			grouped, err := groupRepo.InAnyGroupOfCourse(ctx, g.CourseID, newLeader.ID)
			if err != nil {
				return err
			}
			if grouped {
				return fieldError("leader_id", "student already belongs to a group of this course")
			}
			newLeaderUserID = newLeader.UserID
		}

		if err := groupRepo.Update(ctx, g); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("number", "group number is already taken")
			}
			return err
		}

		if req.LeaderID == old.LeaderID {
			return nil
		}
		return s.engine(tx).Apply(ctx, propagation.GroupLeaderChanged{
			Group:           groupInfo(g, newLeaderUserID),
			OldLeaderID:     old.LeaderID,
			OldLeaderUserID: oldLeader.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a group with its memberships.
func (s *GroupService) Delete(ctx context.Context, id int64) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	leader, err := repository.NewStudentRepository(s.pool).GetByID(ctx, g.LeaderID)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return deleteGroupRow(ctx, tx, s.engine(tx), leader.UserID, *g)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("group_id", g.ID).Msg("group deleted")
	return nil
}

// AddMember adds a student to a group.
func (s *GroupService) AddMember(ctx context.Context, groupID int64, req *model.AddGroupMemberRequest) error {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	course, err := repository.NewCourseRepository(s.pool).GetByID(ctx, g.CourseID)
	if err != nil {
		return err
	}
	leader, err := repository.NewStudentRepository(s.pool).GetByID(ctx, g.LeaderID)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		members, err := repository.NewGroupRepository(tx).ListMembers(ctx, g.ID)
		if err != nil {
			return err
		}
		if course.MaxGroupSize > 0 && 1+len(members)+1 > course.MaxGroupSize {
			return fieldError("student_id", "group is already full")
		}
		return s.addMemberRow(ctx, tx, s.engine(tx), g, leader.UserID, req.StudentID)
	})
}

// RemoveMember removes a student from a group. Membership confers nothing
// beyond enrollment, so no revoke follows.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, studentID int64) error {
	if _, err := s.Get(ctx, groupID); err != nil {
		return err
	}
	removed, err := repository.NewGroupRepository(s.pool).RemoveMember(ctx, groupID, studentID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// groupCandidate validates that the student exists, takes the course, and
// is not yet grouped in it.
func (s *GroupService) groupCandidate(ctx context.Context, tx pgx.Tx, courseID, studentID int64, field string) (*model.Student, error) {
	stu, err := repository.NewStudentRepository(tx).GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError(field, "student does not exist")
		}
		return nil, err
	}
	enrolled, err := repository.NewTakesRepository(tx).Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fieldError(field, "student must take the course")
	}
	grouped, err := repository.NewGroupRepository(tx).InAnyGroupOfCourse(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if grouped {
		return nil, fieldError(field, "student already belongs to a group of this course")
	}
	return stu, nil
}

func (s *GroupService) addMemberRow(ctx context.Context, tx pgx.Tx, engine *propagation.Engine, g *model.Group, leaderUserID, studentID int64) error {
	member, err := s.groupCandidate(ctx, tx, g.CourseID, studentID, "student_id")
	if err != nil {
		return err
	}
	m := &model.GroupMembership{GroupID: g.ID, StudentID: studentID}
	if err := repository.NewGroupRepository(tx).AddMember(ctx, m); err != nil {
		if repository.IsUniqueViolation(err) {
			return conflictError("student_id", "student is already in this group")
		}
		return err
	}
	return engine.Apply(ctx, propagation.GroupMemberAdded{
		Group: propagation.GroupInfo{GroupID: g.ID, CourseID: g.CourseID, LeaderID: g.LeaderID, LeaderUserID: leaderUserID},
		Member: propagation.StudentInfo{
			StudentID: member.ID,
			UserID:    member.UserID,
			ClassID:   member.ClassID,
		},
	})
}

// resolveNumber picks the lowest unused letter, or validates a requested
// one.
func (s *GroupService) resolveNumber(ctx context.Context, groupRepo *repository.GroupRepository, courseID int64, requested string) (string, error) {
	used, err := groupRepo.UsedNumbers(ctx, courseID)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(used))
	for _, n := range used {
		taken[n] = true
	}

	if requested != "" {
		if !strings.Contains(model.GroupNumbers, requested) {
			return "", fieldError("number", "group number must be a letter A-Z")
		}
		if taken[requested] {
			return "", conflictError("number", "group number is already taken")
		}
		return requested, nil
	}

	for _, r := range model.GroupNumbers {
		if n := string(r); !taken[n] {
			return n, nil
		}
	}
	return "", fieldError("number", "course already has the maximum number of groups")
}

func groupInfo(g *model.Group, leaderUserID int64) propagation.GroupInfo {
	return propagation.GroupInfo{
		GroupID:      g.ID,
		CourseID:     g.CourseID,
		LeaderID:     g.LeaderID,
		LeaderUserID: leaderUserID,
	}
}
