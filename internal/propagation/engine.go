package propagation

import (
	"context"
	"fmt"

	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/rs/zerolog"
)

// Engine applies the grant/revoke side-effects of relationship mutations.
// It holds no state of its own: every decision is a function of the store's
// current grant set and the directory's current rows.
type Engine struct {
	store perm.Store
	dir   Directory
	log   zerolog.Logger
}

// NewEngine creates an Engine over a permission store and directory. Both
// are expected to be bound to the mutation's transaction.
func NewEngine(store perm.Store, dir Directory, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		dir:   dir,
		log:   log.With().Str("component", "propagation").Logger(),
	}
}

// Apply dispatches an event to its handler.
func (e *Engine) Apply(ctx context.Context, ev Event) error {
	var err error
	switch ev := ev.(type) {
	case StudentCreated:
		err = e.studentCreated(ctx, ev.Student)
	case StudentClassChanged:
		err = e.studentClassChanged(ctx, ev.Student, ev.OldClassID)
	case StudentDeleted:
		err = e.studentDeleted(ctx, ev.Student)
	case InstructorCreated:
		err = e.instructorCreated(ctx, ev.Instructor)
	case InstructorDeleted:
		err = e.instructorDeleted(ctx, ev.Instructor)
	case CourseCreated:
		err = e.courseCreated(ctx, ev.CourseID)
	case CourseDeleted:
		err = e.courseDeleted(ctx, ev.CourseID)
	case TakesCreated:
		err = e.takesCreated(ctx, ev.Takes)
	case TakesUpdated:
		err = e.takesUpdated(ctx, ev.Old, ev.New)
	case TakesDeleted:
		err = e.takesDeleted(ctx, ev.Takes)
	case TeachesCreated:
		err = e.teachesCreated(ctx, ev.Teaches)
	case TeachesUpdated:
		err = e.teachesUpdated(ctx, ev.Old, ev.New)
	case TeachesDeleted:
		err = e.teachesDeleted(ctx, ev.Teaches)
	case GroupCreated:
		err = e.groupCreated(ctx, ev.Group)
	case GroupLeaderChanged:
		err = e.groupLeaderChanged(ctx, ev.Group, ev.OldLeaderUserID)
	case GroupDeleted:
		err = e.groupDeleted(ctx, ev.Group)
	case GroupMemberAdded:
		err = e.groupMemberAdded(ctx, ev.Group, ev.Member)
	case GroupMemberRemoved:
		// Membership confers nothing beyond course enrollment; the member
		// keeps course-student visibility of the group.
		err = nil
	default:
		err = fmt.Errorf("unknown event %T", ev)
	}
	if err != nil {
		return fmt.Errorf("propagate %T: %w", ev, err)
	}
	e.log.Debug().Str("event", fmt.Sprintf("%T", ev)).Msg("event applied")
	return nil
}

// assign is AssignFourLevel without override, the engine's common case.
func (e *Engine) assign(ctx context.Context, name string, userID int64, obj perm.ObjectRef) error {
	return perm.AssignFourLevel(ctx, e.store, name, userID, obj, false)
}
