package propagation

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/perm"
)

// groupAdvancedPerms are the grants a course instructor holds on every group
// of the course.
var groupAdvancedPerms = []string{PermViewGroup, PermChangeGroup, PermDeleteGroup}

func (e *Engine) grantGroupAdvanced(ctx context.Context, userID, groupID int64) error {
	for _, base := range groupAdvancedPerms {
		if err := e.assign(ctx, perm.Name(base, perm.LevelAdvanced), userID, groupRef(groupID)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) removeGroupAdvanced(ctx context.Context, userID, groupID int64) error {
	for _, base := range groupAdvancedPerms {
		if err := perm.RemoveAllLevels(ctx, e.store, base, userID, groupRef(groupID)); err != nil {
			return err
		}
	}
	return nil
}

// groupCreated makes the group visible to the course's students, manageable
// by its instructors, and editable by its leader.
func (e *Engine) groupCreated(ctx context.Context, g GroupInfo) error {
	students, err := e.dir.CourseStudents(ctx, g.CourseID)
	if err != nil {
		return err
	}
	groupBase := perm.Name(PermViewGroup, perm.LevelBase)
	for _, s := range students {
		if err := e.assign(ctx, groupBase, s.UserID, groupRef(g.GroupID)); err != nil {
			return err
		}
	}

	instructors, err := e.dir.CourseInstructors(ctx, g.CourseID)
	if err != nil {
		return err
	}
	for _, inst := range instructors {
		if err := e.grantGroupAdvanced(ctx, inst.UserID, g.GroupID); err != nil {
			return err
		}
	}

	return e.assign(ctx, perm.Name(PermChangeGroup, perm.LevelAdvanced), g.LeaderUserID, groupRef(g.GroupID))
}

// groupLeaderChanged moves the leader's edit grant from the old leader to
// the new one.
func (e *Engine) groupLeaderChanged(ctx context.Context, g GroupInfo, oldLeaderUserID int64) error {
	changeAdv := perm.Name(PermChangeGroup, perm.LevelAdvanced)
	if err := e.store.Remove(ctx, changeAdv, oldLeaderUserID, groupRef(g.GroupID)); err != nil {
		return err
	}
	return e.assign(ctx, changeAdv, g.LeaderUserID, groupRef(g.GroupID))
}

func (e *Engine) groupDeleted(ctx context.Context, g GroupInfo) error {
	return e.store.PurgeObject(ctx, groupRef(g.GroupID))
}

// groupMemberAdded re-asserts the member's base visibility of the group. A
// member must already take the course, so this is normally a no-op that
// keeps the grant set closed under membership.
func (e *Engine) groupMemberAdded(ctx context.Context, g GroupInfo, member StudentInfo) error {
	return e.assign(ctx, perm.Name(PermViewGroup, perm.LevelBase), member.UserID, groupRef(g.GroupID))
}
