package perm

import "context"

// AssignFourLevel grants name to the user on obj following the lattice
// promotion rules:
//
//   - base: granted only if no higher level is already held (a base grant
//     never downgrades an existing higher grant).
//   - normal: supersedes base; skipped when advanced or all is held.
//   - advanced: supersedes base and normal; skipped when all is held.
//   - all: unconditionally clears every lower level and wins.
//
// With override set, all four levels are cleared first and exactly the
// requested level is granted, regardless of prior state.
func AssignFourLevel(ctx context.Context, s Store, name string, userID int64, obj ObjectRef, override bool) error {
	base, level, err := Parse(name)
	if err != nil {
		return err
	}

	if override {
		if err := RemoveAllLevels(ctx, s, base, userID, obj); err != nil {
			return err
		}
		return s.Assign(ctx, Name(base, level), userID, obj)
	}

	// Remove levels strictly below the requested one; they are superseded.
	for _, lower := range Levels {
		if lower >= level {
			break
		}
		ok, err := s.Has(ctx, Name(base, lower), userID, obj)
		if err != nil {
			return err
		}
		if ok {
			if err := s.Remove(ctx, Name(base, lower), userID, obj); err != nil {
				return err
			}
		}
	}

	// Skip the grant when a strictly higher level is already held.
	for _, higher := range Levels {
		if higher <= level {
			continue
		}
		ok, err := s.Has(ctx, Name(base, higher), userID, obj)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	return s.Assign(ctx, Name(base, level), userID, obj)
}

// HasFourLevel reports whether the user holds name on obj. With exact set
// only a grant at precisely the requested level counts; otherwise any grant
// at the requested level or above satisfies the check.
func HasFourLevel(ctx context.Context, s Store, name string, userID int64, obj ObjectRef, exact bool) (bool, error) {
	base, level, err := Parse(name)
	if err != nil {
		return false, err
	}

	ok, err := s.Has(ctx, Name(base, level), userID, obj)
	if err != nil || ok {
		return ok, err
	}
	if exact {
		return false, nil
	}

	for _, higher := range Levels {
		if higher <= level {
			continue
		}
		ok, err := s.Has(ctx, Name(base, higher), userID, obj)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// MaxLevel returns the highest level the user holds for base on obj.
// The second return is false when no level is held at all.
func MaxLevel(ctx context.Context, s Store, base string, userID int64, obj ObjectRef) (Level, bool, error) {
	for i := len(Levels) - 1; i >= 0; i-- {
		ok, err := s.Has(ctx, Name(base, Levels[i]), userID, obj)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return Levels[i], true, nil
		}
	}
	return 0, false, nil
}

// RemoveAllLevels clears the user's grants for base on obj at every level.
func RemoveAllLevels(ctx context.Context, s Store, base string, userID int64, obj ObjectRef) error {
	for _, level := range Levels {
		if err := s.Remove(ctx, Name(base, level), userID, obj); err != nil {
			return err
		}
	}
	return nil
}
