// Package perm implements the per-object permission store and the
// four-level permission lattice layered on top of it.
//
// A permission name is either a two-part string ("view_student", meaning the
// "all" level) or a three-part string ("view_student_base"). Each base
// permission carries four ordered levels, base < normal < advanced < all; a
// grant at a level satisfies checks at every lower level.
package perm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPermissionString reports a malformed permission name. This is a
// programmer error (a bad constant), never a user-facing condition.
var ErrInvalidPermissionString = errors.New("invalid permission string")

// Level is one of the four ordered permission levels.
type Level int

const (
	LevelBase Level = iota
	LevelNormal
	LevelAdvanced
	LevelAll
)

var levelNames = map[Level]string{
	LevelBase:     "base",
	LevelNormal:   "normal",
	LevelAdvanced: "advanced",
	LevelAll:      "all",
}

var levelsByName = map[string]Level{
	"base":     LevelBase,
	"normal":   LevelNormal,
	"advanced": LevelAdvanced,
}

func (l Level) String() string { return levelNames[l] }

// Levels lists all four levels in ascending order.
var Levels = []Level{LevelBase, LevelNormal, LevelAdvanced, LevelAll}

// ObjectRef identifies the target object of a grant. The zero value means a
// global (objectless) grant.
type ObjectRef struct {
	Kind string
	ID   int64
}

// Global is the objectless target used for role-wide grants.
var Global = ObjectRef{}

// IsGlobal reports whether the ref is the objectless target.
func (o ObjectRef) IsGlobal() bool { return o == ObjectRef{} }

func (o ObjectRef) String() string {
	if o.IsGlobal() {
		return "*"
	}
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

// Parse splits a permission name into its base permission and level.
// Exactly two underscore-separated tokens mean the "all" level; exactly
// three mean the last token names the level. Anything else is
// ErrInvalidPermissionString.
func Parse(name string) (base string, level Level, err error) {
	tokens := strings.Split(name, "_")
	switch len(tokens) {
	case 2:
		return name, LevelAll, nil
	case 3:
		lvl, ok := levelsByName[tokens[2]]
		if !ok {
			return "", 0, fmt.Errorf("%w: %q has unknown level %q", ErrInvalidPermissionString, name, tokens[2])
		}
		return tokens[0] + "_" + tokens[1], lvl, nil
	default:
		return "", 0, fmt.Errorf("%w: %q has %d tokens, want 2 or 3", ErrInvalidPermissionString, name, len(tokens))
	}
}

// Name renders the permission name for a base permission at a level. The
// "all" level is the bare base permission.
func Name(base string, level Level) string {
	if level == LevelAll {
		return base
	}
	return base + "_" + levelNames[level]
}
