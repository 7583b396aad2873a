package perm

import (
	"context"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		wantBase  string
		wantLevel Level
		wantErr   bool
	}{
		{name: "view_student", wantBase: "view_student", wantLevel: LevelAll},
		{name: "view_student_base", wantBase: "view_student", wantLevel: LevelBase},
		{name: "view_student_normal", wantBase: "view_student", wantLevel: LevelNormal},
		{name: "view_student_advanced", wantBase: "view_student", wantLevel: LevelAdvanced},
		{name: "core.view_student", wantBase: "core.view_student", wantLevel: LevelAll},
		{name: "core.view_student_base", wantBase: "core.view_student", wantLevel: LevelBase},
		{name: "view", wantErr: true},
		{name: "view_student_base_extra", wantErr: true},
		{name: "view_student_bogus", wantErr: true},
	}

	for _, tt := range tests {
		base, level, err := Parse(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPermissionString) {
				t.Errorf("Parse(%q) err = %v, want ErrInvalidPermissionString", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if base != tt.wantBase || level != tt.wantLevel {
			t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tt.name, base, level, tt.wantBase, tt.wantLevel)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("view_student", LevelAll); got != "view_student" {
		t.Errorf("Name(all) = %q", got)
	}
	if got := Name("view_student", LevelNormal); got != "view_student_normal" {
		t.Errorf("Name(normal) = %q", got)
	}
}

// mustAssign and friends keep the scenario tests readable.
func mustAssign(t *testing.T, s Store, name string, user int64, obj ObjectRef, override bool) {
	t.Helper()
	if err := AssignFourLevel(context.Background(), s, name, user, obj, override); err != nil {
		t.Fatalf("AssignFourLevel(%q): %v", name, err)
	}
}

func hasExactGrant(t *testing.T, s Store, name string, user int64, obj ObjectRef) bool {
	t.Helper()
	ok, err := s.Has(context.Background(), name, user, obj)
	if err != nil {
		t.Fatalf("Has(%q): %v", name, err)
	}
	return ok
}

func hasFour(t *testing.T, s Store, name string, user int64, obj ObjectRef, exact bool) bool {
	t.Helper()
	ok, err := HasFourLevel(context.Background(), s, name, user, obj, exact)
	if err != nil {
		t.Fatalf("HasFourLevel(%q): %v", name, err)
	}
	return ok
}

func TestAssignPromotes(t *testing.T) {
	s := NewMemStore()
	obj := ObjectRef{Kind: "student", ID: 1}
	const user = int64(7)

	mustAssign(t, s, "view_student_base", user, obj, false)
	if !hasExactGrant(t, s, "view_student_base", user, obj) {
		t.Fatal("base grant missing after assign")
	}

	// Each promotion replaces the level beneath it.
	mustAssign(t, s, "view_student_normal", user, obj, false)
	if hasExactGrant(t, s, "view_student_base", user, obj) {
		t.Error("base grant should be superseded by normal")
	}
	if !hasExactGrant(t, s, "view_student_normal", user, obj) {
		t.Error("normal grant missing")
	}

	mustAssign(t, s, "view_student_advanced", user, obj, false)
	if hasExactGrant(t, s, "view_student_normal", user, obj) {
		t.Error("normal grant should be superseded by advanced")
	}
	if !hasExactGrant(t, s, "view_student_advanced", user, obj) {
		t.Error("advanced grant missing")
	}

	mustAssign(t, s, "view_student", user, obj, false)
	if hasExactGrant(t, s, "view_student_advanced", user, obj) {
		t.Error("advanced grant should be superseded by all")
	}
	if !hasExactGrant(t, s, "view_student", user, obj) {
		t.Error("all grant missing")
	}
}

func TestAssignNeverDowngrades(t *testing.T) {
	s := NewMemStore()
	obj := ObjectRef{Kind: "student", ID: 1}
	const user = int64(7)

	// Holding "all": no lower assign may touch it.
	mustAssign(t, s, "view_student", user, obj, false)
	for _, name := range []string{"view_student_base", "view_student_normal", "view_student_advanced"} {
		mustAssign(t, s, name, user, obj, false)
		if !hasExactGrant(t, s, "view_student", user, obj) {
			t.Fatalf("assign %q downgraded an all-level grant", name)
		}
	}

	// Holding advanced: base and normal assigns leave it intact.
	s = NewMemStore()
	mustAssign(t, s, "view_student_advanced", user, obj, false)
	mustAssign(t, s, "view_student_base", user, obj, false)
	if !hasExactGrant(t, s, "view_student_advanced", user, obj) {
		t.Error("base assign downgraded advanced")
	}
	mustAssign(t, s, "view_student_normal", user, obj, false)
	if !hasExactGrant(t, s, "view_student_advanced", user, obj) {
		t.Error("normal assign downgraded advanced")
	}
	if hasExactGrant(t, s, "view_student_base", user, obj) || hasExactGrant(t, s, "view_student_normal", user, obj) {
		t.Error("lower grants must not coexist with advanced")
	}
}

func TestAssignOverride(t *testing.T) {
	s := NewMemStore()
	obj := ObjectRef{Kind: "student", ID: 1}
	const user = int64(7)

	mustAssign(t, s, "view_student", user, obj, false)

	// Override always wins, even downgrading.
	mustAssign(t, s, "view_student_advanced", user, obj, true)
	if !hasFour(t, s, "view_student_advanced", user, obj, true) {
		t.Error("override to advanced failed")
	}
	if hasFour(t, s, "view_student", user, obj, false) {
		t.Error("all-level grant should be cleared by override")
	}

	mustAssign(t, s, "view_student_base", user, obj, true)
	if !hasFour(t, s, "view_student_base", user, obj, true) {
		t.Error("override to base failed")
	}
	if hasFour(t, s, "view_student_normal", user, obj, false) {
		t.Error("no level above base should remain after override")
	}
}

func TestHasFourLevel(t *testing.T) {
	ctx := context.Background()
	obj := ObjectRef{Kind: "student", ID: 1}
	const user = int64(7)

	// A grant at each level and what it satisfies, exact and non-exact.
	tests := []struct {
		grant     string
		satisfied []string // non-exact true
		exactOnly string
	}{
		{
			grant:     "view_student",
			satisfied: []string{"view_student_base", "view_student_normal", "view_student_advanced", "view_student"},
			exactOnly: "view_student",
		},
		{
			grant:     "view_student_advanced",
			satisfied: []string{"view_student_base", "view_student_normal", "view_student_advanced"},
			exactOnly: "view_student_advanced",
		},
		{
			grant:     "view_student_normal",
			satisfied: []string{"view_student_base", "view_student_normal"},
			exactOnly: "view_student_normal",
		},
		{
			grant:     "view_student_base",
			satisfied: []string{"view_student_base"},
			exactOnly: "view_student_base",
		},
	}

	all := []string{"view_student_base", "view_student_normal", "view_student_advanced", "view_student"}

	for _, tt := range tests {
		s := NewMemStore()
		if err := s.Assign(ctx, tt.grant, user, obj); err != nil {
			t.Fatal(err)
		}

		want := make(map[string]bool)
		for _, name := range tt.satisfied {
			want[name] = true
		}
		for _, name := range all {
			if got := hasFour(t, s, name, user, obj, false); got != want[name] {
				t.Errorf("grant %q: HasFourLevel(%q) = %v, want %v", tt.grant, name, got, want[name])
			}
			if got := hasFour(t, s, name, user, obj, true); got != (name == tt.exactOnly) {
				t.Errorf("grant %q: HasFourLevel(%q, exact) = %v, want %v", tt.grant, name, got, name == tt.exactOnly)
			}
		}
	}
}

func TestMaxLevel(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	obj := ObjectRef{Kind: "course", ID: 3}
	const user = int64(5)

	if _, held, _ := MaxLevel(ctx, s, "view_course", user, obj); held {
		t.Error("MaxLevel on empty store reported a grant")
	}

	mustAssign(t, s, "view_course_normal", user, obj, false)
	lvl, held, err := MaxLevel(ctx, s, "view_course", user, obj)
	if err != nil || !held || lvl != LevelNormal {
		t.Errorf("MaxLevel = (%v, %v, %v), want (normal, true, nil)", lvl, held, err)
	}

	mustAssign(t, s, "view_course", user, obj, false)
	lvl, held, _ = MaxLevel(ctx, s, "view_course", user, obj)
	if !held || lvl != LevelAll {
		t.Errorf("MaxLevel = (%v, %v), want (all, true)", lvl, held)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	obj := ObjectRef{Kind: "takes", ID: 9}

	// Removing a grant that was never assigned must not error.
	if err := s.Remove(ctx, "view_takes", 1, obj); err != nil {
		t.Fatalf("Remove on missing grant: %v", err)
	}
	if err := RemoveAllLevels(ctx, s, "view_takes", 1, obj); err != nil {
		t.Fatalf("RemoveAllLevels on missing grants: %v", err)
	}

	// Re-assigning the same level is observably a no-op.
	mustAssign(t, s, "view_takes", 1, obj, false)
	before := s.Len()
	mustAssign(t, s, "view_takes", 1, obj, false)
	if s.Len() != before {
		t.Errorf("re-assign changed grant count: %d != %d", s.Len(), before)
	}
}
