package core

import (
	"testing"
	"time"
)

func TestToolVisibleTo(t *testing.T) {
	tests := []struct {
		name     string
		tool     Tool
		viewerID string
		want     bool
	}{
		{"system tool, logged out", Tool{ID: "sys"}, "", true},
		{"system tool, logged in", Tool{ID: "sys"}, "u1", true},
		{"own custom tool", Tool{ID: "t", OwnerUserID: "u1"}, "u1", true},
		{"someone else's custom tool", Tool{ID: "t", OwnerUserID: "u2"}, "u1", false},
		{"custom tool, logged out", Tool{ID: "t", OwnerUserID: "u2"}, "", false},
		{"admin-promoted tool, logged out", Tool{ID: "t", OwnerUserID: "u2", IsAdminTool: true}, "", true},
		{"admin-promoted tool, other viewer", Tool{ID: "t", OwnerUserID: "u2", IsAdminTool: true}, "u1", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.tool.VisibleTo(test.viewerID); got != test.want {
				t.Errorf("VisibleTo(%q) = %v, want %v", test.viewerID, got, test.want)
			}
		})
	}
}

func TestToolEditableBy(t *testing.T) {
	owner := &User{ID: "u1"}
	other := &User{ID: "u2"}
	admin := &User{ID: "u3", Role: RoleAdmin}
	moderator := &User{ID: "u4", Role: RoleModerator}

	tool := Tool{ID: "t", OwnerUserID: "u1"}
	system := Tool{ID: "sys"}

	if !tool.EditableBy(owner) {
		t.Error("owner must be able to edit their tool")
	}
	if tool.EditableBy(other) {
		t.Error("non-owner must not edit a custom tool")
	}
	if !tool.EditableBy(admin) {
		t.Error("admin role manages all tools")
	}
	if tool.EditableBy(moderator) {
		t.Error("moderator does not manage tools")
	}
	if tool.EditableBy(nil) {
		t.Error("nil user edits nothing")
	}
	if system.EditableBy(owner) {
		t.Error("system catalog entries have no owner to edit them")
	}
	if !system.EditableBy(admin) {
		t.Error("admin role manages system entries too")
	}
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role         Role
		managesTools bool
		managesUsers bool
	}{
		{RoleNone, false, false},
		{RoleModerator, false, false},
		{RoleAdmin, true, false},
		{RoleSuperAdmin, true, true},
	}

	for _, test := range tests {
		if got := test.role.ManagesAllTools(); got != test.managesTools {
			t.Errorf("%s.ManagesAllTools() = %v, want %v", test.role, got, test.managesTools)
		}
		if got := test.role.ManagesUsers(); got != test.managesUsers {
			t.Errorf("%s.ManagesUsers() = %v, want %v", test.role, got, test.managesUsers)
		}
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	live := Session{ExpiresAt: now.Add(time.Hour)}
	dead := Session{ExpiresAt: now.Add(-time.Hour)}

	if live.Expired(now) {
		t.Error("session with future expiry reported expired")
	}
	if !dead.Expired(now) {
		t.Error("session past expiry reported live")
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("listed category %q reported invalid", c)
		}
	}
	if Category("podcasting").Valid() {
		t.Error("unknown category reported valid")
	}
	if Category("").Valid() {
		t.Error("empty category reported valid")
	}
}

func TestSeedToolsSpanAllCategories(t *testing.T) {
	tools := SeedTools()
	if len(tools) == 0 {
		t.Fatal("seed catalog is empty")
	}

	seen := make(map[Category]bool)
	for _, tool := range tools {
		if !tool.IsSystem() {
			t.Errorf("seeded tool %q has an owner", tool.ID)
		}
		if err := ValidateToolInput(ToolInput{
			Name:        tool.Name,
			URL:         tool.URL,
			Description: tool.Description,
			Category:    tool.Category,
		}); err != nil {
			t.Errorf("seeded tool %q fails validation: %v", tool.ID, err)
		}
		seen[tool.Category] = true
	}

	for _, c := range Categories {
		if !seen[c] {
			t.Errorf("no seeded tool in category %q", c)
		}
	}
}
