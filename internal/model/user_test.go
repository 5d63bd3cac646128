package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleTechnician, true},
		{RoleAdmin, RoleViewer, true},
		{RoleTechnician, RoleAdmin, false},
		{RoleTechnician, RoleTechnician, true},
		{RoleTechnician, RoleViewer, true},
		{RoleViewer, RoleAdmin, false},
		{RoleViewer, RoleTechnician, false},
		{RoleViewer, RoleViewer, true},
		// Unknown roles fail-closed.
		{"unknown", RoleViewer, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
		{"", RoleViewer, false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestItemDefaults(t *testing.T) {
	n := NewItem{Name: "Tuerca M8"}.WithDefaults()
	if n.Unit != DefaultUnit {
		t.Errorf("expected unit %q, got %q", DefaultUnit, n.Unit)
	}
	if n.ReorderPoint == nil || *n.ReorderPoint != DefaultReorderPoint {
		t.Errorf("expected reorder point %d, got %v", DefaultReorderPoint, n.ReorderPoint)
	}
	if n.MaxPoint == nil || *n.MaxPoint != 0 {
		t.Errorf("expected max point 0, got %v", n.MaxPoint)
	}

	kept := NewItem{Unit: "M", ReorderPoint: IntPtr(0)}.WithDefaults()
	if kept.Unit != "M" || *kept.ReorderPoint != 0 {
		t.Errorf("explicit values must survive defaults, got %+v", kept)
	}

	item := Item{Type: ItemTypeRestricted}
	if !item.IsRestricted() {
		t.Error("expected ERSA item to be restricted")
	}
}
