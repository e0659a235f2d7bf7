package token

import "testing"

func TestIsKeyToken(t *testing.T) {
	for _, s := range []string{"a", "key", "snake_case", "k9", "_hidden"} {
		if !IsKeyToken(s) {
			t.Errorf("IsKeyToken(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Key", "9key", "with-dash", "with space", "k.v", "%alias"} {
		if IsKeyToken(s) {
			t.Errorf("IsKeyToken(%q) = true", s)
		}
	}
}

func TestIsTypeName(t *testing.T) {
	for _, s := range []string{"User", "T", "HTTPServer", "Node2"} {
		if !IsTypeName(s) {
			t.Errorf("IsTypeName(%q) = false", s)
		}
	}
	for _, s := range []string{"", "user", "_User", "User_Name", "2User", "User-Name"} {
		if IsTypeName(s) {
			t.Errorf("IsTypeName(%q) = true", s)
		}
	}
}

func TestIsIDToken(t *testing.T) {
	for _, s := range []string{"alice", "a-1", "snake_id", "x", "_x", "id-with-dash"} {
		if !IsIDToken(s) {
			t.Errorf("IsIDToken(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Alice", "-lead", "9lead", "sp ace", "a.b"} {
		if IsIDToken(s) {
			t.Errorf("IsIDToken(%q) = true", s)
		}
	}
}

func TestParseReference(t *testing.T) {
	for _, tc := range []struct {
		in       string
		typeName string
		id       string
	}{
		{"@User:alice", "User", "alice"},
		{"@alice", "", "alice"},
		{"@Team:team-9", "Team", "team-9"},
		{"@_x", "", "_x"},
	} {
		typeName, id, err := ParseReference(tc.in)
		if err != nil {
			t.Errorf("ParseReference(%q): %v", tc.in, err)
			continue
		}
		if typeName != tc.typeName || id != tc.id {
			t.Errorf("ParseReference(%q) = (%q, %q), want (%q, %q)",
				tc.in, typeName, id, tc.typeName, tc.id)
		}
	}
	for _, s := range []string{"", "@", "User:alice", "@user:alice", "@User:", "@User:Alice", "@:alice", "@9x"} {
		if _, _, err := ParseReference(s); err == nil {
			t.Errorf("ParseReference(%q): no error", s)
		}
	}
}
