package input

import "testing"

func TestActionNamespace(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mermaid.foldAll", "mermaid"},
		{"markdownHL1", "markdownHL1"},
		{"table.alignColumns", "table"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NewAction(tt.name).Namespace(); got != tt.want {
			t.Errorf("Namespace(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestActionArgs(t *testing.T) {
	a := NewAction("x").
		WithStrings(":", "-").
		WithExtra("n", "3").
		WithExtra("flag", "true").
		WithExtra("tag", "mark")

	if a.Args.String(0) != ":" || a.Args.String(1) != "-" || a.Args.String(2) != "" {
		t.Errorf("positional args = %v", a.Args.Strings)
	}
	if a.Args.GetInt("n") != 3 {
		t.Errorf("GetInt = %d", a.Args.GetInt("n"))
	}
	if !a.Args.GetBool("flag") {
		t.Error("GetBool should parse string booleans")
	}
	if a.Args.GetString("tag") != "mark" {
		t.Errorf("GetString = %q", a.Args.GetString("tag"))
	}
	if a.Args.GetString("missing") != "" {
		t.Error("missing key should be empty")
	}
}

func TestWithExtraDoesNotAlias(t *testing.T) {
	base := NewAction("x").WithExtra("a", 1)
	derived := base.WithExtra("b", 2)
	if _, ok := base.Args.Get("b"); ok {
		t.Error("WithExtra mutated the original action")
	}
	if derived.Args.GetInt("a") != 1 {
		t.Error("derived action lost existing extra")
	}
}

func TestActionSourceString(t *testing.T) {
	if SourceScript.String() != "script" || ActionSource(99).String() != "unknown" {
		t.Error("unexpected source names")
	}
}
