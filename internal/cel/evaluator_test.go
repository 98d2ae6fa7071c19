package cel

import (
	"strings"
	"testing"
)

func record() map[string]any {
	return map[string]any{
		"key":       "app.menu.file",
		"values":    map[string]any{"und": "File", "fr": " "},
		"missing":   []any{"fr"},
		"commented": false,
		"complete":  false,
	}
}

func TestCompileAndMatch(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"key prefix", `_.key.startsWith("app.")`, true},
		{"complete flag", `_.complete`, false},
		{"missing locale", `"fr" in _.missing`, true},
		{"missing count", `size(_.missing) > 1`, false},
		{"value lookup", `_.values["und"] == "File"`, true},
		{"blank helper", `_.values["fr"].isBlank()`, true},
		{"strings ext", `_.key.split(".").size() == 3`, true},
		{"negation", `!_.commented && _.key.contains("menu")`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := eval.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.expr, err)
			}
			if pred.String() != tt.expr {
				t.Errorf("String() = %q, want %q", pred.String(), tt.expr)
			}
			got, err := pred.Match(record())
			if err != nil {
				t.Fatalf("Match failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileRejectsNonBool(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	if _, err := eval.Compile(`1 + 2`); err == nil || !strings.Contains(err.Error(), "want bool") {
		t.Fatalf("expected non-bool error, got %v", err)
	}
	if _, err := eval.Compile(`_.key ==`); err == nil || !strings.Contains(err.Error(), "compilation error") {
		t.Fatalf("expected compilation error, got %v", err)
	}
}

func TestMatchRejectsDynamicNonBool(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	pred, err := eval.Compile(`_.key`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := pred.Match(record()); err == nil || !strings.Contains(err.Error(), "want bool") {
		t.Fatalf("expected bool error, got %v", err)
	}

	pred, err = eval.Compile(`_.nope == "x"`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := pred.Match(record()); err == nil || !strings.Contains(err.Error(), "eval error") {
		t.Fatalf("expected eval error, got %v", err)
	}
}

func TestEvaluateConvertsResults(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	got, err := eval.Evaluate(`_.key.split(".")`, record())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	parts, ok := got.([]any)
	if !ok || len(parts) != 3 || parts[2] != "file" {
		t.Fatalf("unexpected result %#v", got)
	}

	got, err = eval.Evaluate(`{"n": size(_.missing)}`, record())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["n"] != int64(1) {
		t.Fatalf("unexpected result %#v", got)
	}
}
