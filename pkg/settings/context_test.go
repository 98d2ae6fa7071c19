package settings

import (
	"context"
	"testing"
)

func TestIntoContext_FromContext_roundtrip(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{
			name: "roundtrip_with_values",
			settings: &Run{
				NoColor: true,
				Tree:    TreeSettings{Separator: "/", Incomplete: true},
			},
		},
		{
			name:     "roundtrip_empty_struct",
			settings: &Run{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := IntoContext(context.Background(), tt.settings)

			retrieved, ok := FromContext(ctx)
			if !ok {
				t.Fatal("FromContext() failed to retrieve settings")
			}
			if retrieved != tt.settings {
				t.Error("FromContext() returned different settings pointer than stored")
			}
			if retrieved.Tree != tt.settings.Tree {
				t.Errorf("Tree = %+v; want %+v", retrieved.Tree, tt.settings.Tree)
			}
		})
	}
}

func TestFromContextMissingOrWrongType(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "context_without_settings", ctx: context.Background()},
		{name: "context_with_wrong_type", ctx: context.WithValue(context.Background(), settingsContextKey, "wrong type")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx)
			if ok || got != nil {
				t.Errorf("FromContext() = %v, %v; want nil, false", got, ok)
			}
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	def := FromContextOrDefault(context.Background())
	if def.Tree.Separator != DefaultSeparator {
		t.Errorf("default separator = %q; want %q", def.Tree.Separator, DefaultSeparator)
	}

	s := &Run{Output: "json"}
	if got := FromContextOrDefault(IntoContext(context.Background(), s)); got != s {
		t.Error("FromContextOrDefault() should return the stored settings")
	}
}
