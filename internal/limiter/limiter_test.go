package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "unset", cfg: Config{}},
		{name: "first page of keys", cfg: Config{Limit: 20}},
		{name: "second page of keys", cfg: Config{Limit: 20, Offset: 20}},
		{name: "last keys", cfg: Config{Tail: 5}},
		{name: "tail with offset", cfg: Config{Tail: 5, Offset: 3}},
		{name: "limit with tail", cfg: Config{Limit: 1, Tail: 1}, errMsg: "--limit and --tail are mutually exclusive"},
		{name: "negative limit", cfg: Config{Limit: -1}, errMsg: "--limit must be non-negative, got -1"},
		{name: "negative offset", cfg: Config{Offset: -2}, errMsg: "--offset must be non-negative, got -2"},
		{name: "negative tail", cfg: Config{Tail: -3}, errMsg: "--tail must be non-negative, got -3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestApplyBundleKeys(t *testing.T) {
	keys := []string{
		"app.menu.edit",
		"app.menu.file",
		"app.title",
		"dialog.cancel",
		"dialog.ok",
		"status.ready",
	}

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "all keys", cfg: Config{}, want: keys},
		{name: "limit", cfg: Config{Limit: 2}, want: []string{"app.menu.edit", "app.menu.file"}},
		{name: "offset", cfg: Config{Offset: 4}, want: []string{"dialog.ok", "status.ready"}},
		{name: "page", cfg: Config{Limit: 2, Offset: 2}, want: []string{"app.title", "dialog.cancel"}},
		{name: "short last page", cfg: Config{Limit: 4, Offset: 5}, want: []string{"status.ready"}},
		{name: "offset past end", cfg: Config{Offset: 9}, want: []string{}},
		{name: "tail", cfg: Config{Tail: 1}, want: []string{"status.ready"}},
		{name: "tail ignores offset", cfg: Config{Tail: 2, Offset: 1}, want: []string{"dialog.ok", "status.ready"}},
		{name: "tail longer than keys", cfg: Config{Tail: 10}, want: keys},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, keys))
		})
	}
}

func TestApplySharesBackingArray(t *testing.T) {
	keys := []string{"a", "b", "c"}
	got := Apply(Config{Offset: 1}, keys)
	require.Len(t, got, 2)
	got[0] = "changed"
	assert.Equal(t, "changed", keys[1])
}

func TestApplyRecords(t *testing.T) {
	type missingReport struct {
		key     string
		missing int
	}
	rows := []missingReport{{"app.title", 0}, {"dialog.ok", 2}, {"status.ready", 1}}

	assert.Equal(t, []missingReport{{"status.ready", 1}}, Apply(Config{Tail: 1}, rows))
	assert.Empty(t, Apply(Config{Limit: 3}, []missingReport{}))
}

func TestBounds(t *testing.T) {
	start, end := Config{Limit: 3, Offset: 1}.Bounds(10)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)

	start, end = Config{Tail: 3}.Bounds(2)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	start, end = Config{Offset: 5}.Bounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
