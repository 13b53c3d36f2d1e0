package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad provider", "data_source:\n  provider: bogus\n", "config validation"},
		{"bad indicator", "indicators:\n  - kind: vwap\n", "config validation"},
		{"bad yaml", "server: [", "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			t.Setenv("CONFIG_PATH", path)

			err := run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

