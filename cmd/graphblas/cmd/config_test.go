package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphblas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(writeConfig(t, `
mode: non-blocking
workers: 3
log_level: debug
store:
  dir: /tmp/snapshots
  s3:
    bucket: b
    prefix: p/
`))
	require.NoError(t, err)
	assert.Equal(t, Config{
		Mode:     "non-blocking",
		Workers:  3,
		LogLevel: "debug",
		Store: StoreConfig{
			Dir: "/tmp/snapshots",
			S3:  S3Config{Bucket: "b", Prefix: "p/"},
		},
	}, cfg)

	// Keys absent from the file keep their defaults.
	cfg, err = LoadConfig(writeConfig(t, "workers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, "blocking", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = LoadConfig(writeConfig(t, "workers: [1\n"))
	assert.Error(t, err)
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("mode", "blocking", "")
	flags.Int("workers", 0, "")
	flags.String("log-level", "info", "")
	flags.String("store-dir", "", "")
	flags.Bool("store-in-memory", false, "")
	flags.String("s3-bucket", "", "")
	flags.String("s3-prefix", "", "")
	require.NoError(t, flags.Parse([]string{"--workers=7", "--store-in-memory"}))

	cfg := Config{Mode: "non-blocking", Workers: 2, LogLevel: "warn"}
	require.NoError(t, cfg.Override(flags))
	assert.Equal(t, Config{
		Mode:     "non-blocking",
		Workers:  7,
		LogLevel: "warn",
		Store:    StoreConfig{InMemory: true},
	}, cfg)
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{"Default", "", zerolog.InfoLevel, false},
		{"Trace", "trace", zerolog.TraceLevel, false},
		{"Invalid", "loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{LogLevel: tt.level}
			got, err := cfg.Level()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigNewContext(t *testing.T) {
	cfg := Config{Mode: "non-blocking", Workers: 5}
	ctx, err := cfg.NewContext()
	require.NoError(t, err)
	assert.Equal(t, sparse.NonBlocking, ctx.Mode())
	assert.Equal(t, 5, ctx.Workers())

	cfg.Mode = "eventually"
	_, err = cfg.NewContext()
	assert.Error(t, err)
}

func TestConfigOpenStore(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	_, err := cfg.OpenStore(ctx)
	assert.Error(t, err)

	cfg.Store.InMemory = true
	store, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "x", []byte("y")))
	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names)
	assert.NoError(t, store.Close())
}
