package cmd

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"k3l.io/go-graphblas/pkg/snapshot"
	"k3l.io/go-graphblas/pkg/sparse"
)

// Config is the CLI configuration, read from the --config YAML file.
//
//	mode: non-blocking
//	workers: 4
//	log_level: debug
//	store:
//	  dir: /var/lib/graphblas
//	  s3:
//	    bucket: my-bucket
//	    prefix: snapshots
type Config struct {
	Mode     string      `yaml:"mode"`
	Workers  int         `yaml:"workers"`
	LogLevel string      `yaml:"log_level"`
	Store    StoreConfig `yaml:"store"`
}

// StoreConfig selects the snapshot store.
// S3 takes precedence over badger if a bucket is given.
type StoreConfig struct {
	Dir      string   `yaml:"dir"`
	InMemory bool     `yaml:"in_memory"`
	S3       S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{Mode: sparse.Blocking.String(), LogLevel: "info"}
}

// LoadConfig reads the YAML config at path over the defaults.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "cannot read config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "cannot parse config file %q", path)
	}
	return cfg, nil
}

// Override replaces config values with those of explicitly set flags.
func (c *Config) Override(flags *pflag.FlagSet) error {
	var err error
	set := func(name string, f func() error) {
		if err == nil && flags.Changed(name) {
			err = f()
		}
	}
	set("mode", func() (err error) { c.Mode, err = flags.GetString("mode"); return })
	set("workers", func() (err error) { c.Workers, err = flags.GetInt("workers"); return })
	set("log-level", func() (err error) { c.LogLevel, err = flags.GetString("log-level"); return })
	set("store-dir", func() (err error) { c.Store.Dir, err = flags.GetString("store-dir"); return })
	set("store-in-memory", func() (err error) { c.Store.InMemory, err = flags.GetBool("store-in-memory"); return })
	set("s3-bucket", func() (err error) { c.Store.S3.Bucket, err = flags.GetString("s3-bucket"); return })
	set("s3-prefix", func() (err error) { c.Store.S3.Prefix, err = flags.GetString("s3-prefix"); return })
	return err
}

// Level returns the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(c.LogLevel)
}

// NewContext creates the engine context the config describes.
func (c *Config) NewContext() (*sparse.Context, error) {
	mode, err := sparse.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	return sparse.Init(mode, sparse.WithWorkers(c.Workers))
}

// OpenStore opens the configured snapshot store.
func (c *Config) OpenStore(ctx context.Context) (snapshot.Store, error) {
	switch {
	case c.Store.S3.Bucket != "":
		return snapshot.OpenS3Store(ctx, c.Store.S3.Bucket, c.Store.S3.Prefix)
	case c.Store.Dir != "" || c.Store.InMemory:
		return snapshot.OpenBadgerStore(snapshot.BadgerOptions{
			Dir: c.Store.Dir, InMemory: c.Store.InMemory,
		})
	}
	return nil, errors.New("no snapshot store configured (set store.dir or store.s3.bucket)")
}
