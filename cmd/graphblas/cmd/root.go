package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"k3l.io/go-graphblas/pkg/sparse"
)

var (
	rootCmd = &cobra.Command{
		Use:   "graphblas",
		Short: "Sparse linear algebra over CSV files",
		Long: `graphblas runs sparse matrix and vector operations
over CSV files (header "i,j,v" for matrices, "i,v" for vectors),
and keeps containers as snapshots in a badger or S3 store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = LoadConfig(cfgFile); err != nil {
				return err
			}
			if err = cfg.Override(cmd.Flags()); err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			var logWriter io.Writer
			switch logFile {
			case "-":
				logWriter = os.Stdout
			case "":
				logWriter = zerolog.NewConsoleWriter(
					func(w *zerolog.ConsoleWriter) {
						w.Out = os.Stderr
						w.TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"
					})
			default:
				w, err := os.OpenFile(logFile,
					os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o0666)
				if err != nil {
					return fmt.Errorf("cannot open log file: %w", err)
				}
				logWriter = w
			}
			logger = zerolog.New(logWriter).Level(level).
				With().Timestamp().Logger()
			zerolog.DefaultContextLogger = &logger
			sctx, err = cfg.NewContext()
			return err
		},
	}
	cfgFile string
	logFile string
	logger  zerolog.Logger
	cfg     Config
	sctx    *sparse.Context
)

func Execute() {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000000000Z07:00"
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.StringVar(&logFile, "log-file", "",
		"log file (- means stdout; default: colorized stderr)")
	flags.String("mode", "blocking", "engine mode (blocking or non-blocking)")
	flags.Int("workers", 0, "goroutines per operation (0 means GOMAXPROCS)")
	flags.String("log-level", "info", "log level (trace, debug, info, ...)")
	flags.String("store-dir", "", "badger snapshot store directory")
	flags.Bool("store-in-memory", false, "use an in-memory badger snapshot store")
	flags.String("s3-bucket", "", "S3 snapshot store bucket")
	flags.String("s3-prefix", "", "S3 snapshot store key prefix")
}
