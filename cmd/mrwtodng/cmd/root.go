// Package cmd implements the mrwtodng CLI: a cobra root command with a
// single convert subcommand.
package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bruceg/dngutils/pkg/dng"
	"github.com/bruceg/dngutils/pkg/logging"
	"github.com/bruceg/dngutils/pkg/mrw"
)

// NewRoot builds the mrwtodng command tree.
func NewRoot(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "mrwtodng",
		Short: "convert a Minolta MRW raw photo into a DNG file",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			pf := cmd.Flags()
			logLevel, _ := pf.GetString("log-level")
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}

			var w io.Writer = os.Stderr
			if logFile, _ := pf.GetString("log-file"); logFile != "" {
				maxSizeMB, _ := pf.GetInt("log-max-size-mb")
				maxAgeDays, _ := pf.GetInt("log-max-age-days")
				maxBackups, _ := pf.GetInt("log-max-backups")
				w = logging.RotatingFile(logFile, maxSizeMB, maxAgeDays, maxBackups)
			}
			jsonFormat, _ := pf.GetBool("log-json")
			slog.SetDefault(logging.Logger(w, jsonFormat, level))
		},
	}
	root.AddCommand(newConvertCmd(ctx))
	pf := root.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "emit logs as JSON instead of text")
	pf.String("log-file", "", "write logs to a rotating file instead of stderr")
	pf.Int("log-max-size-mb", 100, "maximum size in megabytes of a log file before it gets rotated")
	pf.Int("log-max-age-days", 28, "maximum age in days to retain old rotated log files")
	pf.Int("log-max-backups", 3, "maximum number of old rotated log files to retain")
	return root
}

// IsIOError reports whether err (or anything it wraps) represents an
// I/O failure rather than a structural or configuration one, so main
// can map it to exit code 2 instead of 1.
func IsIOError(err error) bool {
	return errors.Is(err, dng.ErrIO) || errors.Is(err, mrw.ErrIO)
}
