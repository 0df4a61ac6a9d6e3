package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/janstarke/nt-hive2/hive"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	strict  bool
)

var rootCmd = &cobra.Command{
	Use:   "regdump",
	Short: "Inspect Windows registry hive files",
	Long: `regdump reads Windows registry hive files (REGF format) without
modifying them. It tolerates the corruption commonly found in carved or
partially overwritten hives and reports what it had to skip.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(os.Stderr)
		switch {
		case quiet:
			logrus.SetLevel(logrus.ErrorLevel)
		case verbose:
			logrus.SetLevel(logrus.DebugLevel)
		default:
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Abort a whole list on the first bad entry instead of skipping it")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openHive opens the hive at path with the tolerance selected by flags and
// logs every warning found while opening.
func openHive(path string) (*hive.Hive, error) {
	opts := hive.Options{}
	if strict {
		opts.ListTolerance = hive.ToleranceSkipList
	}

	logrus.WithField("path", path).Debug("opening hive")
	h, err := hive.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	logWarnings(h)
	return h, nil
}

func logWarnings(h *hive.Hive) {
	for _, w := range h.Warnings() {
		logrus.WithField("code", w.Code.String()).Warn(w.String())
	}
}
