// Package main implements the faultline CLI.
// faultline pinpoints the source line responsible for a compile failure in
// block-structured rule files, using binary search over completed prefixes
// instead of compiler-reported locations.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"faultline/internal/config"
	"faultline/internal/logging"
	"faultline/internal/oracle"
	"faultline/internal/rulelang"
)

var (
	// Global flags
	verbose       bool
	configPath    string
	oracleKind    string
	completerName string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "faultline",
	Short: "faultline - fault localization for rule files",
	Long: `faultline finds the single line most responsible for a compile failure.

Given a source file that a validity oracle rejects, it binary-searches over
syntactically-completed prefixes of the file and reports the earliest line
whose inclusion flips the verdict from valid to invalid, together with the
oracle's diagnostic for the minimal failing prefix. The oracle never has to
expose a line number itself.

Oracles:
  structural  built-in verifier for rule/query/function/declare blocks (default)
  mangle      Google Mangle (Datalog) compile check`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if oracleKind != "" {
			cfg.Oracle.Kind = oracleKind
		}
		if completerName != "" {
			cfg.Locator.Completer = completerName
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(logging.Options{
			Level: cfg.Logging.Level,
			JSON:  cfg.Logging.JSON,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".faultline.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&oracleKind, "oracle", "", "validity oracle: structural or mangle")
	rootCmd.PersistentFlags().StringVar(&completerName, "completer", "", "prefix completion: structured or naive")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(locateCmd)
}

// buildOracle maps a config kind to a concrete oracle.
func buildOracle(kind string) (oracle.Oracle, error) {
	switch kind {
	case config.OracleStructural:
		return oracle.Structural{}, nil
	case config.OracleMangle:
		return oracle.Mangle{}, nil
	}
	return nil, fmt.Errorf("unknown oracle kind %q", kind)
}

// buildCompleter maps a config strategy to a concrete completer.
func buildCompleter(name string) (rulelang.Completer, error) {
	switch name {
	case config.CompleterStructured:
		return rulelang.StructuredCompleter{}, nil
	case config.CompleterNaive:
		return rulelang.NaiveCompleter{}, nil
	}
	return nil, fmt.Errorf("unknown completer strategy %q", name)
}

// expandArgs resolves glob patterns that the shell did not expand.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Glob returns nil for a non-matching literal path; let the
			// read fail later with a proper error if the file is missing.
			files = append(files, pattern)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
