package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd validates whole files against the configured oracle, with no
// localization. Non-zero exit on any failure for CI use.
var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Validate rule files against the configured oracle",
	Long:  `Runs the validity oracle over each file and reports pass/fail per file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	o, err := buildOracle(cfg.Oracle.Kind)
	if err != nil {
		return err
	}

	files, err := expandArgs(args)
	if err != nil {
		return err
	}

	hasError := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("ERROR reading %s: %v\n", file, err)
			hasError = true
			continue
		}

		valid, err := o.IsValid(cmd.Context(), string(data))
		if err != nil {
			logger.Warn("oracle failed, counting file as invalid",
				zap.String("file", file), zap.Error(err))
			valid = false
		}
		if valid {
			fmt.Printf("OK: %s\n", file)
			continue
		}

		hasError = true
		msg, err := o.FirstError(cmd.Context(), string(data))
		if err != nil {
			msg = err.Error()
		}
		fmt.Printf("ERROR in %s: %s\n", file, msg)
	}

	if hasError {
		os.Exit(1)
	}
	return nil
}
