package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"tinygo.org/x/arucolite"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [script]",
		Short: "Run a script of newline-separated frame commands against one detector",
		Long: "Each non-empty, non-comment line is shlex-tokenized into a frame\n" +
			"path and an output path: \"<frame.pgm> <results.json>\".\n" +
			"Reusing one Detector across every line exercises the zero-\n" +
			"per-frame-allocation contract over a whole run, not just one frame.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("arucolite: loading config: %w", err)
			}
			det, err := arucolite.New(fc.toDetectorConfig())
			if err != nil {
				return fmt.Errorf("arucolite: building detector: %w", err)
			}
			return runBatch(det, args[0])
		},
	}
}

func runBatch(det *arucolite.Detector, scriptPath string) error {
	f, err := os.Open(scriptPath)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := shlex.Split(line)
		if err != nil {
			return fmt.Errorf("arucolite: %s:%d: %w", scriptPath, lineNo, err)
		}
		if len(fields) != 2 {
			return fmt.Errorf("arucolite: %s:%d: want \"<frame> <output>\", got %d fields", scriptPath, lineNo, len(fields))
		}

		out, err := os.Create(fields[1])
		if err != nil {
			return err
		}
		err = processFile(det, fields[0], out)
		out.Close()
		if err != nil {
			return fmt.Errorf("arucolite: %s:%d: %w", scriptPath, lineNo, err)
		}
	}
	return scanner.Err()
}
