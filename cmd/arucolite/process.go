package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tinygo.org/x/arucolite"
)

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [frame.pgm]",
		Short: "Detect markers in a single PGM frame and print them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("arucolite: loading config: %w", err)
			}
			det, err := arucolite.New(fc.toDetectorConfig())
			if err != nil {
				return fmt.Errorf("arucolite: building detector: %w", err)
			}
			return processFile(det, args[0], os.Stdout)
		},
	}
}

func processFile(det *arucolite.Detector, path string, out *os.File) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pix, width, height, err := readPGM(f)
	if err != nil {
		return fmt.Errorf("arucolite: reading %s: %w", path, err)
	}
	_ = width
	_ = height

	if err := det.Process(pix); err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(det.Results())
}
