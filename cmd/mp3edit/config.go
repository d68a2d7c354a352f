package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/mp3edit/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the config file and print its fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadResolved(a.configPath)
			if err != nil {
				return err
			}
			return printConfigCheck(a, cfg)
		},
	})
	return cmd
}

type configReport struct {
	Path        string   `json:"path"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	LogLevel    string   `json:"log_level"`
	LogFormat   string   `json:"log_format"`
	Ignored     []string `json:"ignored_dispatcher_keys,omitempty"`
}

func printConfigCheck(a *app, cfg *config.Config) error {
	report := configReport{
		Path:        cfg.SourcePath,
		Fingerprint: cfg.Fingerprint,
		LogLevel:    cfg.Log.Level,
		LogFormat:   cfg.Log.Format,
	}
	if report.Path == "" {
		report.Path = "(defaults)"
	}
	for k := range cfg.Dispatcher {
		report.Ignored = append(report.Ignored, k)
	}
	sort.Strings(report.Ignored)

	if a.jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("render config report: %w", err)
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}

	fmt.Fprintf(a.stdout, "config: %s\n", report.Path)
	if report.Fingerprint != "" {
		fmt.Fprintf(a.stdout, "blake3: %s\n", report.Fingerprint)
	}
	fmt.Fprintf(a.stdout, "log: level=%s format=%s\n", report.LogLevel, report.LogFormat)
	for _, k := range report.Ignored {
		fmt.Fprintf(a.stdout, "ignored dispatcher option: %s\n", k)
	}
	fmt.Fprintln(a.stdout, "OK")
	return nil
}
