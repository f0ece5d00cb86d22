package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hylla/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	cmd.AddCommand(newConfigShowCommand(cctx))
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if cctx.configFlag != nil {
				path = strings.TrimSpace(*cctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s", resolved)
			if !exists {
				fmt.Fprint(out, " (missing, defaults in effect)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Data dir:    %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log dir:     %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Database:    %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "TMDB:        %s\n", configuredLabel(cfg.TMDB.APIKey))
			fmt.Fprintf(out, "OMDB:        %s\n", configuredLabel(cfg.OMDB.APIKey))
			fmt.Fprintf(out, "Ntfy topic:  %s\n", configuredLabel(cfg.Notifications.NtfyTopic))
			fmt.Fprintf(out, "Logging:     %s at %s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}

func configuredLabel(value string) string {
	if strings.TrimSpace(value) == "" {
		return "not configured"
	}
	return "configured"
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			written, err := config.WriteSample(target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", written)
			fmt.Fprintln(out, "Set tmdb_api_key (or export TMDB_API_KEY) to enable metadata lookups.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}
