package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect dsp-calculator configuration settings.

Configuration is loaded from multiple sources with priority:
1. Command line flags
2. Environment variables (DSP_* prefix, e.g. DSP_CATALOG_FILE)
3. Config file (config.yaml in ., ./configs or ~/.dsp-calculator)
4. Default values

Example:
  dsp-calculator config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// configView is the printable form of the configuration, without secrets
type configView struct {
	Catalog struct {
		File            string `yaml:"file"`
		DefaultFacility string `yaml:"default_facility"`
		Strict          bool   `yaml:"strict"`
	} `yaml:"catalog"`
	Database struct {
		Type string `yaml:"type"`
		Path string `yaml:"path,omitempty"`
		Host string `yaml:"host,omitempty"`
		Port int    `yaml:"port,omitempty"`
		Name string `yaml:"name,omitempty"`
		URL  string `yaml:"url,omitempty"`
	} `yaml:"database"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Textfile string `yaml:"textfile,omitempty"`
	} `yaml:"metrics"`
}

func newConfigView(cfg *config.Config) configView {
	var v configView
	v.Catalog.File = cfg.Catalog.File
	v.Catalog.DefaultFacility = cfg.Catalog.DefaultFacility
	v.Catalog.Strict = cfg.Catalog.Strict

	v.Database.Type = cfg.Database.Type
	if cfg.Database.Type == "sqlite" {
		v.Database.Path = cfg.Database.Path
	} else if cfg.Database.URL != "" {
		v.Database.URL = "(set)"
	} else {
		v.Database.Host = cfg.Database.Host
		v.Database.Port = cfg.Database.Port
		v.Database.Name = cfg.Database.Name
	}

	v.Logging.Level = cfg.Logging.Level
	v.Logging.Format = cfg.Logging.Format
	v.Logging.Output = cfg.Logging.Output

	v.Metrics.Enabled = cfg.Metrics.Enabled
	v.Metrics.Textfile = cfg.Metrics.Textfile
	return v
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg)

			out, err := yaml.Marshal(newConfigView(cfg))
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
