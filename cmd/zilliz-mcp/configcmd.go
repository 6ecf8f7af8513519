package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flemzord/zilliz-mcp/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(configCheckCmd(), configInitCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Println("Configuration OK")
			fmt.Printf("  control plane:  %s\n", cfg.Zilliz.CloudURI)
			if cfg.Zilliz.ClusterEndpoint != "" {
				fmt.Printf("  data plane:     %s (template)\n", cfg.Zilliz.ClusterEndpoint)
			} else {
				fmt.Println("  data plane:     resolved per cluster")
			}
			fmt.Printf("  free region:    %s\n", cfg.Zilliz.FreeClusterRegion)
			fmt.Printf("  listen address: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")

			token := ""
			cloudURI := config.DefaultCloudURI
			region := config.DefaultFreeClusterRegion

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Zilliz Cloud API key").
						EchoMode(huh.EchoModePassword).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return fmt.Errorf("API key is required")
							}
							return nil
						}).
						Value(&token),
					huh.NewInput().
						Title("Control-plane URL").
						Validate(func(s string) error {
							if u, err := url.Parse(s); err != nil || !u.IsAbs() {
								return fmt.Errorf("must be an absolute URL")
							}
							return nil
						}).
						Value(&cloudURI),
					huh.NewInput().
						Title("Free-cluster region").
						Value(&region),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			cfg := config.Config{}
			cfg.Zilliz.Token = token
			cfg.Zilliz.CloudURI = cloudURI
			cfg.Zilliz.FreeClusterRegion = region

			encoded, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
				return err
			}
			// The file holds the API key; keep it owner-readable only.
			if err := os.WriteFile(out, encoded, 0o600); err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "zilliz-mcp.yaml", "Where to write the configuration file")
	return cmd
}
