package main

import (
	"fmt"
	"os"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// svcProgram satisfies service.Interface by re-executing `start`. The
// actual server lifecycle lives in startCmd; the service manager only
// supervises the process.
type svcProgram struct{}

func (p *svcProgram) Start(service.Service) error { return nil }
func (p *svcProgram) Stop(service.Service) error  { return nil }

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage zilliz-mcp as a system service",
	}

	var cfgPath, transport string
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().StringVarP(&transport, "transport", "t", "streamable-http", "Transport for the managed service")

	newService := func() (service.Service, error) {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		args := []string{"start", "--transport", transport}
		if cfgPath != "" {
			args = append(args, "--config", cfgPath)
		}
		return service.New(&svcProgram{}, &service.Config{
			Name:        "zilliz-mcp",
			DisplayName: "Zilliz MCP Server",
			Description: "MCP server bridging Zilliz Cloud and Milvus clusters",
			Executable:  exe,
			Arguments:   args,
		})
	}

	for _, action := range []string{"install", "uninstall", "start", "stop", "restart"} {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: fmt.Sprintf("%s the system service", action),
			RunE: func(*cobra.Command, []string) error {
				svc, err := newService()
				if err != nil {
					return err
				}
				return service.Control(svc, action)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report the system service status",
		RunE: func(*cobra.Command, []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			status, err := svc.Status()
			if err != nil {
				return err
			}
			switch status {
			case service.StatusRunning:
				fmt.Println("running")
			case service.StatusStopped:
				fmt.Println("stopped")
			default:
				fmt.Println("unknown")
			}
			return nil
		},
	})

	return cmd
}
