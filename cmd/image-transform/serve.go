package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-transform/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (overrides the configuration)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides the configuration)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := web.New(cfg)
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}
