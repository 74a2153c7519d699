package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-transform/internal/config"
	"github.com/ironsheep/image-transform/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "image-transform",
	Short: "Resize, filter and re-encode images over HTTP, MCP or the command line",
	Long: `image-transform resizes images by width or percentage, applies grayscale
and sepia filters, and re-encodes them as JPEG, PNG or GIF.

Environment variables:
  IMAGE_TRANSFORM_LOG_LEVEL=debug    Enable debug logging
  DEBUG=image-transform:*            Trace request handling`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "TOML configuration file")
}

// setup configures logging and loads the configuration shared by every
// subcommand.
func setup(cmd *cobra.Command, args []string) error {
	// stdout is reserved for MCP traffic and converted images
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("IMAGE_TRANSFORM_LOG_LEVEL") == "debug" {
		log.Printf("image-transform %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = c
	server.Version = Version
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
