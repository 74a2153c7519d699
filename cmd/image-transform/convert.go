package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-transform/internal/imaging"
	"github.com/ironsheep/image-transform/internal/options"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Transform a single image file",
	Example: `  image-transform convert -i photo.png -o small.jpg --width 200
  image-transform convert -i photo.jpg -o old.png --resize percent --percentage 50 --grayscale --sepia`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "Input image file")
	convertCmd.Flags().StringP("output", "o", "", "Output image file")
	convertCmd.Flags().String("resize", "width", "Resize option (width, percent, none)")
	convertCmd.Flags().String("width", "", "Target width in pixels for --resize width")
	convertCmd.Flags().String("percentage", "100", "Scale factor for --resize percent")
	convertCmd.Flags().Bool("grayscale", false, "Convert to grayscale")
	convertCmd.Flags().Bool("sepia", false, "Apply a sepia tone")
	convertCmd.Flags().String("format", "", "Output format (JPEG, PNG, GIF); defaults to the output extension")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	resize, _ := cmd.Flags().GetString("resize")
	width, _ := cmd.Flags().GetString("width")
	percentage, _ := cmd.Flags().GetString("percentage")
	grayscale, _ := cmd.Flags().GetBool("grayscale")
	sepia, _ := cmd.Flags().GetBool("sepia")
	format, _ := cmd.Flags().GetString("format")

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(outputPath), ".")
	}
	if _, ok := options.ParseFormat(format); !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}

	form, err := options.Decode(map[string]interface{}{
		"resize_option": resize,
		"width":         width,
		"percentage":    percentage,
		"grayscale":     grayscale,
		"sepia":         sepia,
		"format":        format,
	})
	if err != nil {
		return err
	}
	req, notices := form.Request(cfg.MaxPercentage)
	for _, n := range notices {
		log.Print(n)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	result, err := imaging.Process(in, out, req)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("conversion: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s -> %dx%d %s %s\n", outputPath,
		result.SourceWidth, result.SourceHeight, result.SourceMode,
		result.Width, result.Height, result.Mode, result.Format)
	return nil
}
