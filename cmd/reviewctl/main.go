package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-reviewer/internal/client"
	"alfredoptarigan/resume-reviewer/internal/reveal"
)

var (
	serverURL string
	route     string
	interval  time.Duration
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "reviewctl <resume.pdf>",
	Short: "Upload a resume and print the review feedback",
	Long: `Upload a PDF resume to a running review server and reveal the
feedback in the terminal one character at a time.

Example:
  reviewctl resume.pdf
  reviewctl resume.pdf --server http://localhost:3000 --interval 0`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReview,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "Base URL of the review server")
	rootCmd.Flags().StringVar(&route, "route", "/api/review", "Review route on the server")
	rootCmd.Flags().DurationVar(&interval, "interval", 10*time.Millisecond, "Delay between revealed characters (0 prints at once)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "Request timeout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log request details")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	file, err := client.FileFromPath(args[0])
	if err != nil {
		return err
	}

	form := client.NewForm(endpoint(serverURL, route), timeout)
	if !form.Drop(file) {
		return fmt.Errorf("%s", form.Error())
	}

	log.Debug().Str("file", file.Name).Int64("size", file.Size()).Msg("📤 Uploading resume")

	feedback, err := form.Submit(ctx)
	if err != nil {
		return fmt.Errorf("%s", form.Error())
	}

	out := cmd.OutOrStdout()
	if interval <= 0 {
		fmt.Fprintln(out, feedback)
		return nil
	}
	if err := reveal.Write(ctx, out, feedback, interval); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(out)
			return nil
		}
		return err
	}
	fmt.Fprintln(out)
	return nil
}

func endpoint(server, route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return strings.TrimSuffix(server, "/") + route
}
