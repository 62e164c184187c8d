package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"callcast/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !stderrors.Is(err, errNoticeRaised) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// rootFlags override the environment configuration when set
type rootFlags struct {
	baseURL    string
	model      string
	timeout    time.Duration
	latestOnly bool
	xlsxPath   string
	summary    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:           "callcast",
		Short:         "Upload call datasets and request weekly call forecasts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", config.DefaultBaseURL, "Forecasting service base URL (CALLCAST_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.model, "model", "", "Forecasting model: "+strings.Join(config.KnownModels, "|")+" (CALLCAST_MODEL)")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "Per-request timeout, 0 for none (CALLCAST_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVar(&flags.latestOnly, "latest-only", false, "Ignore replies superseded by a newer request (CALLCAST_LATEST_ONLY)")
	rootCmd.PersistentFlags().StringVar(&flags.xlsxPath, "xlsx", "", "Append predictions to this .xlsx workbook")
	rootCmd.PersistentFlags().BoolVar(&flags.summary, "summary", false, "Print summary statistics after each prediction")

	rootCmd.AddCommand(
		newUploadCmd(&flags),
		newPredictCmd(&flags),
		newShellCmd(&flags),
	)
	return rootCmd
}

// openSession loads .env and the environment, applies any flags the user set
// and wires a session to the command's output streams.
func openSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("base-url") {
		cfg.Service.BaseURL = flags.baseURL
	}
	if pf.Changed("model") {
		cfg.Service.Model = flags.model
	}
	if pf.Changed("timeout") {
		cfg.Service.Timeout = flags.timeout
	}
	if pf.Changed("latest-only") {
		cfg.Dispatch.LatestOnly = flags.latestOnly
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newSession(cfg, sessionOptions{xlsxPath: flags.xlsxPath, summary: flags.summary},
		cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func newUploadCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [file...]",
		Short: "Upload a call dataset and show how many weeks it covers",
		Long: `Upload a call dataset to the forecasting service.

Only the first file is sent. Without a file the command reports the
missing selection and exits with status 1.

Example: callcast upload calls.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			if err := s.uploadFiles(cmd.Context(), args...); err != nil {
				s.finish()
				return err
			}
			return s.finish()
		},
	}
	return cmd
}

func newPredictCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [week]",
		Short: "Request the call forecast for a week",
		Long: `Request predicted call volumes for a week of the uploaded dataset.

The week is sent exactly as given. Range checks are left to the service.

Example: callcast predict 12 --model HoltWinters --summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			week := ""
			if len(args) == 1 {
				week = args[0]
			}
			if err := s.predictWeek(cmd.Context(), week); err != nil {
				s.finish()
				return err
			}
			return s.finish()
		},
	}
	return cmd
}

func newShellCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Read upload and predict commands from standard input",
		Long: `Read commands line by line:

  upload <path>   send a dataset
  predict <week>  request a forecast
  wait            block until every reply so far has been shown
  quit            wait and exit

Commands are dispatched without waiting for earlier replies, so replies
may be shown out of order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			if err := runShell(cmd.Context(), s, cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
				s.finish()
				return err
			}
			return s.finish()
		},
	}
	return cmd
}

func runShell(ctx context.Context, s *session, in io.Reader, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		name, rest, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")

		var err error
		switch name {
		case "":
		case "upload":
			var paths []string
			if p := strings.TrimSpace(rest); p != "" {
				paths = append(paths, p)
			}
			err = s.uploadFiles(ctx, paths...)
		case "predict":
			err = s.predictWeek(ctx, rest)
		case "wait":
			s.loop.Wait()
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(errOut, "unknown command %q (upload, predict, wait, quit)\n", name)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}
