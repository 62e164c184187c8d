package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcast/internal"
	"callcast/internal/testkit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "callcast-dev",
		Short: "callcast development tools",
	}

	rootCmd.AddCommand(
		newStubCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newStubCmd() *cobra.Command {
	var addr string
	var weeks int
	var predictions []float64
	var rejectWeek string

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve canned /upload and /predict replies",
		Long: `Run a stand-in forecasting service for local demos.

Every upload is answered with the configured week count and every
prediction with the configured values. --reject-week makes predictions
for that week fail with an application error.

Example: callcast-dev stub --addr 127.0.0.1:5000 --weeks 104`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stub := testkit.NewStubServer()
			stub.SetUploadReply(testkit.JSONReply(map[string]interface{}{
				"message": "File uploaded successfully",
				"weeks":   weeks,
			}))
			stub.SetPredictReply(testkit.JSONReply(map[string]interface{}{"predictions": predictions}))

			logger := internal.NewDefaultLogger()
			return serveStub(cmd.Context(), logger, addr, stubHandler(stub, rejectWeek))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	cmd.Flags().IntVar(&weeks, "weeks", 52, "Week count reported for every upload")
	cmd.Flags().Float64SliceVar(&predictions, "predictions", []float64{120, 131, 118, 125, 97}, "Values returned for every prediction")
	cmd.Flags().StringVar(&rejectWeek, "reject-week", "", "Week value answered with an error reply")
	return cmd
}

// stubHandler logs every request and, when rejectWeek is set, answers
// predictions for that week with an error reply.
func stubHandler(stub *testkit.StubServer, rejectWeek string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	if rejectWeek != "" {
		r.Use(rejectWeekMiddleware(rejectWeek))
	}
	r.Mount("/", stub.Handler())
	return r
}

func rejectWeekMiddleware(week string) func(http.Handler) http.Handler {
	reply, _ := json.Marshal(map[string]string{"error": "Week " + week + " is out of range"})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/predict" {
				body, err := io.ReadAll(req.Body)
				req.Body.Close()
				if err == nil && gjson.GetBytes(body, "week").String() == week {
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write(reply)
					return
				}
				req.Body = io.NopCloser(bytes.NewReader(body))
			}
			next.ServeHTTP(w, req)
		})
	}
}

func serveStub(ctx context.Context, logger *internal.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[stub] listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("[stub] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
