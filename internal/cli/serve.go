package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	v1 "github.com/valter-silva-au/todo/internal/delivery/http/v1"
)

var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list over a JSON HTTP API",
	Long: `Serve the task list under /api/v1:

  GET    /api/v1/tasks?filter=active&sort=date
  POST   /api/v1/tasks              {"text": "...", "dueDate": "YYYY-MM-DD"}
  POST   /api/v1/tasks/:id/toggle
  DELETE /api/v1/tasks/:id
  POST   /api/v1/tasks/sort

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}

		addr := serveAddrFlag
		if addr == "" {
			addr = HTTPAddr
		}

		if Logger.GetLevel() > zerolog.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		router := v1.NewRouter(Logger, v1.New(Logger, Store))

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Serving tasks on http://%s/api/v1/tasks\n", ln.Addr())

		server := &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return serveHTTP(cmd.Context(), server, ln, HTTPShutdownTimeout)
	},
}

// serveHTTP serves on ln until ctx is done, then shuts the server down,
// waiting at most shutdownTimeout for in-flight requests.
func serveHTTP(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	Logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	Logger.Info().Msg("shut down http server")
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (default from http.addr)")
	rootCmd.AddCommand(serveCmd)
}
