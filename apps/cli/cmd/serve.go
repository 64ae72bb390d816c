package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitsheet/packages/taskapi"
)

var (
	serveHostFlag  string
	servePortFlag  int
	serveDelayFlag time.Duration
	serveStartFlag int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bundled task API",
	Long: `Start an in-memory task API to run test packs against locally.

Routes:
  GET    /             hello message
  POST   /tasks/       create a task (201)
  GET    /tasks/       list tasks
  GET    /tasks/{id}   get a task
  PUT    /tasks/{id}   update a task
  DELETE /tasks/{id}   delete a task

Examples:
  hitsheet serve
  hitsheet serve --port 9000 --delay 50ms`,
	Args: usageArgs(cobra.NoArgs),
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveHostFlag, "host", "127.0.0.1", "Host to listen on")
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", taskapi.DefaultPort, "Port to listen on")
	serveCmd.Flags().DurationVarP(&serveDelayFlag, "delay", "d", 0, "Delay to add to all responses (e.g., 100ms, 1s)")
	serveCmd.Flags().IntVar(&serveStartFlag, "first-id", 1, "First task id handed out")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	server := taskapi.NewServer(
		taskapi.WithHost(serveHostFlag),
		taskapi.WithPort(servePortFlag),
		taskapi.WithDelay(serveDelayFlag),
		taskapi.WithSequence(taskapi.NewCounter(serveStartFlag)),
		taskapi.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Task API listening on http://%s (press Ctrl+C to stop)\n", server.Addr())
	if err := server.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down task API...")
	return nil
}
