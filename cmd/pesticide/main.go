// Command pesticide drives a Debug Adapter Protocol adapter from the
// terminal: it owns the adapter's stdio transport, the session model, and
// the local editor IPC socket a text editor attaches to for breakpoint
// control and source jumps.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pesticide-dap/pesticide/internal/config"
	"github.com/pesticide-dap/pesticide/internal/controller"
	"github.com/pesticide-dap/pesticide/internal/editoripc"
	"github.com/pesticide-dap/pesticide/internal/logging"
	"github.com/pesticide-dap/pesticide/internal/transport"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pesticide:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		session    string
		request    string
	)

	cmd := &cobra.Command{
		Use:     "pesticide",
		Short:   "Terminal-native Debug Adapter Protocol driver",
		Version: "0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			if request != "" {
				return sendOneShot(session, request)
			}
			return runSession(configPath, session)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.FileName, "configuration file path")
	cmd.Flags().StringVar(&session, "session", "", "session identifier, chooses the editor IPC socket path")
	cmd.Flags().StringVar(&request, "request", "", "send a payload to an existing session's socket and exit")

	return cmd
}

func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".local", "share")
}

func sendOneShot(session, payload string) error {
	if session == "" {
		session = "default"
	}
	return editoripc.SendOneShot(runtimeDir(), session, payload)
}

func runSession(configPath, session string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if session == "" && cfg.SessionName != "" {
		session = cfg.SessionName
	}
	if session == "" {
		session = "default"
	}

	logger, closer, err := logging.Setup(dataDir(), session)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tr, err := transport.Spawn(ctx, cfg.Adapter, cfg.AdapterArgs, logger)
	if err != nil {
		return fmt.Errorf("spawn debug adapter: %w", err)
	}

	editor, err := editoripc.Listen(runtimeDir(), session, logger)
	if err != nil {
		return fmt.Errorf("listen on editor IPC socket: %w", err)
	}
	defer editor.Close()

	if kakouneSession := os.Getenv("KAKOUNE_SESSION"); kakouneSession != "" {
		editor.SetSender(editoripc.NewKakouneSender(kakouneSession))
	}

	ctl := controller.New(cfg, tr, editor, nil, logger)

	if err := ctl.Start(); err != nil {
		return fmt.Errorf("start initialize handshake: %w", err)
	}

	return ctl.Run(ctx)
}
