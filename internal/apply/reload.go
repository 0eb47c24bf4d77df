package apply

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/themey/internal/render"
)

// Reloader runs a target's reload action.
type Reloader interface {
	Reload(ctx context.Context, action *render.ReloadAction) error
}

// SystemReloader runs reload actions over the session bus and as processes.
type SystemReloader struct {
	logger  *slog.Logger
	timeout time.Duration

	// connect opens the session bus; replaced in tests.
	connect func() (*dbus.Conn, error)
}

// NewSystemReloader creates a reloader bounded by timeout per action.
func NewSystemReloader(logger *slog.Logger, timeout time.Duration) *SystemReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemReloader{
		logger:  logger,
		timeout: timeout,
		connect: func() (*dbus.Conn, error) {
			return dbus.ConnectSessionBus()
		},
	}
}

// Reload tries the D-Bus call first (if any), then the command.
func (r *SystemReloader) Reload(ctx context.Context, action *render.ReloadAction) error {
	if action == nil {
		return nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var dbusErr error
	if action.DBus != nil {
		dbusErr = r.callDBus(ctx, action.DBus)
		if dbusErr == nil {
			return nil
		}
		r.logger.Debug("dbus reload failed, falling back to command",
			"label", action.Label, "method", action.DBus.Method, "error", dbusErr)
	}

	if len(action.Command) == 0 {
		if dbusErr != nil {
			return dbusErr
		}
		return nil
	}

	return runCommand(ctx, action.Command)
}

func (r *SystemReloader) callDBus(ctx context.Context, call *render.DBusCall) error {
	conn, err := r.connect()
	if err != nil {
		return fmt.Errorf("connect to session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(call.Dest, dbus.ObjectPath(call.Path))
	if err := obj.CallWithContext(ctx, call.Method, 0, call.Args...).Err; err != nil {
		return fmt.Errorf("call %s: %w", call.Method, err)
	}
	return nil
}

func runCommand(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return fmt.Errorf("%s exited with status %d", argv[0], exitErr.ExitCode())
			}
			return fmt.Errorf("%s exited with status %d: %s", argv[0], exitErr.ExitCode(), msg)
		}
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

// NopReloader does nothing. Used when reloading is disabled.
type NopReloader struct{}

// Reload implements Reloader.
func (NopReloader) Reload(context.Context, *render.ReloadAction) error { return nil }
