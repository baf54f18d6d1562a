package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"shoplist-cli/internal/web"

	"github.com/spf13/cobra"
)

const defaultWebAddr = "127.0.0.1:3336"

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open, readOnly bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the list as a local web page",
		Long: strings.TrimSpace(`
Serve the list from a local HTTP server. The page works with plain form posts;
open pages update live when the list changes from any surface.
`),
		Example: strings.TrimSpace(`
# Serve the current list on localhost
shoplist web

# Serve a named list read-only on all interfaces
shoplist --list party web --addr :3336 --read-only
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, st, err := openRepo(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				if wc := app.config().Web; wc != nil {
					listenAddr = strings.TrimSpace(wc.Addr)
				}
			}
			if listenAddr == "" {
				listenAddr = defaultWebAddr
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:     listenAddr,
				Dir:      st.Dir,
				ListName: app.List,
				ReadOnly: readOnly,
			}, repo, app.log())
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}
			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, envelope{
				Data: map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"list":      app.List,
					"dir":       st.Dir,
					"readOnly":  readOnly,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: hints,
				text:  "serving " + url,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "shoplist web running at %s (dir=%s)\n", url, st.Dir)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			go func() {
				if err := srv.Watch(ctx); err != nil && ctx.Err() == nil {
					app.log().Warn("store watcher stopped; live updates from other processes are off", "err", err)
				}
			}()

			hs := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				// Event streams end with the command.
				BaseContext: func(net.Listener) context.Context { return ctx },
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = hs.Shutdown(shutdownCtx)
			}()

			if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default from config, else "+defaultWebAddr+")")
	cmd.Flags().BoolVar(&open, "open", false, "Open the page in your default browser")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject every change made through the page")
	return cmd
}

func openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}
