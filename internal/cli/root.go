// Package cli is the shoplist command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shoplist-cli/internal/format"
	"shoplist-cli/internal/items"
	"shoplist-cli/internal/logging"
	"shoplist-cli/internal/store"
	"shoplist-cli/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	List       string
	Backend    string
	PrettyJSON bool
	Format     string
	LogLevel   string
	LogFile    string

	logger  *log.Logger
	logFile io.Closer
	cfg     *store.GlobalConfig
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "shoplist",
		Short:        "A local shopping list: TUI, CLI and web",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the list screen
  shoplist

  # Add an item (shortcut for: shoplist items add oat milk)
  shoplist +oat milk

  # Scriptable commands
  shoplist items list --format text
  shoplist items bought milk

  # Serve the list in a browser
  shoplist web
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.Normalize(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		return app.setupLogging(cmd.ErrOrStderr())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.closeLog()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SHOPLIST_DIR", ""), "Path to the list directory (overrides --list)")
	cmd.PersistentFlags().StringVar(&app.List, "list", envOr("SHOPLIST_LIST", ""), "Named list under ~/.shoplist/lists (default: currentList from config, else 'default')")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("SHOPLIST_BACKEND", ""), "Storage backend (json|sqlite; default from config, else json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SHOPLIST_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("SHOPLIST_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("SHOPLIST_LOG_FILE", ""), "Append logs to this file instead of stderr")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func (app *App) setupLogging(stderr io.Writer) error {
	opts := logging.Options{Level: app.LogLevel}
	if strings.TrimSpace(app.LogFile) == "" {
		app.logger = logging.New(stderr, opts)
		return nil
	}
	f, err := logging.OpenFile(app.LogFile)
	if err != nil {
		return err
	}
	opts.Timestamps = true
	app.logger = logging.New(f, opts)
	app.logFile = f
	return nil
}

func (app *App) closeLog() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

func (app *App) log() *log.Logger {
	if app.logger == nil {
		return logging.Discard()
	}
	return app.logger
}

// config is loaded once per invocation. A broken config file is reported and
// treated as empty so list commands keep working.
func (app *App) config() *store.GlobalConfig {
	if app.cfg != nil {
		return app.cfg
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		app.log().Warn("config unreadable; using defaults", "err", err)
		cfg = &store.GlobalConfig{}
	}
	app.cfg = cfg
	return cfg
}

// resolveDir picks the list directory:
// 1) --dir / SHOPLIST_DIR
// 2) --list / SHOPLIST_LIST
// 3) a .shoplist dir in the working directory or a parent
// 4) currentList from config.toml
// 5) the "default" list
func resolveDir(app *App) (string, error) {
	if strings.TrimSpace(app.Dir) != "" {
		return app.Dir, nil
	}

	name := strings.TrimSpace(app.List)
	if name == "" {
		if cwd, err := os.Getwd(); err == nil {
			if d, ok := store.DiscoverDir(cwd); ok {
				app.Dir = d
				return d, nil
			}
		}
		name = app.config().CurrentList
	}
	if name == "" {
		name = "default"
	}
	d, err := store.ListDir(name)
	if err != nil {
		return "", err
	}
	app.List = name
	app.Dir = d
	return d, nil
}

func openRepo(app *App) (*items.Repository, *store.ItemStore, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, nil, store.Store{}, err
	}
	kind := app.Backend
	if strings.TrimSpace(kind) == "" {
		kind = app.config().Backend
	}
	s := store.Store{Dir: dir}
	b, err := s.Open(kind)
	if err != nil {
		return nil, nil, s, err
	}
	is := store.NewItemStore(b, app.log())
	return items.New(is), is, s, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	repo, _, st, err := openRepo(app)
	if err != nil {
		return writeErr(cmd, err)
	}

	// The alt screen owns the terminal; logs go to a file.
	if strings.TrimSpace(app.LogFile) == "" {
		app.LogFile = filepath.Join(st.Dir, "shoplist.log")
		if err := app.setupLogging(cmd.ErrOrStderr()); err != nil {
			return writeErr(cmd, err)
		}
		defer app.closeLog()
	}

	opts := tui.Options{
		Store:  st,
		Repo:   repo,
		Logger: app.log(),
		Watch:  true,
	}
	if tc := app.config().TUI; tc != nil {
		opts.Theme = tc.Theme
		opts.Glyphs = tc.Glyphs
	}
	return tui.Run(cmd.Context(), opts)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
