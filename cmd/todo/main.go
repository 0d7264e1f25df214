package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo-api/interfaces/tui"
	"todo-api/pkg/logger"
	"todo-api/pkg/preferences"
	"todo-api/pkg/todoclient"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func main() {
	apiURL := flag.String("api", envOr("TODO_API_URL", "http://localhost:8080"), "todo API base URL")
	timeout := flag.Duration("timeout", todoclient.DefaultTimeout, "per-request timeout")
	prefsPath := flag.String("prefs", "", "preferences file (default $XDG_CONFIG_HOME/todo/preferences.toml)")
	filterName := flag.String("filter", "all", "initial filter: all, pending or completed")
	flag.Usage = usage
	flag.Parse()

	// the TUI owns the terminal, so logs always go to a file
	logCfg := logger.DefaultConfig()
	logCfg.Level = envOr("TODO_LOG_LEVEL", "warn")
	logCfg.Format = "text"
	logCfg.Output = "file"
	logCfg.FilePath = envOr("TODO_LOG_FILE", defaultLogFile())
	if err := logger.Init(logCfg); err != nil {
		fail(err)
		os.Exit(1)
	}

	filter, err := todoclient.ParseFilter(*filterName)
	if err != nil {
		fail(err)
		os.Exit(2)
	}

	client := todoclient.New(*apiURL, *timeout)
	logger.Debug("Client started", "api", client.BaseURL(), "timeout", timeout.String())
	manager := todoclient.NewManager(client)
	os.Exit(run(flag.Args(), manager, *prefsPath, filter, os.Stdout))
}

func run(args []string, manager *todoclient.Manager, prefsPath string, filter todoclient.FilterStatus, out io.Writer) int {
	if len(args) == 0 {
		store, err := openPreferences(prefsPath)
		if err != nil {
			fail(err)
			return 1
		}
		if err := tui.Run(manager, store, tui.Options{Filter: filter}); err != nil {
			fail(err)
			return 1
		}
		return 0
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "list", "ls":
		err = cmdList(manager, filter, rest, out)
	case "add":
		err = cmdAdd(manager, rest, out)
	case "done", "toggle":
		err = cmdToggle(manager, rest, out)
	case "rm", "delete":
		err = cmdDelete(manager, rest, out)
	case "clear":
		err = cmdClear(manager, out)
	case "theme":
		err = cmdTheme(prefsPath, rest, out)
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fail(fmt.Errorf("unknown command %q", cmd))
		usage()
		return 2
	}

	if err != nil {
		fail(err)
		if errors.Is(err, todoclient.ErrValidation) || errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func cmdList(m *todoclient.Manager, filter todoclient.FilterStatus, args []string, out io.Writer) error {
	if len(args) > 0 {
		f, err := todoclient.ParseFilter(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		filter = f
	}

	if _, err := m.Fetch(); err != nil {
		return err
	}
	todos := m.Filter(filter)
	if len(todos) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no todos"))
		return nil
	}
	for _, t := range todos {
		box := "☐"
		if t.Completed {
			box = successStyle.Render("☑")
		}
		line := fmt.Sprintf("%s %s  %s", box, t.ID, t.Task)
		if t.DueDate != "" {
			line += mutedStyle.Render("  due " + t.DueDate)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func cmdAdd(m *todoclient.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	due := fs.String("due", "", "due date")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	t, err := m.Add(strings.Join(fs.Args(), " "), *due)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render("✔ added "+t.ID))
	return nil
}

func cmdToggle(m *todoclient.Manager, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: done <id>", errUsage)
	}
	if _, err := m.Fetch(); err != nil {
		return err
	}
	t, err := m.Toggle(args[0])
	if err != nil {
		return err
	}
	state := "pending"
	if t.Completed {
		state = "completed"
	}
	fmt.Fprintln(out, successStyle.Render("✔ "+t.ID+" marked "+state))
	return nil
}

func cmdDelete(m *todoclient.Manager, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: rm <id>", errUsage)
	}
	if err := m.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render("✔ deleted "+args[0]))
	return nil
}

func cmdClear(m *todoclient.Manager, out io.Writer) error {
	n, err := m.ClearAll()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✔ deleted %d todos", n)))
	return nil
}

func cmdTheme(prefsPath string, args []string, out io.Writer) error {
	store, err := openPreferences(prefsPath)
	if err != nil {
		return err
	}

	var theme preferences.Theme
	switch {
	case len(args) == 0:
		theme, err = store.Load()
	case args[0] == "toggle":
		theme, err = store.Toggle()
	default:
		theme = preferences.ParseTheme(args[0])
		if string(theme) != strings.ToLower(args[0]) {
			return fmt.Errorf("%w: theme [dark|light|toggle]", errUsage)
		}
		err = store.Save(theme)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, theme)
	return nil
}

func openPreferences(path string) (*preferences.Store, error) {
	if path == "" {
		p, err := preferences.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return preferences.NewStore(path), nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "todo", "todo.log")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+err.Error()))
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: todo [flags] [command]

With no command the interactive view starts.

Commands:
  list [all|pending|completed]   print todos
  add [-due DATE] TASK...        create a todo
  done ID                        toggle completed
  rm ID                          delete a todo
  clear                          delete every todo
  theme [dark|light|toggle]      show or set the theme

Flags:
`)
	flag.PrintDefaults()
}
