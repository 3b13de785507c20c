package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/phonebook/internal/audit"
	"github.com/jeanpaul/phonebook/internal/config"
	"github.com/jeanpaul/phonebook/internal/headless"
	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/tui"
	"github.com/jeanpaul/phonebook/internal/validate"
	"github.com/jeanpaul/phonebook/pkg/version"
)

type flags struct {
	file     *string
	pageSize *int
	region   *string
	theme    *string
}

func main() {
	f := flags{
		file:     flag.String("file", "", "Phonebook file (default from config)"),
		pageSize: flag.Int("page-size", 0, "Entries per page"),
		region:   flag.String("region", "", "Default phone region, e.g. RU or US"),
		theme:    flag.String("theme", "", "Color theme ("+strings.Join(tui.Themes(), ", ")+")"),
	}
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")
	headlessFlag := flag.Bool("headless", false, "Use the line menu even on a terminal")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config error: %s", err)
	}
	if err := applyFlags(cfg, f); err != nil {
		fatal("%s", err)
	}
	if !tui.UseTheme(cfg.Theme) {
		fatal("unknown theme %q (available: %s)", cfg.Theme, strings.Join(tui.Themes(), ", "))
	}

	// Handle subcommands
	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "config":
			err = cmdConfig(os.Stdout, cfg, args[1:])
		case "doctor":
			err = cmdDoctor(os.Stdout, cfg)
		case "help":
			showHelp()
			return
		case "list", "search", "export", "import", "stats":
			err = withStore(cfg, func(a *app) error {
				switch args[0] {
				case "list":
					return cmdList(os.Stdout, a, args[1:])
				case "search":
					return cmdSearch(os.Stdout, a, args[1:])
				case "export":
					return cmdExport(os.Stdout, a, args[1:])
				case "import":
					return cmdImport(os.Stdout, a, args[1:])
				default:
					return cmdStats(os.Stdout, a)
				}
			})
		default:
			fatal("unknown command %q (see phonebook --help)", args[0])
		}
		if err != nil {
			fatal("%s", err)
		}
		return
	}

	err = withStore(cfg, func(a *app) error {
		if *headlessFlag || !isTerminal() {
			return launchHeadless(a)
		}
		return launchTUI(a)
	})
	if err != nil {
		fatal("%s", err)
	}
}

// applyFlags lets explicitly set flags win over the config file and
// environment.
func applyFlags(cfg *config.Config, f flags) error {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "file":
			cfg.File = *f.file
		case "page-size":
			cfg.PageSize = *f.pageSize
		case "region":
			cfg.Region = *f.region
		case "theme":
			cfg.Theme = *f.theme
		}
	})
	return cfg.Validate()
}

// app is everything a command needs once the phonebook is loaded.
type app struct {
	cfg   *config.Config
	obs   *audit.Observer
	store *audit.Store
	v     *validate.Validator
}

// withStore builds the audit logger and the observed store, loads the
// phonebook and runs fn.
func withStore(cfg *config.Config, fn func(*app) error) error {
	logger, closer := audit.NewLogger(audit.Options{
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer closer.Close()

	v, err := validate.New(cfg.Region)
	if err != nil {
		return err
	}

	obs := audit.NewObserver(logger)
	obs.Logger().Debug("starting", "version", version.Version, "file", cfg.File, "page_size", cfg.PageSize)

	a := &app{
		cfg:   cfg,
		obs:   obs,
		store: audit.Wrap(phonebook.New(cfg.File, cfg.PageSize), obs),
		v:     v,
	}
	if err := a.store.Load(); err != nil {
		return fmt.Errorf("load %s: %w", cfg.File, err)
	}
	return fn(a)
}

// launchHeadless serves the line menu. An interrupt ends the process
// without saving; edits are already on disk, unsaved additions are lost.
func launchHeadless(a *app) error {
	return headless.Run(context.Background(), os.Stdin, os.Stdout, a.store, a.v)
}

func launchTUI(a *app) error {
	p := tea.NewProgram(tui.NewModel(a.store, a.v), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

func showHelp() {
	writeHelp(os.Stdout)
}

func writeHelp(w io.Writer) {
	help := `
` + tui.TitleStyle.Render("phonebook") + ` - file-backed contact directory

` + tui.LabelStyle.Render("USAGE:") + `
  phonebook [flags]                 Interactive menu (TUI on a terminal)
  phonebook [flags] <command>       Run a command

` + tui.LabelStyle.Render("COMMANDS:") + `
  list [page]                       Print one page, or every entry
  search <query>                    Case-insensitive substring search
  export <file.xlsx>                Write all records to a spreadsheet
  import <glob>                     Merge records from other phonebook files (** allowed)
  config [save]                     Print the effective config, or save it
  stats                             Print operation metrics after a load
  doctor                            Check the phonebook file and settings
  help                              Show this help

` + tui.LabelStyle.Render("FLAGS:") + `
  --file <path>                     Phonebook file
  --page-size <n>                   Entries per page
  --region <code>                   Region for numbers without a country code
  --theme <name>                    Color theme (` + strings.Join(tui.Themes(), ", ") + `)
  --headless                        Use the line menu even on a terminal
  --version                         Show version
  --help, -h                        Show this help

` + tui.LabelStyle.Render("ENVIRONMENT:") + `
  PHONEBOOK_FILE, PHONEBOOK_PAGE_SIZE, PHONEBOOK_REGION, PHONEBOOK_THEME,
  PHONEBOOK_LOG_FILE, PHONEBOOK_LOG_LEVEL, PHONEBOOK_LOG_FORMAT

` + tui.HelpStyle.Render("Config: ./config.yaml or "+config.Path()) + `
`
	fmt.Fprintln(w, help)
}
