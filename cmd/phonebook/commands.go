package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jeanpaul/phonebook/internal/config"
	"github.com/jeanpaul/phonebook/internal/export"
	"github.com/jeanpaul/phonebook/internal/health"
	"github.com/jeanpaul/phonebook/internal/tui"
	"github.com/jeanpaul/phonebook/internal/validate"
)

func cmdList(w io.Writer, a *app, args []string) error {
	pages := a.store.Pages()
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: phonebook list [page]")
		}
		for _, entry := range a.store.Page(page) {
			fmt.Fprintln(w, entry)
		}
		return nil
	}

	for page := 1; page <= pages; page++ {
		fmt.Fprintln(w, tui.HelpStyle.Render(fmt.Sprintf("-- страница %d из %d --", page, pages)))
		for _, entry := range a.store.Page(page) {
			fmt.Fprintln(w, entry)
		}
	}
	return nil
}

func cmdSearch(w io.Writer, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: phonebook search <query>")
	}
	results := a.store.Search(strings.Join(args, " "))
	if len(results) == 0 {
		fmt.Fprintln(w, "Ничего не найдено.")
		return nil
	}
	for i, entry := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, entry)
	}
	return nil
}

func cmdExport(w io.Writer, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: phonebook export <file.xlsx>")
	}
	records := a.store.Unwrap().Records()

	start := time.Now()
	err := export.WriteXLSX(args[0], records)
	a.obs.Record("export", start, err, "path", args[0], "records", len(records))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %d records to %s\n", tui.LabelStyle.Render("✓ exported"), len(records), args[0])
	return nil
}

func cmdImport(w io.Writer, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: phonebook import <glob>")
	}

	start := time.Now()
	res, err := export.Merge(a.store, a.cfg.File, args[0], a.v)
	if res != nil {
		a.obs.Record("import", start, err,
			"pattern", args[0], "files", len(res.Files), "imported", len(res.Imported),
			"rejected", len(res.Rejected), "malformed", res.Malformed)
	}
	if err != nil {
		return err
	}

	for _, rej := range res.Rejected {
		fmt.Fprintf(w, "%s %s: %s\n", tui.ErrorStyle.Render("✗ skipped"), rej.Source, rej.Record)
		for _, v := range validate.Violations(rej.Err) {
			fmt.Fprintf(w, "    %s: %s\n", v.Field, v.Reason)
		}
	}
	if err := a.store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %d records from %d files, %d skipped, %d malformed lines\n",
		tui.LabelStyle.Render("✓ imported"),
		len(res.Imported), len(res.Files), len(res.Rejected), res.Malformed)
	return nil
}

func cmdStats(w io.Writer, a *app) error {
	a.obs.WritePrometheus(w)
	return nil
}

func cmdConfig(w io.Writer, cfg *config.Config, args []string) error {
	if len(args) > 0 && args[0] == "save" {
		path, err := config.Save(cfg)
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(w, "%s %s\n", tui.LabelStyle.Render("✓ saved"), path)
		return nil
	}

	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

func cmdDoctor(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, tui.TitleStyle.Render("phonebook doctor"))
	fmt.Fprintln(w)

	report := health.Check(context.Background(), cfg.File, cfg.Region)
	for _, s := range report.Statuses {
		fmt.Fprintf(w, "  %s %s ... ", tui.HelpStyle.Render("●"), tui.LabelStyle.Render(s.Name))
		if s.OK {
			fmt.Fprintf(w, "%s %s\n",
				tui.StatusStyle.Render("✓ "+s.Detail),
				tui.HelpStyle.Render(s.Latency.Round(time.Microsecond).String()),
			)
			continue
		}
		msg := "✗ " + s.Error
		if s.Detail != "" {
			msg += " (" + s.Detail + ")"
		}
		fmt.Fprintln(w, tui.ErrorStyle.Render(msg))
	}

	// Check config file
	fmt.Fprintf(w, "  %s %s ... ", tui.HelpStyle.Render("●"), tui.LabelStyle.Render("config"))
	if _, err := os.Stat(config.Path()); err == nil {
		fmt.Fprintln(w, tui.StatusStyle.Render("✓ "+config.Path()))
	} else {
		fmt.Fprintln(w, tui.HelpStyle.Render("- using defaults (phonebook config save writes "+config.Path()+")"))
	}

	fmt.Fprintln(w)
	if !report.Healthy() {
		return fmt.Errorf("%s has problems", report.Path)
	}
	fmt.Fprintln(w, tui.StatusStyle.Render("  All checks passed."))
	return nil
}
