package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/export"
	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/task"
)

// exportCommand writes the filtered view as json, csv, or pdf.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan export", flag.ContinueOnError)
	formatName := fs.String("format", string(export.FormatJSON), "json|csv|pdf")
	out := fs.String("out", "", "Write to a file instead of stdout; the format extension is added when missing")
	filterName := fs.String("filter", string(query.FilterAll), "Export only all|today|pending|completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	filter, err := query.ParseFilter(*filterName)
	if err != nil {
		return err
	}

	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	vm := a.engine.View(filter, cfg.DateFormat)
	data, err := export.Export(vm, format)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if filepath.Ext(*out) == "" {
		*out += format.Extension()
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported %d tasks to %s\n", len(vm.Entries), *out)
	return nil
}

// dumpCommand prints the raw stored collection, re-indented, or the JSON
// Schema it is validated against.
func dumpCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan dump", flag.ContinueOnError)
	schema := fs.Bool("schema", false, "Print the JSON Schema for stored tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *schema {
		fmt.Print(task.Schema())
		return nil
	}
	backend, err := kv.Open(cfg.KVOptions())
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}
	defer backend.Close()

	blob, ok, err := backend.Get(cfg.StorageKey)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("[]")
		return nil
	}
	pretty, err := task.Pretty(blob)
	if err != nil {
		// Not JSON: show it as stored.
		fmt.Println(blob)
		return nil
	}
	fmt.Print(pretty)
	return nil
}
