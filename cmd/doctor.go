package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/task"
)

// doctorCommand checks config, storage reachability, and saved data validity.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("studyplan doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Println("studyplan doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	// Check config
	fmt.Println("Config:")
	if len(cws.Files) == 0 {
		fmt.Println("  ⚠️  No config file found (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Printf("  ✅ Loaded %s\n", f)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  ✅ Backend: %s\n", cfg.Backend)
		fmt.Printf("  ✅ Default priority: %s\n", cfg.DefaultPriority)
	}
	fmt.Println()

	// Check storage
	fmt.Printf("Storage (%s):\n", cfg.Backend)
	if cfg.Backend == string(kv.BackendFile) {
		fmt.Printf("  File: %s\n", filepath.Join(cfg.DataDir, kv.FileName))
	}
	backend, err := kv.Open(cfg.KVOptions())
	if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		fmt.Println()
		return finishDoctor(false)
	}
	defer backend.Close()

	blob, ok, err := backend.Get(cfg.StorageKey)
	switch {
	case err != nil:
		fmt.Printf("  ❌ Read error: %v\n", err)
		allOK = false
	case !ok:
		fmt.Printf("  ⚠️  No saved tasks under key %q (starts empty)\n", cfg.StorageKey)
	default:
		fmt.Println("  ✅ Reachable")
		result := task.Validate(blob)
		for _, w := range result.Warnings {
			fmt.Printf("  ⚠️  %s\n", w)
		}
		if result.Valid {
			fmt.Printf("  ✅ Valid (%d tasks)\n", result.Count)
			if *verbose && result.UsedSchema {
				fmt.Println("  ✅ Checked against embedded schema")
			}
		} else {
			fmt.Println("  ❌ Validation failed (saved tasks will be ignored):")
			for _, e := range result.Errors {
				fmt.Printf("     - %s\n", e)
			}
			allOK = false
		}
	}
	fmt.Println()

	if *verbose {
		fmt.Printf("Working directory: %s\n", mustGetwd())
		fmt.Println()
	}

	return finishDoctor(allOK)
}

func finishDoctor(allOK bool) error {
	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. studyplan may not keep your tasks.")
	return fmt.Errorf("doctor checks failed")
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "?"
	}
	return wd
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("studyplan config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if f := cws.ConfigFile(); f != "" {
		fmt.Printf("# config file: %s\n", f)
	}
	for _, field := range config.Fields() {
		fmt.Printf("%-17s = %-24q # %s\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return nil
}
