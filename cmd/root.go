// Package cmd implements the CLI command structure for studyplan.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// now is the clock used for ids and "today". Tests replace it.
var now = time.Now

// Run executes the studyplan CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("studyplan", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "list" as default
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	// Execute the subcommand
	switch subcommand {
	case "list", "ls":
		return listCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "rm", "remove", "delete":
		return removeCommand(cfg, remainingArgs)
	case "stats":
		return statsCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "dump":
		return dumpCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("studyplan version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "studyplan - Plan study tasks and track progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  studyplan [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list            List tasks (default command)")
	fmt.Fprintln(w, "  add [topic]     Add a study task")
	fmt.Fprintln(w, "  toggle <id>     Mark a task completed or pending")
	fmt.Fprintln(w, "  edit <id> <topic>  Change the topic of a task")
	fmt.Fprintln(w, "  rm <id>         Delete a task")
	fmt.Fprintln(w, "  stats           Show progress and today's subject")
	fmt.Fprintln(w, "  export          Export tasks as json, csv, or pdf")
	fmt.Fprintln(w, "  dump            Print the stored task data")
	fmt.Fprintln(w, "  tui             Launch terminal UI")
	fmt.Fprintln(w, "  doctor          Check config, storage, and saved data")
	fmt.Fprintln(w, "  config          Show the effective configuration and its sources")
	fmt.Fprintln(w, "  completion <shell>  Print a shell completion script (bash|zsh|fish)")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Show all|today|pending|completed tasks (default all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add' command):")
	fmt.Fprintln(w, "  -subject string")
	fmt.Fprintln(w, "        Subject (default General)")
	fmt.Fprintln(w, "  -topic string")
	fmt.Fprintln(w, "        Topic to study (required)")
	fmt.Fprintln(w, "  -date string")
	fmt.Fprintln(w, "        Due date as YYYY-MM-DD or today (default today)")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintf(w, "        %s (default from config)\n", task.PriorityNames())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        json|csv|pdf (default json)")
	fmt.Fprintln(w, "  -out string")
	fmt.Fprintln(w, "        Write to a file instead of stdout (extension added when missing)")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Export only all|today|pending|completed tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dump Options (use with 'dump' command):")
	fmt.Fprintln(w, "  -schema")
	fmt.Fprintln(w, "        Print the JSON Schema for stored tasks")
}
