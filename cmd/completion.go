package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/query"
)

var commandNames = []string{
	"list", "add", "toggle", "edit", "rm", "stats", "export", "dump",
	"tui", "doctor", "config", "completion", "version", "help",
}

// completionCommand prints a shell completion script.
func completionCommand(_ *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan completion", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: studyplan completion <bash|zsh|fish>")
	}

	commands := strings.Join(commandNames, " ")
	filters := make([]string, 0, len(query.Filters()))
	for _, f := range query.Filters() {
		filters = append(filters, string(f))
	}
	filterList := strings.Join(filters, " ")

	switch fs.Arg(0) {
	case "bash":
		fmt.Printf(`# studyplan bash completion
_studyplan() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        -filter|--filter) COMPREPLY=($(compgen -W "%[2]s" -- "$cur")); return ;;
        -priority|--priority|-default-priority|--default-priority) COMPREPLY=($(compgen -W "low medium high" -- "$cur")); return ;;
        -format|--format) COMPREPLY=($(compgen -W "json csv pdf" -- "$cur")); return ;;
        -backend|--backend) COMPREPLY=($(compgen -W "file memory mysql" -- "$cur")); return ;;
    esac
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=($(compgen -W "%[1]s" -- "$cur"))
    fi
}
complete -F _studyplan studyplan
`, commands, filterList)
	case "zsh":
		fmt.Printf(`#compdef studyplan
_studyplan() {
    _arguments \
        '1:command:(%[1]s)' \
        '-filter[filter]:filter:(%[2]s)' \
        '-priority[priority]:priority:(low medium high)' \
        '-format[export format]:format:(json csv pdf)' \
        '-backend[storage backend]:backend:(file memory mysql)'
}
compdef _studyplan studyplan
`, commands, filterList)
	case "fish":
		fmt.Printf(`# studyplan fish completion
complete -c studyplan -f -n '__fish_use_subcommand' -a '%[1]s'
complete -c studyplan -l filter -x -a '%[2]s'
complete -c studyplan -l priority -x -a 'low medium high'
complete -c studyplan -l format -x -a 'json csv pdf'
complete -c studyplan -l backend -x -a 'file memory mysql'
`, commands, filterList)
	default:
		return fmt.Errorf("unsupported shell %q (expected bash|zsh|fish)", fs.Arg(0))
	}
	return nil
}
