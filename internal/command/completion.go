// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/astrojobs/astrojobs/internal/meta"
)

const bashCompletionScript = `# bash completion for astrojobs
_astrojobs()
{
    local cur prev
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --color)
            COMPREPLY=( $(compgen -W "auto always never" -- "$cur") )
            return 0
            ;;
        --algorithm)
            COMPREPLY=( $(compgen -W "difflib lcs" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "local s3" -- "$cur") )
            return 0
            ;;
        --data-dir|-d)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
    esac

    local opts="--postdoc -p --faculty -f --output -o --color --algorithm --data-dir -d --dry-run -n --store --bucket --prefix --region --profile --help -h --version -v"
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="$opts completion"
    fi
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _astrojobs astrojobs
`

const zshCompletionScript = `#compdef astrojobs

_astrojobs() {
  if [[ $words[2] == completion ]]; then
    _arguments '2: :((bash zsh))'
    return
  fi

  _arguments -C \
    '(-p --postdoc)'{-p,--postdoc}'[show updates for postdoc jobs/rumors]' \
    '(-f --faculty)'{-f,--faculty}'[show updates for faculty jobs/rumors]' \
    '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
    '--color[colorize text output]:mode:(auto always never)' \
    '--algorithm[line diff algorithm]:algorithm:(difflib lcs)' \
    '(-d --data-dir)'{-d,--data-dir}'[baseline directory]:directory:_directories' \
    '(-n --dry-run)'{-n,--dry-run}'[do not update baselines]' \
    '--store[baseline store]:store:(local s3)' \
    '--bucket[S3 bucket]:bucket' \
    '--prefix[S3 key prefix]:prefix' \
    '--region[AWS region]:region' \
    '--profile[AWS profile]:profile' \
    '(-v --version)'{-v,--version}'[version info]' \
    '1::command:((completion\:"generate shell completion script"))'
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _astrojobs astrojobs
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)
	if w == nil {
		w = os.Stdout
	}

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: astrojobs completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "astrojobs completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
