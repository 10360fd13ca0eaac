// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/csvfilter/internal/meta"
)

const bashCompletionScript = `# bash completion for csvfilter
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_csvfilter()
{
    local cur prev cmd sub
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "transform validate completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local transform="--column --query -q --where -w --output-path -p --flush"
    local src="--file -f --delimiter -d --header --region --profile"
    local render="--output -o --titles -t --color --column-types --sort -s --quiet --skip-short-rows --validate --schema"

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --flush)
            COMPREPLY=( $(compgen -W "row end" -- "$cur") )
            return 0
            ;;
        --file|-f|--output-path|-p)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    case "$cmd" in
        transform)
            sub=""
            for w in "${COMP_WORDS[@]:2}"; do
                if [[ $w == filter || $w == anyfilter ]]; then
                    sub=$w
                fi
            done
            if [[ -z $sub ]]; then
                local opts="$transform filter anyfilter"
            else
                local opts="$transform $src $render"
            fi
            ;;
        validate)
            local opts="$src"
            ;;
        completion)
            local opts="bash zsh"
            ;;
        *)
            local opts=""
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _csvfilter csvfilter
`

const zshCompletionScript = `#compdef csvfilter

_csvfilter() {
  local -a cmds
  cmds=(
    'transform:filter rows and optionally write them to a file'
    'validate:check a source without filtering it'
    'completion:generate shell completion script'
  )

  local -a transform src render
  transform=(
  '*--column[column to match]:column'
  '*'{-q,--query}'[value to match]:query'
  '(-w --where)'{-w,--where}'[column=value pairs]:pairs'
  '(-p --output-path)'{-p,--output-path}'[write matched rows here]:file:_files'
  '--flush[when to write the output file]:policy:(row end)'
  )
  src=(
  '(-f --file)'{-f,--file}'[file, glob or s3 uri]:file:_files'
  '(-d --delimiter)'{-d,--delimiter}'[field delimiter]:delimiter'
  '--header[first line names the columns]'
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  )
  render=(
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--color[enable colored text]'
  '--column-types[type tags]:types'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '--quiet[do not print rows]'
  '--skip-short-rows[skip short rows]'
  '--validate[fail on validation errors]'
  '--schema[dump column schema]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'csvfilter commands' cmds
    return
  fi

  case $words[2] in
    transform)
      if (( ${words[(I)filter|anyfilter]} )); then
        _arguments -C $transform $src $render
      else
        _arguments -C $transform '1: :((filter anyfilter))'
      fi
      ;;
    validate)
      _arguments -C $src
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _csvfilter csvfilter
`

// completionScript picks the script for shell, falling back to $SHELL when
// shell is empty.
func completionScript(shell string) (string, error) {
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}
	switch shell {
	case "bash":
		return bashCompletionScript, nil
	case "zsh":
		return zshCompletionScript, nil
	default:
		return "", fmt.Errorf("unsupported shell %q, usage: csvfilter completion [bash|zsh]", shell)
	}
}

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	script, err := completionScript(cmd.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.Root().Writer, script)
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "csvfilter completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
