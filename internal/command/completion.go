// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/meta"
)

const bashCompletionScript = `# bash completion for wsinfra
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_wsinfra()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "synth graph rq oq component schedule lookup publish history diff ti completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t --schema --tldr"
    local tpl="--out --stack --synth"
    local arc="--profile"

    case "$cmd" in
        synth)
            local opts="$common --out --stack --strict --stdout"
            ;;
        graph)
            local opts="$common $tpl --template --refs"
            ;;
        rq)
            local opts="$common $tpl --count"
            ;;
        oq)
            local opts="$common $tpl"
            ;;
        component)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "validate show" -- "$cur") )
                return 0
            fi
            local opts="$common --file"
            ;;
        schedule)
            local opts="--next -n --local -l --output -o --titles -t"
            ;;
        lookup)
            local opts="$common $arc --region --config"
            ;;
        publish)
            local opts="$common $tpl $arc --force"
            ;;
        history)
            local opts="$common $arc --stack --limit -n"
            ;;
        diff)
            local opts="$tpl $arc --color -c --exit-code --ignore --titles -t TV~0 TV~1 +"
            ;;
        ti)
            local opts="$tpl --expr -e --history"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --stack)
            COMPREPLY=( $(compgen -W "ImageBuilderStack WorkstationBaseline" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise complete the optional ProjectDir positional.
    COMPREPLY=( $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _wsinfra wsinfra
`

const zshCompletionScript = `#compdef wsinfra

_wsinfra() {
  local -a cmds
  cmds=(
    'synth:synthesize the workstation stacks'
    'graph:dependency graph in creation order'
    'rq:resource query'
    'oq:output query'
    'component:validate or summarize the component document'
    'schedule:describe the pipeline schedule'
    'lookup:discover the default VPC and public subnets'
    'publish:upload templates to the archive bucket'
    'history:list archived template versions'
    'diff:diff templates against archived versions'
    'ti:template inspector console'
    'completion:generate shell completion script'
  )

  local -a common tpl
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[dump row keys]'
  '--tldr[show tldr page]'
  )
  tpl=(
  '--out[cloud assembly directory]:dir:_directories'
  '--stack[stack]:stack:(ImageBuilderStack WorkstationBaseline)'
  '--synth[synthesize first]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'wsinfra commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    synth)
      _arguments -C $common \
        '--out[cloud assembly directory]:dir:_directories' \
        '--strict[validate the component first]' \
        '--stdout[print the template]' \
        '::ProjectDir:_directories'
      ;;
    graph)
      _arguments -C $common $tpl \
        '--template[read the synthesized template]' \
        '--refs[count references as edges]' \
        '::ProjectDir:_directories'
      ;;
    rq)
      _arguments -C $common $tpl '--count[count per type]' '::ProjectDir:_directories'
      ;;
    oq)
      _arguments -C $common $tpl '::ProjectDir:_directories'
      ;;
    component)
      _arguments -C '1: :((validate show))' $common '--file[component file]:file:_files' '::ProjectDir:_directories'
      ;;
    schedule)
      _arguments -C \
        '(-n --next)'{-n,--next}'[upcoming runs]:n' \
        '(-l --local)'{-l,--local}'[local time]' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '::ProjectDir:_directories'
      ;;
    lookup)
      _arguments -C $common '--profile[AWS profile]:profile' '--region[region]:region' '--config[config fragment]' '::ProjectDir:_directories'
      ;;
    publish)
      _arguments -C $common $tpl '--profile[AWS profile]:profile' '--force[upload even if unchanged]' '::ProjectDir:_directories'
      ;;
    history)
      _arguments -C $common '--profile[AWS profile]:profile' '(-n --limit)'{-n,--limit}'[limit]:n' '::ProjectDir:_directories'
      ;;
    diff)
      _arguments -C $tpl \
        '--profile[AWS profile]:profile' \
        '--exit-code[fail when different]' \
        '--ignore[keys to ignore]:keys' \
        '*:spec:(TV~0 TV~1 +)'
      ;;
    ti)
      _arguments -C $tpl '(-e --expr)'{-e,--expr}'[query]:expr' '--history[history file]:file:_files' '::ProjectDir:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _wsinfra wsinfra
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}

	w := stdout(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	case "":
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: wsinfra completion [bash|zsh]")
		}
	default:
		return fmt.Errorf("unsupported shell %q, must be bash or zsh", shell)
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "wsinfra completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
