// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// scriptData is passed to every activation script template.
type scriptData struct {
	EnvDir  string
	BinName string
	Prompt  string
}

type script struct {
	name string
	tmpl *template.Template
}

var (
	posixScripts = []script{
		{name: "activate", tmpl: template.Must(template.New("activate").Parse(activateSh))},
		{name: "activate.fish", tmpl: template.Must(template.New("activate.fish").Parse(activateFish))},
		{name: "Activate.ps1", tmpl: template.Must(template.New("Activate.ps1").Parse(activatePs1))},
	}
	windowsScripts = []script{
		{name: "activate", tmpl: template.Must(template.New("activate").Parse(activateSh))},
		{name: "activate.bat", tmpl: template.Must(template.New("activate.bat").Parse(activateBat))},
		{name: "deactivate.bat", tmpl: template.Must(template.New("deactivate.bat").Parse(deactivateBat))},
		{name: "Activate.ps1", tmpl: template.Must(template.New("Activate.ps1").Parse(activatePs1))},
	}
)

// writeScripts renders the activation scripts for l into its bin directory.
// It returns the names of the scripts written.
func writeScripts(l layout, data scriptData) ([]string, error) {
	scripts := posixScripts
	if l.windows {
		scripts = windowsScripts
	}

	var (
		merr    *multierror.Error
		written []string
	)

	for _, s := range scripts {
		var buf bytes.Buffer
		if err := s.tmpl.Execute(&buf, data); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("rendering %s: %w", s.name, err))
			continue
		}

		dst := filepath.Join(l.binDir, s.name)
		if err := afero.WriteFile(FS, dst, buf.Bytes(), fileMode); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("writing %s: %w", s.name, err))
			continue
		}

		written = append(written, s.name)
	}

	return written, merr.ErrorOrNil()
}

const activateSh = `# This file must be used with "source {{.BinName}}/activate" *from bash or zsh*.
# You cannot run it directly.

deactivate () {
    if [ -n "${_OLD_VIRTUAL_PATH:-}" ] ; then
        PATH="${_OLD_VIRTUAL_PATH:-}"
        export PATH
        unset _OLD_VIRTUAL_PATH
    fi
    if [ -n "${_OLD_VIRTUAL_PYTHONHOME:-}" ] ; then
        PYTHONHOME="${_OLD_VIRTUAL_PYTHONHOME:-}"
        export PYTHONHOME
        unset _OLD_VIRTUAL_PYTHONHOME
    fi
    hash -r 2> /dev/null
    if [ -n "${_OLD_VIRTUAL_PS1:-}" ] ; then
        PS1="${_OLD_VIRTUAL_PS1:-}"
        export PS1
        unset _OLD_VIRTUAL_PS1
    fi
    unset VIRTUAL_ENV
    unset VIRTUAL_ENV_PROMPT
    if [ ! "${1:-}" = "nondestructive" ] ; then
        unset -f deactivate
    fi
}

deactivate nondestructive

VIRTUAL_ENV='{{.EnvDir}}'
export VIRTUAL_ENV

_OLD_VIRTUAL_PATH="$PATH"
PATH="$VIRTUAL_ENV/{{.BinName}}:$PATH"
export PATH

VIRTUAL_ENV_PROMPT='{{.Prompt}}'
export VIRTUAL_ENV_PROMPT

if [ -n "${PYTHONHOME:-}" ] ; then
    _OLD_VIRTUAL_PYTHONHOME="${PYTHONHOME:-}"
    unset PYTHONHOME
fi

if [ -z "${VIRTUAL_ENV_DISABLE_PROMPT:-}" ] ; then
    _OLD_VIRTUAL_PS1="${PS1:-}"
    PS1="({{.Prompt}}) ${PS1:-}"
    export PS1
fi

hash -r 2> /dev/null
`

const activateFish = `# This file must be used with "source <venv>/{{.BinName}}/activate.fish" *from fish*.
# You cannot run it directly.

function deactivate -d "Exit virtual environment and return to normal shell environment"
    if test -n "$_OLD_VIRTUAL_PATH"
        set -gx PATH $_OLD_VIRTUAL_PATH
        set -e _OLD_VIRTUAL_PATH
    end
    if test -n "$_OLD_VIRTUAL_PYTHONHOME"
        set -gx PYTHONHOME $_OLD_VIRTUAL_PYTHONHOME
        set -e _OLD_VIRTUAL_PYTHONHOME
    end
    if test -n "$_OLD_FISH_PROMPT_OVERRIDE"
        set -e _OLD_FISH_PROMPT_OVERRIDE
        if functions -q _old_fish_prompt
            functions -e fish_prompt
            functions -c _old_fish_prompt fish_prompt
            functions -e _old_fish_prompt
        end
    end
    set -e VIRTUAL_ENV
    set -e VIRTUAL_ENV_PROMPT
    if test "$argv[1]" != "nondestructive"
        functions -e deactivate
    end
end

deactivate nondestructive

set -gx VIRTUAL_ENV '{{.EnvDir}}'
set -gx _OLD_VIRTUAL_PATH $PATH
set -gx PATH "$VIRTUAL_ENV/{{.BinName}}" $PATH
set -gx VIRTUAL_ENV_PROMPT '{{.Prompt}}'

if set -q PYTHONHOME
    set -gx _OLD_VIRTUAL_PYTHONHOME $PYTHONHOME
    set -e PYTHONHOME
end

if test -z "$VIRTUAL_ENV_DISABLE_PROMPT"
    functions -c fish_prompt _old_fish_prompt
    function fish_prompt
        set -l old_status $status
        printf "%s%s%s" (set_color 4B8BBE) "({{.Prompt}}) " (set_color normal)
        echo "exit $old_status" | .
        _old_fish_prompt
    end
    set -gx _OLD_FISH_PROMPT_OVERRIDE "$VIRTUAL_ENV"
end
`

const activateBat = `@echo off

set "VIRTUAL_ENV={{.EnvDir}}"
set "VIRTUAL_ENV_PROMPT={{.Prompt}}"

if defined _OLD_VIRTUAL_PROMPT (
    set "PROMPT=%_OLD_VIRTUAL_PROMPT%"
) else (
    if not defined PROMPT (
        set "PROMPT=$P$G"
    )
    if not defined VIRTUAL_ENV_DISABLE_PROMPT (
        set "_OLD_VIRTUAL_PROMPT=%PROMPT%"
    )
)
if not defined VIRTUAL_ENV_DISABLE_PROMPT (
    set "PROMPT=({{.Prompt}}) %PROMPT%"
)

if defined PYTHONHOME set _OLD_VIRTUAL_PYTHONHOME=%PYTHONHOME%
set PYTHONHOME=

if defined _OLD_VIRTUAL_PATH (
    set "PATH=%_OLD_VIRTUAL_PATH%"
) else (
    set "_OLD_VIRTUAL_PATH=%PATH%"
)

set "PATH=%VIRTUAL_ENV%\{{.BinName}};%PATH%"
`

const deactivateBat = `@echo off

if defined _OLD_VIRTUAL_PROMPT (
    set "PROMPT=%_OLD_VIRTUAL_PROMPT%"
)
set _OLD_VIRTUAL_PROMPT=

if defined _OLD_VIRTUAL_PYTHONHOME (
    set "PYTHONHOME=%_OLD_VIRTUAL_PYTHONHOME%"
    set _OLD_VIRTUAL_PYTHONHOME=
)

if defined _OLD_VIRTUAL_PATH (
    set "PATH=%_OLD_VIRTUAL_PATH%"
)
set _OLD_VIRTUAL_PATH=

set VIRTUAL_ENV=
set VIRTUAL_ENV_PROMPT=
`

const activatePs1 = `function global:deactivate([switch] $NonDestructive) {
    if (Test-Path -Path Function:_OLD_VIRTUAL_PROMPT) {
        Copy-Item -Path Function:_OLD_VIRTUAL_PROMPT -Destination Function:prompt
        Remove-Item -Path Function:_OLD_VIRTUAL_PROMPT
    }
    if (Test-Path -Path Env:_OLD_VIRTUAL_PYTHONHOME) {
        Copy-Item -Path Env:_OLD_VIRTUAL_PYTHONHOME -Destination Env:PYTHONHOME
        Remove-Item -Path Env:_OLD_VIRTUAL_PYTHONHOME
    }
    if (Test-Path -Path Env:_OLD_VIRTUAL_PATH) {
        Copy-Item -Path Env:_OLD_VIRTUAL_PATH -Destination Env:PATH
        Remove-Item -Path Env:_OLD_VIRTUAL_PATH
    }
    if (Test-Path -Path Env:VIRTUAL_ENV) {
        Remove-Item -Path Env:VIRTUAL_ENV
    }
    if (Test-Path -Path Env:VIRTUAL_ENV_PROMPT) {
        Remove-Item -Path Env:VIRTUAL_ENV_PROMPT
    }
    if (!$NonDestructive) {
        Remove-Item -Path Function:deactivate
    }
}

deactivate -nondestructive

$env:VIRTUAL_ENV = '{{.EnvDir}}'
$env:VIRTUAL_ENV_PROMPT = '{{.Prompt}}'

if (-not $Env:VIRTUAL_ENV_DISABLE_PROMPT) {
    function global:_OLD_VIRTUAL_PROMPT { "" }
    Copy-Item -Path function:prompt -Destination function:_OLD_VIRTUAL_PROMPT
    function global:prompt {
        Write-Host -NoNewline -ForegroundColor Green "({{.Prompt}}) "
        _OLD_VIRTUAL_PROMPT
    }
}

if (Test-Path -Path Env:PYTHONHOME) {
    Copy-Item -Path Env:PYTHONHOME -Destination Env:_OLD_VIRTUAL_PYTHONHOME
    Remove-Item -Path Env:PYTHONHOME
}

Copy-Item -Path Env:PATH -Destination Env:_OLD_VIRTUAL_PATH
$Env:PATH = "$env:VIRTUAL_ENV{{if eq .BinName "Scripts"}}\{{else}}/{{end}}{{.BinName}}$([System.IO.Path]::PathSeparator)$Env:PATH"
`
