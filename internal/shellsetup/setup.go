// Package shellsetup prints the shell function that runs rnav and changes into
// the directory it reports on exit.
package shellsetup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ResultFilePrefix names the per-process result file read by the shell function.
const ResultFilePrefix = "rnav_result_"

// ErrUnsupportedShell is returned for a shell override we have no snippet for.
var ErrUnsupportedShell = errors.New("unsupported shell")

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable resolves the binary path baked into the snippet.
	Executable func() (string, error)
}

// Shells lists the accepted shell names.
func Shells() []string {
	return []string{"bash", "zsh", "sh", "ksh", "fish", "pwsh", "tcsh", "csh", "cmd"}
}

// ResultFilePath returns the result file for the process pid.
func ResultFilePath(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s%d.txt", ResultFilePrefix, pid))
}

// WriteResult stores dir for the shell function. An existing symlink at the
// target is refused so another user cannot redirect the write.
func WriteResult(pid int, dir string) error {
	target := ResultFilePath(pid)
	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("result file %s is a symlink", target)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(target, []byte(dir), 0o600)
}

// PrintSetup writes the snippet for shellOverride, or for the detected shell
// when the override is empty.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) error {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}
	executable := cfg.Executable
	if executable == nil {
		executable = os.Executable
	}

	shell := canonicalShellName(normalizeShellName(shellOverride))
	if shellOverride != "" && !supported(shell) {
		return fmt.Errorf("%w: %s", ErrUnsupportedShell, shellOverride)
	}
	if shell == "" {
		shell = detectShell(parent)
	}

	rpath, err := executable()
	if err != nil || rpath == "" {
		rpath = "rnav"
	}

	_, err = io.WriteString(w, Script(shell, rpath))
	return err
}

// Script returns the integration snippet for shell. Unknown shells get the
// POSIX function.
func Script(shell, rpath string) string {
	quoted := strconv.Quote(rpath)
	switch canonicalShellName(shell) {
	case "fish":
		return fmt.Sprintf(fishScript, quoted, quoted)
	case "pwsh":
		return fmt.Sprintf(pwshScript, quoted, quoted)
	case "tcsh", "csh":
		return fmt.Sprintf("alias rnav 'set rnav_dest = \"`%s --print-dir`\" && if (\"$rnav_dest\" != \"\") cd \"$rnav_dest\"'\n", rpath)
	case "cmd":
		return fmt.Sprintf(cmdScript, quoted, quoted)
	default:
		return fmt.Sprintf(posixScript, quoted, quoted)
	}
}

const posixScript = `rnav() {
    case "$1" in
        setup|config|help|completion|-h|--help|--version)
            command %s "$@"
            return $?
            ;;
    esac

    command %s "$@" &
    rnav_pid=$!
    wait $rnav_pid
    rnav_status=$?

    result_file="${TMPDIR:-/tmp}"
    result_file="${result_file%%/}/rnav_result_$rnav_pid.txt"
    if [ -f "$result_file" ] && [ ! -L "$result_file" ] && [ -O "$result_file" ]; then
        dest=$(cat "$result_file" 2>/dev/null)
        rm -f "$result_file"
        if [ -d "$dest" ] 2>/dev/null; then
            cd "$dest"
        fi
    else
        rm -f "$result_file" 2>/dev/null
    fi
    return $rnav_status
}
`

const fishScript = `function rnav
    switch "$argv[1]"
        case setup config help completion -h --help --version
            command %s $argv
            return $status
    end

    command %s $argv &
    set rnav_pid $last_pid
    wait $rnav_pid

    set tmp /tmp
    if set -q TMPDIR
        set tmp (string trim --right --chars=/ $TMPDIR)
    end
    set result_file "$tmp/rnav_result_$rnav_pid.txt"
    if test -f "$result_file" -a ! -L "$result_file" -a -O "$result_file"
        set dest (cat "$result_file" 2>/dev/null)
        if test -d "$dest" 2>/dev/null
            builtin cd "$dest"
        end
    end
    rm -f "$result_file" 2>/dev/null
end
`

const pwshScript = `function rnav {
    param([Parameter(ValueFromRemainingArguments=$true)][string[]]$Rest)
    if ($Rest.Count -gt 0 -and @('setup','config','help','completion','-h','--help','--version') -contains $Rest[0]) {
        & %s @Rest
        return
    }

    $startArgs = @{ FilePath = %s; NoNewWindow = $true; PassThru = $true }
    if ($Rest.Count -gt 0) { $startArgs.ArgumentList = $Rest }
    $process = Start-Process @startArgs
    $process.WaitForExit()

    $resultFile = Join-Path $env:TEMP "rnav_result_$($process.Id).txt"
    try {
        if (Test-Path $resultFile -PathType Leaf) {
            $dest = Get-Content $resultFile -Raw -ErrorAction SilentlyContinue | ForEach-Object { $_.Trim() }
            if (-not [string]::IsNullOrEmpty($dest) -and (Test-Path $dest -PathType Container)) {
                Set-Location $dest
            }
        }
    } finally {
        Remove-Item $resultFile -ErrorAction SilentlyContinue
    }
}
`

const cmdScript = `:: Save as rnav.cmd and run "call rnav.cmd" from cmd.exe sessions.
@echo off
if "%%~1"=="" (
    for /f "delims=" %%%%d in ('%s --print-dir') do (
        if not "%%%%d"=="" cd /d "%%%%d"
    )
    exit /b 0
) else (
    %s %%*
    exit /b %%errorlevel%%
)
`

func supported(shell string) bool {
	for _, s := range Shells() {
		if s == shell {
			return true
		}
	}
	return false
}

func detectShell(parent ParentShellFunc) string {
	return detectShellInternal(runtime.GOOS, os.Getenv, parent)
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}

	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}

	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell == "cmd" || shell == "pwsh" {
			return shell
		}
		return "pwsh"
	}

	return "bash"
}

func canonicalShellName(name string) string {
	if name == "powershell" {
		return "pwsh"
	}
	return name
}

func normalizeShellName(value string) string {
	value = extractExecutable(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	value = strings.Trim(value, `"'`)
	value = strings.ReplaceAll(value, "\\", "/")
	base := strings.ToLower(path.Base(value))
	base = strings.TrimSuffix(base, ".exe")
	// Login shells report themselves as "-bash".
	base = strings.TrimPrefix(base, "-")
	return strings.TrimSpace(base)
}

func extractExecutable(value string) string {
	if value == "" {
		return ""
	}

	for _, quote := range []string{`"`, `'`} {
		if strings.HasPrefix(value, quote) {
			value = value[1:]
			if idx := strings.Index(value, quote); idx >= 0 {
				return value[:idx]
			}
			return value
		}
	}

	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		return value[:idx]
	}

	return value
}
