package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kk-code-lab/rnav/internal/shellsetup"
)

var parentShellDetector = shellsetup.DetectParentShellName

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup [SHELL]",
		Short: "Print the shell integration snippet",
		Long: `Print a shell function named rnav that changes into the selected
directory when rnav exits. The shell is detected from $SHELL or the parent
process unless given explicitly.

Supported shells: ` + strings.Join(shellsetup.Shells(), ", ") + `

Examples:
  eval "$(rnav setup)"        # bash, zsh
  rnav setup fish | source`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: shellsetup.Shells(),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := ""
			if len(args) == 1 {
				shell = args[0]
			}
			return shellsetup.PrintSetup(cmd.OutOrStdout(), shell, shellsetup.Config{DetectParent: parentShellDetector})
		},
	}
}
