package main

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/mattjoyce/mp3edit/internal/tui/browser"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [dir]",
		Short: "Browse a directory and edit tags from a terminal UI",
		Long: `Browse a directory. ctrl+e or ":mp3edit" launches the tag editor in the
shown directory; "m" opens the context menu for the selected entry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(a.stdout); err != nil {
				return err
			}

			dir := a.cwd
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			dir, err := homedir.Expand(dir)
			if err != nil {
				return err
			}
			dir, err = filepath.Abs(dir)
			if err != nil {
				return err
			}

			return browser.Run(a.proc, a.regs, dir)
		},
	}
}
