package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"appinst/pkg/config"
	"appinst/pkg/installer"
)

// action runs a handler and keeps its result for the caller of Execute.
type action func(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error)

// NewRootCommand builds the command tree. The result of the handler that
// ran is stored in *result.
func NewRootCommand(m *Managers, result **ExecutionResult) *cobra.Command {
	flags := &GlobalFlags{}

	wrap := func(a action) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			res, err := a(cmd.Context(), m, args)
			if err != nil {
				return err
			}
			*result = res
			return nil
		}
	}

	root := &cobra.Command{
		Use:           "appinst",
		Short:         "Download, verify and unpack application installers",
		Version:       config.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyGlobalFlags(m, flags)
		},
	}
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "show verbose output and debug logs")
	root.PersistentFlags().StringVar(&flags.Style, "style", "", "progress style: accent, rainbow, retro or novt")

	hashCmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Print the SHA-256 of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  wrap(runHash),
	}

	req := &installer.Request{}
	installCmd := &cobra.Command{
		Use:   "install <url>",
		Short: "Download an installer, verify it and unpack it",
		Args:  cobra.ExactArgs(1),
		RunE: wrap(func(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
			req.URL = args[0]
			return runInstall(ctx, m, req)
		}),
	}
	installCmd.Flags().StringVar(&req.SHA256, "sha256", "", "expected SHA-256 of the download")
	installCmd.Flags().BoolVar(&req.Force, "force", false, "continue when the hash does not match")
	installCmd.Flags().StringVar(&req.Name, "name", "", "name to install under")

	completeCmd := &cobra.Command{
		Use:    "complete [prefix]",
		Short:  "Print commands starting with prefix, for shell completion",
		Args:   cobra.MaximumNArgs(1),
		Hidden: true,
		RunE: wrap(func(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return runComplete(m, commandNames(root), prefix)
		}),
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the settings in effect",
		Args:  cobra.NoArgs,
		RunE:  wrap(runSettings),
	}
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set-style <style>",
		Short: "Store the preferred progress style",
		Args:  cobra.ExactArgs(1),
		RunE:  wrap(runSetStyle),
	})

	var assumeYes bool
	diskCmd := &cobra.Command{
		Use:   "disk",
		Short: "Show how much space downloads and packages use",
		Args:  cobra.NoArgs,
		RunE:  wrap(runDiskInfo),
	}
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached downloads and unpacked packages",
		Args:  cobra.NoArgs,
		RunE: wrap(func(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
			return runDiskClean(ctx, m, assumeYes)
		}),
	}
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	diskCmd.AddCommand(cleanCmd)

	root.AddCommand(hashCmd, installCmd, completeCmd, settingsCmd, diskCmd)
	return root
}

// commandNames lists the visible subcommands of root.
func commandNames(root *cobra.Command) []string {
	var names []string
	for _, c := range root.Commands() {
		if c.Hidden || !c.IsAvailableCommand() {
			continue
		}
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

func filterPrefix(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
