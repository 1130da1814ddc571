package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flowdo/backend"
	"flowdo/internal/store"
	"flowdo/internal/utils"
)

// newResetCmd creates the 'reset' subcommand
func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored tasks, projects, labels and filters",
		Long:  "Remove the saved snapshot, and any unreadable copy set aside next to it, from the configured backend. The next command starts with an empty Inbox.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.interactive() {
				question := fmt.Sprintf("Delete everything stored under %q?", a.settings.StorageKey)
				if !utils.PromptYesNoWithReader(question, a.stdin(), a.stdout) {
					_, _ = fmt.Fprintln(a.stdout, "Cancelled")
					return nil
				}
			}

			name, location := a.settings.BackendLocation()
			slot, err := backend.Open(name, location)
			if err != nil {
				return err
			}
			defer func() { _ = slot.Close() }()

			ctx := context.Background()
			key := a.settings.StorageKey
			for _, k := range []string{key, key + store.CorruptSuffix} {
				if err := slot.Delete(ctx, k); err != nil {
					return fmt.Errorf("failed to delete %q: %w", k, err)
				}
			}
			utils.Debugf("Deleted slot %q from %s backend", key, name)

			return a.report("reset", map[string]string{"key": key, "backend": name},
				"Deleted all data under %q", key)
		},
	}
}
