package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/engine"
	"github.com/tutu-network/amas/internal/store/sqlitestore"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("path", "p", "amas.db", "sqlite database path to read from")
	inspectCmd.Flags().StringP("user", "u", "", "User ID to inspect (required)")
	inspectCmd.MarkFlagRequired("user")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a user's persisted AMAS snapshot",
	Long: `inspect opens a sqlite-backed store and prints the requested
user's full persisted snapshot as indented JSON: cognitive/affective
state, per-item memory, decision-algorithm models, and ensemble trust.`,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	userID, _ := cmd.Flags().GetString("user")

	store, err := sqlitestore.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	blob, err := store.LoadState(context.Background(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return fmt.Errorf("no snapshot found for user %q in %s", userID, path)
		}
		return fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := engine.UnmarshalSnapshot(userID, blob)
	if err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
