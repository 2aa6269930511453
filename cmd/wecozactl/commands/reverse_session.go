package commands

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var ReverseSessionCmd = &cobra.Command{
	Use:   "reverse-session <session-id>",
	Short: "Delete a captured session's hours and recompute affected rollups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || sessionID <= 0 {
			return errors.Newf("invalid session id %q", args[0])
		}
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		ids, err := svc.ReverseSession(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "session %d reversed; recomputed tracking ids: %v\n", sessionID, ids)
		return nil
	},
}
