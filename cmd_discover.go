package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"InfiniteBoard/internal/net"
)

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List boards advertised on the local network",
	RunE: func(cmd *cobra.Command, args []string) error {
		var found atomic.Int32
		err := net.Browse(cmd.Context(), discoverTimeout, func(s net.Service) {
			found.Add(1)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\thttp://%s/\n", s.Instance, s.Addr)
		})
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}
		if found.Load() == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no boards found")
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 3*time.Second, "how long to listen for answers")
	rootCmd.AddCommand(discoverCmd)
}
