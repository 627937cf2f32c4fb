package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current guardian set and message fee",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	b, st, err := openBridge(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	set, err := b.Registry().Current()
	if err != nil {
		return err
	}

	fmt.Printf("guardian set index: %d\n", set.Index)
	fmt.Printf("quorum:             %d of %d\n", set.Quorum(), len(set.Keys))
	for i, k := range set.KeysAsHexStrings() {
		fmt.Printf("  [%2d] %s\n", i, k)
	}
	if set.ExpirationTime != 0 {
		fmt.Printf("expires:            %s\n", time.Unix(int64(set.ExpirationTime), 0)) // #nosec G115
	}

	fee, err := b.MessageFee()
	if err != nil {
		return err
	}
	fmt.Printf("message fee:        %s\n", fee)

	return nil
}
