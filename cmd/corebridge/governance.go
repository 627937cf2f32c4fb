package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wormhole-foundation/corebridge/governance"
)

var governanceCmd = &cobra.Command{
	Use:   "governance <hex-vaa>",
	Short: "Execute a governance VAA against local state",
	Args:  cobra.ExactArgs(1),
	RunE:  runGovernance,
}

func init() {
	rootCmd.AddCommand(governanceCmd)
}

func runGovernance(cmd *cobra.Command, args []string) error {
	data, err := decodeHexArg(args[0])
	if err != nil {
		return err
	}

	b, st, err := openBridge(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	action, err := b.ExecuteGovernanceVAA(data, time.Now())
	if err != nil {
		return err
	}

	switch a := action.(type) {
	case governance.GuardianSetUpdate:
		fmt.Printf("rotated to guardian set %d (%d guardians)\n", a.NewIndex, len(a.Keys))
	case governance.SetMessageFee:
		fmt.Printf("message fee set to %s\n", a.Amount)
	case governance.TransferFees:
		fmt.Printf("fee transfer of %s to %s authorized\n", a.Amount, a.Recipient)
	case governance.ContractUpgrade:
		fmt.Printf("contract upgrade to %s authorized\n", a.NewContract)
	default:
		fmt.Printf("executed governance action %d\n", action.ActionID())
	}

	return nil
}
