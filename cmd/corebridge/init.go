package main

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/wormhole-foundation/corebridge/bridge"
	"github.com/wormhole-foundation/corebridge/devnet"
	"github.com/wormhole-foundation/corebridge/guardian"
)

var (
	initGuardians []string
	initDevnet    int
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap local state with the initial guardian set (index 0)",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringSliceVar(&initGuardians, "guardian", nil,
		"Guardian address (20 byte hex); repeat for each guardian, in set order")
	initCmd.Flags().IntVar(&initDevnet, "devnet", 0,
		"Bootstrap with N deterministic devnet guardians instead of real addresses")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	var initial guardian.Set
	switch {
	case initDevnet > 0:
		initial = devnet.GuardianSet(initDevnet, 0)
	case len(initGuardians) > 0:
		keys := make([]ethcommon.Address, len(initGuardians))
		for i, g := range initGuardians {
			if !ethcommon.IsHexAddress(g) {
				return fmt.Errorf("invalid guardian address: %s", g)
			}
			keys[i] = ethcommon.HexToAddress(g)
		}
		initial = guardian.Set{Keys: keys, Index: 0}
	default:
		return fmt.Errorf("either --guardian or --devnet is required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := bridgeConfig(cmd)
	if err != nil {
		return err
	}

	if _, err := bridge.New(bridge.NewDeployerCap(), st, initial, cfg); err != nil {
		return err
	}

	fmt.Printf("initialized guardian set 0 with %d guardians\n", len(initial.Keys))
	return nil
}
