package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var verifyConsume bool

var verifyCmd = &cobra.Command{
	Use:   "verify <hex-vaa>",
	Short: "Verify a VAA against the stored guardian sets",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyConsume, "consume", false,
		"Record the message hash after verification so it cannot be submitted again")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := decodeHexArg(args[0])
	if err != nil {
		return err
	}

	b, st, err := openBridge(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	now := time.Now()
	if verifyConsume {
		v, err := b.ParseVerifyConsume(data, now)
		if err != nil {
			return err
		}
		fmt.Printf("verified and consumed %s (digest %s)\n", v.MessageID(), v.HexDigest())
		return nil
	}

	v, err := b.ParseAndVerify(data, now)
	if err != nil {
		return err
	}
	fmt.Printf("verified %s (digest %s)\n", v.MessageID(), v.HexDigest())
	return nil
}
