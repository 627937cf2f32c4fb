package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wormhole-foundation/corebridge/vaa"
)

var parseCmd = &cobra.Command{
	Use:   "parse <hex-vaa>",
	Short: "Decode a VAA and print its header, body and signing digest",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := decodeHexArg(args[0])
	if err != nil {
		return err
	}

	v, err := vaa.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to parse VAA: %w", err)
	}

	fmt.Printf("Version:           %d\n", v.Version)
	fmt.Printf("GuardianSetIndex:  %d\n", v.GuardianSetIndex)
	fmt.Printf("Signatures:        %d\n", len(v.Signatures))
	for _, sig := range v.Signatures {
		fmt.Printf("  [%2d] %s\n", sig.Index, sig.Signature)
	}
	fmt.Printf("Timestamp:         %s\n", v.Timestamp)
	fmt.Printf("Nonce:             %d\n", v.Nonce)
	fmt.Printf("EmitterChain:      %s\n", v.EmitterChain)
	fmt.Printf("EmitterAddress:    %s\n", v.EmitterAddress)
	fmt.Printf("Sequence:          %d\n", v.Sequence)
	fmt.Printf("ConsistencyLevel:  %d\n", v.ConsistencyLevel)
	fmt.Printf("Payload:           %x\n", v.Payload)
	fmt.Printf("Digest:            %s\n", v.HexDigest())

	if vaa.IsTransfer(v.Payload) {
		hdr, err := vaa.DecodeTransferPayloadHdr(v.Payload)
		if err == nil {
			fmt.Printf("Transfer:          %s %s (chain %s) -> %s (chain %s)\n",
				hdr.Amount, hdr.OriginAddress, hdr.OriginChain, hdr.TargetAddress, hdr.TargetChain)
		}
	}

	return nil
}
