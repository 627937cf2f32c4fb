package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wormhole-foundation/corebridge/bridge"
	"github.com/wormhole-foundation/corebridge/store"
	"github.com/wormhole-foundation/corebridge/vaa"
)

var rootCmd = &cobra.Command{
	Use:   "corebridge",
	Short: "Verify Wormhole VAAs and manage local guardian set state",
}

func init() {
	rootCmd.PersistentFlags().String(
		"state",
		"corebridge.db",
		"Directory holding the bridge state database")

	rootCmd.PersistentFlags().String(
		"chain",
		"ethereum",
		"Chain this deployment acts for (chain-scoped governance must target it)")

	rootCmd.PersistentFlags().Bool(
		"debug",
		false,
		"Enables debug output.")

	rootCmd.PersistentFlags().Bool(
		"json",
		false,
		"Enables structured logging in JSON format.")

	// Bind flags to viper for env variable support
	viper.SetEnvPrefix("corebridge")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("state", rootCmd.PersistentFlags().Lookup("state"))
	_ = viper.BindPFlag("chain", rootCmd.PersistentFlags().Lookup("chain"))
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if jsonOut {
		cfg = zap.NewProductionConfig()
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func bridgeConfig(cmd *cobra.Command) (bridge.Config, error) {
	chainID, err := vaa.ChainIDFromString(viper.GetString("chain"))
	if err != nil {
		return bridge.Config{}, err
	}
	return bridge.Config{
		ChainID: chainID,
		Logger:  newLogger(cmd),
	}, nil
}

func openStore() (*store.BadgerStore, error) {
	return store.Open(viper.GetString("state"))
}

func openBridge(cmd *cobra.Command) (*bridge.Bridge, *store.BadgerStore, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := bridgeConfig(cmd)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	b, err := bridge.Open(st, cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return b, st, nil
}

func decodeHexArg(arg string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(arg, "0x"))
	if err != nil {
		return nil, fmt.Errorf("argument is not valid hex: %w", err)
	}
	return data, nil
}
