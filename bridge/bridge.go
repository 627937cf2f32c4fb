// Package bridge composes the core-bridge receiver pipeline: codec,
// guardian set registry, signature verification, replay protection and
// governance execution, over an explicit persistence backend.
package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/wormhole-foundation/corebridge/guardian"
	"github.com/wormhole-foundation/corebridge/vaa"
)

var (
	ErrSetExpired      = errors.New("guardian set expired")
	ErrStaleSet        = errors.New("governance VAA must be signed by the current guardian set")
	ErrAlreadyExecuted = errors.New("VAA was already executed")
	ErrDeployerCapUsed = errors.New("deployer capability already consumed")
)

// DefaultGracePeriod is how long a superseded guardian set keeps verifying
// VAAs. Matches the 24 hour expiry the on-chain core contracts use.
const DefaultGracePeriod = 24 * time.Hour

// Store is the persistence surface the bridge mutates. Implementations own
// the atomicity of each call; the bridge orders its calls so that a failed
// operation never leaves a consumed hash without its state effect.
type Store interface {
	guardian.Storage

	IsConsumed(hash common.Hash) (bool, error)
	MarkConsumed(hash common.Hash) error

	MessageFee() (*uint256.Int, error)
	SetMessageFee(fee *uint256.Int) error
}

// DeployerCap is a one-shot token authorizing bridge initialization. It
// stands in for the deployer capability object of the on-chain environments:
// whoever holds it may bootstrap state exactly once.
type DeployerCap struct {
	used bool
}

func NewDeployerCap() *DeployerCap {
	return &DeployerCap{}
}

func (c *DeployerCap) consume() error {
	if c.used {
		return ErrDeployerCapUsed
	}
	c.used = true
	return nil
}

type Config struct {
	// ChainID identifies the chain this deployment acts for; chain-scoped
	// governance actions must target it.
	ChainID vaa.ChainID
	// GracePeriod applied to superseded guardian sets. Defaults to
	// DefaultGracePeriod when zero.
	GracePeriod time.Duration
	Logger      *zap.Logger
}

// Bridge is one deployment's verification state. All mutable state lives in
// the Store; the Bridge itself holds only configuration and is safe to
// recreate at any time.
type Bridge struct {
	store       Store
	registry    *guardian.Registry
	chainID     vaa.ChainID
	gracePeriod time.Duration
	logger      *zap.Logger
}

// New bootstraps a fresh deployment with its initial guardian set. The
// deployer capability is consumed; a second call with the same capability
// fails.
func New(deployer *DeployerCap, st Store, initial guardian.Set, cfg Config) (*Bridge, error) {
	if err := deployer.consume(); err != nil {
		return nil, err
	}

	b := newBridge(st, cfg)
	if err := b.registry.Bootstrap(initial); err != nil {
		return nil, err
	}

	b.logger.Info("bridge initialized",
		zap.Uint32("guardian_set_index", initial.Index),
		zap.Int("guardians", len(initial.Keys)),
		zap.String("chain", b.chainID.String()))

	return b, nil
}

// Open attaches to already-bootstrapped state.
func Open(st Store, cfg Config) (*Bridge, error) {
	b := newBridge(st, cfg)
	if _, err := b.registry.CurrentIndex(); err != nil {
		return nil, err
	}
	return b, nil
}

func newBridge(st Store, cfg Config) *Bridge {
	if cfg.GracePeriod == 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Bridge{
		store:       st,
		registry:    guardian.NewRegistry(st),
		chainID:     cfg.ChainID,
		gracePeriod: cfg.GracePeriod,
		logger:      cfg.Logger,
	}
}

// Registry exposes the guardian set registry for read access.
func (b *Bridge) Registry() *guardian.Registry {
	return b.registry
}

// MessageFee returns the currently configured message fee.
func (b *Bridge) MessageFee() (*uint256.Int, error) {
	return b.store.MessageFee()
}

// IsConsumed reports whether a message hash has already been acted upon.
func (b *Bridge) IsConsumed(hash common.Hash) (bool, error) {
	return b.store.IsConsumed(hash)
}

// ParseAndVerify parses the raw bytes and verifies the signatures against
// the guardian set the VAA names, which must still be active at `now`.
// It performs no writes; the caller decides whether to consume.
func (b *Bridge) ParseAndVerify(data []byte, now time.Time) (*vaa.VAA, error) {
	v, err := vaa.Unmarshal(data)
	if err != nil {
		vaasRejected.WithLabelValues("parse").Inc()
		return nil, err
	}

	set, err := b.registry.Get(v.GuardianSetIndex)
	if err != nil {
		vaasRejected.WithLabelValues("unknown_set").Inc()
		return nil, err
	}
	if !set.IsActive(now) {
		vaasRejected.WithLabelValues("expired_set").Inc()
		return nil, fmt.Errorf("%w: index %d", ErrSetExpired, set.Index)
	}

	if err := v.Verify(set.Keys); err != nil {
		vaasRejected.WithLabelValues("signature").Inc()
		return nil, err
	}

	vaasVerified.Inc()
	b.logger.Debug("VAA verified",
		zap.String("message_id", v.MessageID()),
		zap.Uint32("guardian_set_index", v.GuardianSetIndex),
		zap.Int("signatures", len(v.Signatures)))

	return v, nil
}

// ParseVerifyConsume is ParseAndVerify followed by replay protection: the
// message hash is recorded and any later submission of the same body fails
// with ErrAlreadyExecuted. The hash is only ever consumed after the
// signatures check out, so an attacker cannot burn a hash with a forgery.
func (b *Bridge) ParseVerifyConsume(data []byte, now time.Time) (*vaa.VAA, error) {
	v, err := b.ParseAndVerify(data, now)
	if err != nil {
		return nil, err
	}

	if err := b.consume(v.SigningDigest()); err != nil {
		return nil, err
	}

	return v, nil
}

func (b *Bridge) consume(hash common.Hash) error {
	known, err := b.store.IsConsumed(hash)
	if err != nil {
		return err
	}
	if known {
		vaasRejected.WithLabelValues("replay").Inc()
		return fmt.Errorf("%w: %s", ErrAlreadyExecuted, hash.Hex())
	}
	return b.store.MarkConsumed(hash)
}
