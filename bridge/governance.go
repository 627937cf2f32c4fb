package bridge

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wormhole-foundation/corebridge/governance"
	"github.com/wormhole-foundation/corebridge/guardian"
	"github.com/wormhole-foundation/corebridge/vaa"
)

// ExecuteGovernanceVAA verifies a governance VAA and applies its action:
// - signatures must come from the CURRENT guardian set; a stale set is never
//   honored for governance even inside its grace period
// - the emitter must be the reserved governance emitter and chain
// - the payload must carry the core module id and a known action code, and
//   target either all chains (0) or this deployment's chain
// - the message hash is consumed so the action cannot be replayed
//
// All read-only checks run before the first write: a VAA that fails any of
// them leaves no trace, and its hash stays unburned.
func (b *Bridge) ExecuteGovernanceVAA(data []byte, now time.Time) (governance.Action, error) {
	v, err := vaa.Unmarshal(data)
	if err != nil {
		vaasRejected.WithLabelValues("parse").Inc()
		return nil, err
	}

	currentIndex, err := b.registry.CurrentIndex()
	if err != nil {
		return nil, err
	}
	if v.GuardianSetIndex != currentIndex {
		vaasRejected.WithLabelValues("stale_set").Inc()
		return nil, fmt.Errorf("%w: signed by set %d, current is %d", ErrStaleSet, v.GuardianSetIndex, currentIndex)
	}

	set, err := b.registry.Get(currentIndex)
	if err != nil {
		vaasRejected.WithLabelValues("unknown_set").Inc()
		return nil, err
	}
	if err := v.Verify(set.Keys); err != nil {
		vaasRejected.WithLabelValues("signature").Inc()
		return nil, err
	}

	if err := governance.VerifyEmitter(v); err != nil {
		vaasRejected.WithLabelValues("emitter").Inc()
		return nil, err
	}

	envelope, err := governance.ParseEnvelope(v.Payload, b.chainID)
	if err != nil {
		vaasRejected.WithLabelValues("governance").Inc()
		return nil, err
	}
	action, err := envelope.Decode()
	if err != nil {
		vaasRejected.WithLabelValues("governance").Inc()
		return nil, err
	}
	if err := b.precheck(action); err != nil {
		vaasRejected.WithLabelValues("governance").Inc()
		return nil, err
	}

	if err := b.consume(v.SigningDigest()); err != nil {
		return nil, err
	}

	if err := b.apply(action, now); err != nil {
		return nil, err
	}

	governanceExecuted.WithLabelValues(fmt.Sprintf("%d", action.ActionID())).Inc()
	b.logger.Info("governance VAA executed",
		zap.String("message_id", v.MessageID()),
		zap.Uint8("action", uint8(action.ActionID())))

	return action, nil
}

// precheck runs the read-only validation of an action so that a doomed one
// fails before its hash is burned. Stores without transactional rollback
// would otherwise leave the hash consumed with no effect applied.
func (b *Bridge) precheck(action governance.Action) error {
	a, ok := action.(governance.GuardianSetUpdate)
	if !ok {
		return nil
	}

	newSet := guardian.Set{Keys: a.Keys, Index: a.NewIndex}
	if err := newSet.ValidateBasic(); err != nil {
		return err
	}
	currentIndex, err := b.registry.CurrentIndex()
	if err != nil {
		return err
	}
	if a.NewIndex != currentIndex+1 {
		return fmt.Errorf("%w: have %d, got %d", guardian.ErrSetNotSequential, currentIndex, a.NewIndex)
	}
	return nil
}

func (b *Bridge) apply(action governance.Action, now time.Time) error {
	switch a := action.(type) {
	case governance.GuardianSetUpdate:
		newSet := guardian.Set{
			Keys:  a.Keys,
			Index: a.NewIndex,
		}
		if err := b.registry.Rotate(newSet, b.gracePeriod, now); err != nil {
			return err
		}
		b.logger.Info("guardian set rotated",
			zap.Uint32("new_index", a.NewIndex),
			zap.Int("guardians", len(a.Keys)))
		return nil
	case governance.SetMessageFee:
		return b.store.SetMessageFee(a.Amount)
	case governance.TransferFees, governance.ContractUpgrade:
		// Fee custody and code upgrades belong to the embedding
		// environment; the decoded intent is returned to the caller.
		return nil
	default:
		return fmt.Errorf("%w: %d", governance.ErrUnknownAction, action.ActionID())
	}
}
