package settlement

import (
	"testing"

	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/weavetest/assert"
)

func TestSettleMsgValidate(t *testing.T) {
	addr := weavetest.NewCondition().Address()

	valid := func() *SettleMsg {
		return &SettleMsg{
			Metadata: &weave.Metadata{Schema: 1},
			Payer:    weavetest.NewCondition().Address(),
			Target:   addr,
			Amount:   coin.NewCoinp(1, 0, "IOV"),
			TokenID:  []byte("nft-1"),
		}
	}

	t.Run("valid message", func(t *testing.T) {
		assert.Nil(t, valid().Validate())
	})

	t.Run("invalid buy side recipient is allowed", func(t *testing.T) {
		// A broken rebate recipient is skipped during settlement
		// instead of rejecting the message.
		msg := valid()
		msg.BuySide = weave.Address("too-short")
		assert.Nil(t, msg.Validate())
	})

	t.Run("token ID is required", func(t *testing.T) {
		msg := valid()
		msg.TokenID = nil
		assert.FieldError(t, msg.Validate(), "TokenID", errors.ErrEmpty)
	})

	t.Run("amount is required", func(t *testing.T) {
		msg := valid()
		msg.Amount = nil
		assert.FieldError(t, msg.Validate(), "Amount", errors.ErrEmpty)
	})

	t.Run("amount must not be negative", func(t *testing.T) {
		msg := valid()
		msg.Amount = coin.NewCoinp(-1, 0, "IOV")
		assert.FieldError(t, msg.Validate(), "Amount", errors.ErrAmount)
	})

	t.Run("payer address must be valid", func(t *testing.T) {
		msg := valid()
		msg.Payer = weave.Address("x")
		assert.FieldError(t, msg.Validate(), "Payer", errors.ErrInput)
	})

	t.Run("creator candidates must be valid addresses", func(t *testing.T) {
		msg := valid()
		msg.Creators = []weave.Address{weave.Address("x")}
		if err := msg.Validate(); err == nil {
			t.Fatal("want an error")
		}
	})
}

func TestConfigurationValidate(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	collector := weavetest.NewCondition().Address()

	valid := func() *Configuration {
		return &Configuration{
			Metadata:           &weave.Metadata{Schema: 1},
			Owner:              owner,
			FeeCollector:       collector,
			MakerFeeBps:        50,
			TakerFeeBps:        100,
			RoyaltyFeeShareBps: 5000,
		}
	}

	t.Run("valid configuration", func(t *testing.T) {
		assert.Nil(t, valid().Validate())
	})

	t.Run("fee collector is required", func(t *testing.T) {
		conf := valid()
		conf.FeeCollector = nil
		assert.FieldError(t, conf.Validate(), "FeeCollector", errors.ErrEmpty)
	})

	t.Run("maker fee is bound by the basis point divisor", func(t *testing.T) {
		conf := valid()
		conf.MakerFeeBps = 10001
		assert.FieldError(t, conf.Validate(), "MakerFeeBps", errors.ErrInput)
	})

	t.Run("royalty fee share is bound by the basis point divisor", func(t *testing.T) {
		conf := valid()
		conf.RoyaltyFeeShareBps = 10001
		assert.FieldError(t, conf.Validate(), "RoyaltyFeeShareBps", errors.ErrInput)
	})
}
