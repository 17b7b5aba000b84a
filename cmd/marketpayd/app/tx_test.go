package app

import (
	"testing"

	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/x/cash"
	"github.com/iov-one/weave/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/marketpay/x/settlement"
)

func TestTxGetMsg(t *testing.T) {
	msg := &settlement.SettleMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Payer:    weavetest.NewCondition().Address(),
		Target:   weavetest.NewCondition().Address(),
		Amount:   coin.NewCoinp(0, 1000000, "IOV"),
		TokenID:  []byte("nft-1"),
	}
	tx := &Tx{SettleMsg: msg}

	got, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, weave.Msg(msg), got)

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrState.Is(err))
}

func TestTxFeesAndSignatures(t *testing.T) {
	payer := weavetest.NewCondition().Address()
	fee := coin.NewCoinp(0, 100, "IOV")
	sig := &sigs.StdSignature{Sequence: 1}
	tx := &Tx{
		Fees:       &cash.FeeInfo{Payer: payer, Fees: fee},
		Signatures: []*sigs.StdSignature{sig},
	}

	// the cash and sigs decorators read the transaction through
	// these accessors
	var _ cash.FeeTx = tx
	var _ sigs.SignedTx = tx
	assert.Equal(t, fee, tx.GetFees().GetFees())
	assert.Equal(t, payer, tx.GetFees().GetPayer())
	assert.Equal(t, []*sigs.StdSignature{sig}, tx.GetSignatures())

	var nilTx *Tx
	assert.Nil(t, nilTx.GetFees())
	assert.Nil(t, nilTx.GetSignatures())
}

func TestTxSignBytesExcludeSignatures(t *testing.T) {
	msg := &settlement.SettleMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Payer:    weavetest.NewCondition().Address(),
		Target:   weavetest.NewCondition().Address(),
		Amount:   coin.NewCoinp(0, 1000000, "IOV"),
		TokenID:  []byte("nft-1"),
	}

	unsigned := &Tx{SettleMsg: msg}
	want, err := unsigned.Marshal()
	require.NoError(t, err)

	signed := &Tx{
		SettleMsg:  msg,
		Signatures: []*sigs.StdSignature{{Sequence: 1}},
	}
	bz, err := signed.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, want, bz)
	// signatures must be restored afterwards
	require.Len(t, signed.Signatures, 1)
}

func TestTxDecoder(t *testing.T) {
	tx := &Tx{
		SettleMsg: &settlement.SettleMsg{
			Metadata: &weave.Metadata{Schema: 1},
			Payer:    weavetest.NewCondition().Address(),
			Target:   weavetest.NewCondition().Address(),
			Amount:   coin.NewCoinp(0, 1000000, "IOV"),
			TokenID:  []byte("nft-1"),
		},
	}
	bz, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := TxDecoder(bz)
	require.NoError(t, err)
	msg, err := decoded.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, tx.SettleMsg, msg)
}
