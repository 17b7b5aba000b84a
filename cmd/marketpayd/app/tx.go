package app

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/x/cash"
	"github.com/iov-one/weave/x/sigs"
)

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ cash.FeeTx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	switch {
	case tx.SendMsg != nil:
		return tx.SendMsg, nil
	case tx.SettleMsg != nil:
		return tx.SettleMsg, nil
	case tx.UpdateConfigurationMsg != nil:
		return tx.UpdateConfigurationMsg, nil
	case tx.CreateRoyaltyMsg != nil:
		return tx.CreateRoyaltyMsg, nil
	case tx.UpdateRoyaltyMsg != nil:
		return tx.UpdateRoyaltyMsg, nil
	}
	return nil, errors.Wrap(errors.ErrState, "transaction without a message")
}

// GetSignBytes returns the bytes to sign. The signatures are temporarily
// unset, the sign bytes must only cover the transaction data itself.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	sig := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	tx.Signatures = sig
	return bz, err
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}
