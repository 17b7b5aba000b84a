package settlement

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
	"github.com/iov-one/weave/x"

	"github.com/iov-one/marketpay/x/royalty"
)

const (
	settleCost           = 0
	settlePerCreatorCost = 0
)

// CashController allows to move coins between accounts without direct
// access to the wallet bucket. Required functionality is implemented by
// the x/cash extension.
type CashController interface {
	MoveCoins(weave.KVStore, weave.Address, weave.Address, coin.Coin) error
}

// RegisterRoutes registers handlers for settlement message processing.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl CashController) {
	r = migration.SchemaMigratingRegistry("settlement", r)
	r.Handle(&SettleMsg{}, &settleHandler{
		auth:      auth,
		ctrl:      ctrl,
		royalties: royalty.NewBucket(),
	})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(
		"settlement", &Configuration{}, auth, migration.CurrentAdmin))
}

type settleHandler struct {
	auth      x.Authenticator
	ctrl      CashController
	royalties orm.ModelBucket
}

var _ weave.Handler = (*settleHandler)(nil)

func (h *settleHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := weave.CheckResult{
		GasAllocated: settleCost + settlePerCreatorCost*int64(len(msg.Creators)),
	}
	return &res, nil
}

func (h *settleHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	tr, err := h.tokenRoyalty(db, msg.TokenID)
	if err != nil {
		return nil, err
	}
	amount, err := coinUnits(*msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "amount")
	}

	plan, err := Distribute(amount, conf, tr, msg.Creators)
	if err != nil {
		return nil, errors.Wrap(err, "distribute")
	}

	// Transfers are issued in a fixed order: creators, buy side rebate,
	// fee collector, target. Zero amounts are not transferred. Any
	// failure aborts the whole transaction delivery, which rolls back
	// the transfers issued so far.
	ticker := msg.Amount.Ticker
	for _, p := range plan.CreatorPayouts {
		if err := h.move(db, msg.Payer, p.Address, p.Amount, ticker); err != nil {
			return nil, errors.Wrap(err, "creator payout")
		}
	}

	collector := plan.FeeCollector
	if len(msg.BuySide) != 0 {
		if err := msg.BuySide.Validate(); err == nil {
			if plan.BuySideFee > 0 {
				if err := h.move(db, msg.Payer, msg.BuySide, plan.BuySideFee, ticker); err != nil {
					return nil, errors.Wrap(err, "buy side rebate")
				}
			}
			collector, err = sub64(collector, plan.BuySideFee)
			if err != nil {
				return nil, errors.Wrap(err, "fee collector")
			}
		}
		// An invalid rebate recipient is not an error. The rebate stays
		// within the fee collector amount instead.
	}

	if collector > 0 {
		if err := h.move(db, msg.Payer, conf.FeeCollector, collector, ticker); err != nil {
			return nil, errors.Wrap(err, "fee collector payout")
		}
	}
	if plan.Target > 0 {
		if err := h.move(db, msg.Payer, msg.Target, plan.Target, ticker); err != nil {
			return nil, errors.Wrap(err, "target payout")
		}
	}
	return &weave.DeliverResult{}, nil
}

func (h *settleHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SettleMsg, error) {
	var msg SettleMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	return &msg, nil
}

// tokenRoyalty returns the royalty record registered for the token or nil
// if no royalty applies.
func (h *settleHandler) tokenRoyalty(db weave.KVStore, tokenID []byte) (*royalty.TokenRoyalty, error) {
	var tr royalty.TokenRoyalty
	switch err := h.royalties.One(db, tokenID, &tr); {
	case err == nil:
		// A stored record that no longer passes validation must not be
		// settled against.
		if err := tr.Validate(); err != nil {
			return nil, errors.Wrap(royalty.ErrInvalidRoyalty, err.Error())
		}
		return &tr, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "royalty record")
	}
}

func (h *settleHandler) move(db weave.KVStore, src, dst weave.Address, amount int64, ticker string) error {
	return h.ctrl.MoveCoins(db, src, dst, unitsCoin(amount, ticker))
}

// coinUnits returns the coin value expressed in indivisible units.
func coinUnits(c coin.Coin) (int64, error) {
	n, err := mul64(c.Whole, coin.FracUnit)
	if err != nil {
		return 0, err
	}
	return add64(n, c.Fractional)
}

// unitsCoin expresses n indivisible units as a coin of the given ticker.
func unitsCoin(n int64, ticker string) coin.Coin {
	return coin.Coin{
		Ticker:     ticker,
		Whole:      n / coin.FracUnit,
		Fractional: n % coin.FracUnit,
	}
}
