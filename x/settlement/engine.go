package settlement

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"

	"github.com/iov-one/marketpay/x/royalty"
)

const (
	// basisPoints is the divisor for all basis point values.
	basisPoints = 10000

	// DefaultRoyaltyFeeShareBps is the share of the maker and taker fees
	// forwarded to the creators when the configuration does not declare
	// one.
	DefaultRoyaltyFeeShareBps = 5000

	// DefaultBuySideFeeShareBps is the buy side rebate share of the
	// payment amount. This is a protocol wide constant and is not part
	// of the configuration.
	DefaultBuySideFeeShareBps = 100
)

// Plan is the itemized result of splitting one payment. All amounts are
// indivisible units. A plan describes intent only, no funds were moved to
// produce it.
type Plan struct {
	// CreatorPayouts are ordered as the royalty record creators, with
	// zero amounts dropped.
	CreatorPayouts []CreatorPayout
	// BuySideFee is always computed, regardless of whether the rebate is
	// paid out.
	BuySideFee int64
	// FeeCollector includes the buy side fee. When the rebate is paid,
	// BuySideFee must be subtracted from this amount.
	FeeCollector int64
	Target       int64
	TakerFee     int64
}

// CreatorPayout is a single creator entitlement within a Plan.
type CreatorPayout struct {
	Address weave.Address
	Amount  int64
}

// Distribute computes how a payment of the given amount is split according
// to the fee configuration and an optional royalty record. A nil royalty
// record means no royalty applies. Candidates are the caller supplied
// payout addresses for the creators with a nonzero share, in creator list
// order.
//
// Distribute is a pure function. It fails on the first arithmetic
// inconsistency and never returns a partial plan.
func Distribute(amount int64, conf *Configuration, tr *royalty.TokenRoyalty, candidates []weave.Address) (*Plan, error) {
	if amount < 0 {
		return nil, errors.Wrap(errors.ErrAmount, "negative amount")
	}

	makerFee, err := bpsOf(amount, int64(conf.MakerFeeBps))
	if err != nil {
		return nil, errors.Wrap(err, "maker fee")
	}
	takerFee, err := bpsOf(amount, int64(conf.TakerFeeBps))
	if err != nil {
		return nil, errors.Wrap(err, "taker fee")
	}
	totalFees, err := add64(makerFee, takerFee)
	if err != nil {
		return nil, errors.Wrap(err, "total fees")
	}

	var (
		payouts  []CreatorPayout
		feesPaid int64
	)
	if tr != nil {
		var sellerFee int64
		if conf.IncludeSellerFee {
			sellerFee, err = bpsOf(amount, int64(tr.SellerFeeBps))
			if err != nil {
				return nil, errors.Wrap(err, "seller fee")
			}
		}
		royaltyShare := int64(conf.RoyaltyFeeShareBps)
		if royaltyShare == 0 {
			royaltyShare = DefaultRoyaltyFeeShareBps
		}
		totalCreatorFee, err := bpsOf(totalFees, royaltyShare)
		if err != nil {
			return nil, errors.Wrap(err, "creator fee")
		}
		totalCreatorFee, err = add64(totalCreatorFee, sellerFee)
		if err != nil {
			return nil, errors.Wrap(err, "creator fee")
		}
		totalFees, err = add64(totalFees, sellerFee)
		if err != nil {
			return nil, errors.Wrap(err, "total fees")
		}

		payouts, feesPaid, err = apportion(totalCreatorFee, tr.Creators, candidates)
		if err != nil {
			return nil, err
		}
	} else if len(candidates) != 0 {
		return nil, errors.Wrap(errors.ErrMsg, "payout candidates for a token without a royalty record")
	}

	buySideFee, err := bpsOf(amount, DefaultBuySideFeeShareBps)
	if err != nil {
		return nil, errors.Wrap(err, "buy side fee")
	}
	collector, err := add64(totalFees, buySideFee)
	if err != nil {
		return nil, errors.Wrap(err, "fee collector")
	}
	collector, err = sub64(collector, feesPaid)
	if err != nil {
		return nil, errors.Wrap(err, "fee collector")
	}

	target, err := add64(amount, takerFee)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}
	target, err = sub64(target, totalFees)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}
	target, err = sub64(target, buySideFee)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}

	return &Plan{
		CreatorPayouts: payouts,
		BuySideFee:     buySideFee,
		FeeCollector:   collector,
		Target:         target,
		TakerFee:       takerFee,
	}, nil
}

// apportion splits the total creator fee between the creators according to
// their integer shares. Returned payouts drop zero amounts. The second
// return value is the sum of all payouts.
//
// The truncation remainder is derived from a single aggregate estimate and
// handed out one unit at a time in creator list order until exhausted.
// Truncation loss beyond that estimate is not recovered here, it stays
// within the total fees and ends up with the fee collector. The payout
// amounts of this two pass split are observable protocol behavior and must
// not be replaced by an exact proportional split.
func apportion(total int64, creators []*royalty.CreatorShare, candidates []weave.Address) ([]CreatorPayout, int64, error) {
	if len(creators) == 0 {
		if len(candidates) != 0 {
			return nil, 0, errors.Wrap(errors.ErrMsg, "payout candidates for a royalty record without creators")
		}
		return nil, 0, nil
	}

	var nonzero int
	for _, c := range creators {
		if c.Share != 0 {
			nonzero++
		}
	}
	switch n := len(candidates); {
	case n < nonzero:
		return nil, 0, errors.Wrapf(ErrMissingRecipient, "%d candidates for %d creators", n, nonzero)
	case n > nonzero:
		return nil, 0, errors.Wrapf(errors.ErrMsg, "%d candidates for %d creators", n, nonzero)
	}

	var sum int64
	for _, c := range creators {
		a, err := mul64(total, int64(c.Share))
		if err != nil {
			return nil, 0, errors.Wrap(err, "share amount")
		}
		sum, err = add64(sum, a)
		if err != nil {
			return nil, 0, errors.Wrap(err, "share amount sum")
		}
	}
	// Shares summing to more than 100 fail this subtraction.
	remainder, err := sub64(total, sum/100)
	if err != nil {
		return nil, 0, errors.Wrap(err, "remainder")
	}

	var (
		payouts []CreatorPayout
		paid    int64
		next    int
	)
	for _, c := range creators {
		if c.Share == 0 {
			// No payout and no candidate slot consumed.
			continue
		}
		addr := candidates[next]
		next++
		if !addr.Equals(c.Address) {
			return nil, 0, errors.Wrapf(ErrInvalidRecipient, "candidate %d", next-1)
		}

		var indicator int64
		if remainder > 0 {
			indicator = 1
		}
		p, err := mul64(total, int64(c.Share))
		if err != nil {
			return nil, 0, errors.Wrap(err, "payout")
		}
		p, err = add64(p/100, indicator)
		if err != nil {
			return nil, 0, errors.Wrap(err, "payout")
		}
		remainder -= indicator

		if p > 0 {
			paid, err = add64(paid, p)
			if err != nil {
				return nil, 0, errors.Wrap(err, "fees paid")
			}
			payouts = append(payouts, CreatorPayout{Address: addr, Amount: p})
		}
	}
	return payouts, paid, nil
}

// bpsOf returns amount*bps/basisPoints using checked arithmetic.
func bpsOf(amount int64, bps int64) (int64, error) {
	n, err := mul64(amount, bps)
	if err != nil {
		return 0, err
	}
	return n / basisPoints, nil
}

// mul64 multiplies two non negative int64 numbers. If the result overflows
// the int64 size the ErrOverflow is returned.
func mul64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/a != b {
		return c, errors.ErrOverflow
	}
	return c, nil
}

// add64 adds two non negative int64 numbers. If the result overflows the
// int64 size the ErrOverflow is returned.
func add64(a, b int64) (int64, error) {
	c := a + b
	if c < a {
		return c, errors.ErrOverflow
	}
	return c, nil
}

// sub64 subtracts b from a. A negative result is ErrUnderflow.
func sub64(a, b int64) (int64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}
