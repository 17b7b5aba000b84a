package settlement

import (
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &Configuration{}, migration.NoModification)
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "FeeCollector", c.FeeCollector.Validate())
	if c.MakerFeeBps > basisPoints {
		errs = errors.AppendField(errs, "MakerFeeBps",
			errors.Wrap(errors.ErrInput, "must not be greater than the basis point divisor"))
	}
	if c.TakerFeeBps > basisPoints {
		errs = errors.AppendField(errs, "TakerFeeBps",
			errors.Wrap(errors.ErrInput, "must not be greater than the basis point divisor"))
	}
	if c.RoyaltyFeeShareBps > basisPoints {
		errs = errors.AppendField(errs, "RoyaltyFeeShareBps",
			errors.Wrap(errors.ErrInput, "must not be greater than the basis point divisor"))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "settlement", &conf); err != nil {
		return nil, errors.Wrap(err, "gconf")
	}
	return &conf, nil
}
