package settlement

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &SettleMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

const (
	pathSettleMsg              = "settlement/settle"
	pathUpdateConfigurationMsg = "settlement/update_configuration"
)

var _ weave.Msg = (*SettleMsg)(nil)
var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

func (msg *SettleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Payer", msg.Payer.Validate())
	errs = errors.AppendField(errs, "Target", msg.Target.Validate())
	if msg.Amount == nil {
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	} else if err := msg.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !msg.Amount.IsNonNegative() {
		errs = errors.AppendField(errs, "Amount",
			errors.Wrap(errors.ErrAmount, "must not be negative"))
	}
	if len(msg.TokenID) == 0 {
		errs = errors.AppendField(errs, "TokenID", errors.ErrEmpty)
	}
	// BuySide is deliberately not validated. An invalid rebate recipient
	// is skipped during settlement, it does not reject the message.
	for i, c := range msg.Creators {
		if err := c.Validate(); err != nil {
			errs = errors.AppendField(errs, "Creators", errors.Wrapf(err, "candidate %d", i))
		}
	}
	return errs
}

func (SettleMsg) Path() string {
	return pathSettleMsg
}

func (msg *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	if msg.Patch == nil {
		errs = errors.AppendField(errs, "Patch", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Patch", msg.Patch.Validate())
	}
	return errs
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}
