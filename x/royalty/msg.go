package royalty

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &CreateMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateMsg{}, migration.NoModification)
}

const (
	pathCreateMsg = "royalty/create"
	pathUpdateMsg = "royalty/update"
)

var _ weave.Msg = (*CreateMsg)(nil)
var _ weave.Msg = (*UpdateMsg)(nil)

func (msg *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	if len(msg.TokenID) == 0 {
		errs = errors.AppendField(errs, "TokenID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Owner", msg.Owner.Validate())
	if msg.SellerFeeBps > 10000 {
		errs = errors.AppendField(errs, "SellerFeeBps",
			errors.Wrap(errors.ErrInput, "must not be greater than the basis point divisor"))
	}
	if err := validateCreators(msg.Creators, errors.ErrMsg); err != nil {
		errs = errors.Append(errs, err)
	}
	return errs
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (msg *UpdateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	if len(msg.TokenID) == 0 {
		errs = errors.AppendField(errs, "TokenID", errors.ErrEmpty)
	}
	if msg.SellerFeeBps > 10000 {
		errs = errors.AppendField(errs, "SellerFeeBps",
			errors.Wrap(errors.ErrInput, "must not be greater than the basis point divisor"))
	}
	if err := validateCreators(msg.Creators, errors.ErrMsg); err != nil {
		errs = errors.Append(errs, err)
	}
	return errs
}

func (UpdateMsg) Path() string {
	return pathUpdateMsg
}
