package royalty

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &TokenRoyalty{}, migration.NoModification)
}

var (
	// ErrInvalidRoyalty is returned when a royalty record does not
	// describe a usable creator split.
	ErrInvalidRoyalty = errors.Register(1210, "invalid royalty record")
)

const (
	// maxCreators bounds the creator list of a single record. Settlement
	// issues one transfer per creator with a nonzero share, a sane limit
	// keeps a single settlement bounded.
	maxCreators = 16

	// shareTotal is the required sum of all creator shares.
	shareTotal = 100
)

var _ orm.CloneableData = (*TokenRoyalty)(nil)

func (t *TokenRoyalty) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", t.Owner.Validate())
	if t.SellerFeeBps > 10000 {
		errs = errors.AppendField(errs, "SellerFeeBps",
			errors.Wrap(errors.ErrInput, "must not be greater than the basis point divisor"))
	}
	if err := validateCreators(t.Creators, ErrInvalidRoyalty); err != nil {
		errs = errors.Append(errs, err)
	}
	return errs
}

// validateCreators returns an error if the given creator list is not a
// valid royalty split. This functionality is shared between the model and
// the messages. Model validation returns a different class of error than
// message validation, that is why the base error class must be given.
func validateCreators(cs []*CreatorShare, baseErr *errors.Error) error {
	switch n := len(cs); {
	case n == 0:
		return errors.Wrap(baseErr, "no creators")
	case n > maxCreators:
		return errors.Wrap(baseErr, "too many creators")
	}

	// Creator addresses must not repeat. A repeated address would not
	// break the split but requiring uniqueness increases configuration
	// clarity.
	addresses := make(map[string]struct{})

	var sum uint32
	for i, c := range cs {
		if c == nil {
			return errors.Wrapf(baseErr, "creator %d is nil", i)
		}
		if c.Share > shareTotal {
			return errors.Wrapf(baseErr, "creator %d share is greater than %d", i, shareTotal)
		}
		sum += c.Share

		if err := c.Address.Validate(); err != nil {
			return errors.Wrapf(err, "creator %d address", i)
		}
		addr := c.Address.String()
		if _, ok := addresses[addr]; ok {
			return errors.Wrapf(baseErr, "address %q is not unique", addr)
		}
		addresses[addr] = struct{}{}
	}
	if sum != shareTotal {
		return errors.Wrapf(baseErr, "creator shares sum to %d, not %d", sum, shareTotal)
	}
	return nil
}

func (t *TokenRoyalty) Copy() orm.CloneableData {
	cpy := &TokenRoyalty{
		Metadata:     t.Metadata.Copy(),
		Owner:        t.Owner.Clone(),
		SellerFeeBps: t.SellerFeeBps,
		Creators:     make([]*CreatorShare, len(t.Creators)),
	}
	for i := range t.Creators {
		cpy.Creators[i] = &CreatorShare{
			Address: t.Creators[i].Address.Clone(),
			Share:   t.Creators[i].Share,
		}
	}
	return cpy
}

// NewBucket returns a bucket for managing token royalty records. Records
// are keyed by the token ID.
func NewBucket() orm.ModelBucket {
	b := orm.NewModelBucket("tokroyal", &TokenRoyalty{})
	return migration.NewModelBucket("royalty", b)
}

// RegisterQuery registers the royalty bucket for querying.
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("tokenroyalties", qr)
}
