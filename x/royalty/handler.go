package royalty

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
	"github.com/iov-one/weave/x"
)

const (
	createCost = 0
	updateCost = 0
)

// RegisterRoutes registers handlers for royalty message processing.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("royalty", r)
	bucket := NewBucket()
	r.Handle(&CreateMsg{}, &createHandler{
		auth:   auth,
		bucket: bucket,
	})
	r.Handle(&UpdateMsg{}, &updateHandler{
		auth:   auth,
		bucket: bucket,
	})
}

type createHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ weave.Handler = (*createHandler)(nil)

func (h *createHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createCost}, nil
}

func (h *createHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	_, err = h.bucket.Put(db, msg.TokenID, &TokenRoyalty{
		Metadata:     &weave.Metadata{Schema: 1},
		Owner:        msg.Owner,
		SellerFeeBps: msg.SellerFeeBps,
		Creators:     msg.Creators,
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot store royalty record")
	}
	return &weave.DeliverResult{Data: msg.TokenID}, nil
}

func (h *createHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	switch err := h.bucket.Has(db, msg.TokenID); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrDuplicate, "token already has a royalty record")
	case errors.ErrNotFound.Is(err):
		// All good, the record does not exist yet.
	default:
		return nil, errors.Wrap(err, "royalty record")
	}
	return &msg, nil
}

type updateHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ weave.Handler = (*updateHandler)(nil)

func (h *updateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: updateCost}, nil
}

func (h *updateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, tr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tr.SellerFeeBps = msg.SellerFeeBps
	tr.Creators = msg.Creators
	if _, err := h.bucket.Put(db, msg.TokenID, tr); err != nil {
		return nil, errors.Wrap(err, "cannot store royalty record")
	}
	return &weave.DeliverResult{}, nil
}

func (h *updateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UpdateMsg, *TokenRoyalty, error) {
	var msg UpdateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var tr TokenRoyalty
	if err := h.bucket.One(db, msg.TokenID, &tr); err != nil {
		return nil, nil, errors.Wrap(err, "royalty record")
	}
	if !h.auth.HasAddress(ctx, tr.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return &msg, &tr, nil
}
