package royalty

import (
	"context"
	"testing"

	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/store"
	"github.com/iov-one/weave/weavetest"
)

func TestRoutes(t *testing.T) {
	ownerCond := weavetest.NewCondition()
	creator := weavetest.NewCondition().Address()
	tokenID := []byte("nft-1")

	rt := app.NewRouter()
	auth := &weavetest.CtxAuth{Key: "auth"}
	RegisterRoutes(rt, auth)

	db := store.MemStore()
	migration.MustInitPkg(db, "royalty")
	ctx := auth.SetConditions(context.Background(), ownerCond)

	createTx := &weavetest.Tx{Msg: &CreateMsg{
		Metadata:     &weave.Metadata{Schema: 1},
		TokenID:      tokenID,
		Owner:        ownerCond.Address(),
		SellerFeeBps: 500,
		Creators: []*CreatorShare{
			{Address: creator, Share: 100},
		},
	}}
	if _, err := rt.Deliver(ctx, db, createTx); err != nil {
		t.Fatalf("cannot deliver a create transaction: %+v", err)
	}

	updateTx := &weavetest.Tx{Msg: &UpdateMsg{
		Metadata:     &weave.Metadata{Schema: 1},
		TokenID:      tokenID,
		SellerFeeBps: 250,
		Creators: []*CreatorShare{
			{Address: creator, Share: 100},
		},
	}}
	if _, err := rt.Deliver(ctx, db, updateTx); err != nil {
		t.Fatalf("cannot deliver an update transaction: %+v", err)
	}

	var stored TokenRoyalty
	if err := NewBucket().One(db, tokenID, &stored); err != nil {
		t.Fatalf("cannot load stored record: %+v", err)
	}
	if stored.SellerFeeBps != 250 {
		t.Fatalf("unexpected seller fee: %d", stored.SellerFeeBps)
	}
}

func TestCreateAndUpdateHandlers(t *testing.T) {
	ownerCond := weavetest.NewCondition()
	owner := ownerCond.Address()
	strangerCond := weavetest.NewCondition()
	creator := weavetest.NewCondition().Address()

	tokenID := []byte("nft-1")

	create := func(owner weave.Address) *CreateMsg {
		return &CreateMsg{
			Metadata:     &weave.Metadata{Schema: 1},
			TokenID:      tokenID,
			Owner:        owner,
			SellerFeeBps: 500,
			Creators: []*CreatorShare{
				{Address: creator, Share: 100},
			},
		}
	}
	update := &UpdateMsg{
		Metadata:     &weave.Metadata{Schema: 1},
		TokenID:      tokenID,
		SellerFeeBps: 250,
		Creators: []*CreatorShare{
			{Address: creator, Share: 100},
		},
	}

	cases := map[string]struct {
		signer   weave.Condition
		existing bool
		msg      weave.Msg
		wantErr  *errors.Error
	}{
		"create a new record": {
			signer: ownerCond,
			msg:    create(owner),
		},
		"create requires the owner signature": {
			signer:  strangerCond,
			msg:     create(owner),
			wantErr: errors.ErrUnauthorized,
		},
		"create rejects a duplicate": {
			signer:   ownerCond,
			existing: true,
			msg:      create(owner),
			wantErr:  errors.ErrDuplicate,
		},
		"update an existing record": {
			signer:   ownerCond,
			existing: true,
			msg:      update,
		},
		"update requires the record owner signature": {
			signer:   strangerCond,
			existing: true,
			msg:      update,
			wantErr:  errors.ErrUnauthorized,
		},
		"update of a missing record": {
			signer:  ownerCond,
			msg:     update,
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "royalty")

			bucket := NewBucket()
			if tc.existing {
				_, err := bucket.Put(db, tokenID, &TokenRoyalty{
					Metadata:     &weave.Metadata{Schema: 1},
					Owner:        owner,
					SellerFeeBps: 500,
					Creators: []*CreatorShare{
						{Address: creator, Share: 100},
					},
				})
				if err != nil {
					t.Fatalf("cannot store royalty record: %+v", err)
				}
			}

			auth := &weavetest.Auth{Signer: tc.signer}
			var h weave.Handler
			switch tc.msg.(type) {
			case *CreateMsg:
				h = &createHandler{auth: auth, bucket: bucket}
			case *UpdateMsg:
				h = &updateHandler{auth: auth, bucket: bucket}
			default:
				t.Fatalf("unsupported message type %T", tc.msg)
			}
			tx := &weavetest.Tx{Msg: tc.msg}

			if _, err := h.Check(context.Background(), db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("check: want %q error, got %+v", tc.wantErr, err)
			}
			if _, err := h.Deliver(context.Background(), db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("deliver: want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}

			var stored TokenRoyalty
			if err := bucket.One(db, tokenID, &stored); err != nil {
				t.Fatalf("cannot load stored record: %+v", err)
			}
			if !stored.Owner.Equals(owner) {
				t.Fatalf("unexpected owner: %s", stored.Owner)
			}
			switch msg := tc.msg.(type) {
			case *CreateMsg:
				if stored.SellerFeeBps != msg.SellerFeeBps {
					t.Fatalf("unexpected seller fee: %d", stored.SellerFeeBps)
				}
			case *UpdateMsg:
				if stored.SellerFeeBps != msg.SellerFeeBps {
					t.Fatalf("unexpected seller fee: %d", stored.SellerFeeBps)
				}
			}
		})
	}
}
