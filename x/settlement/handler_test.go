package settlement

import (
	"context"
	"reflect"
	"testing"

	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/store"
	"github.com/iov-one/weave/weavetest"

	"github.com/iov-one/marketpay/x/royalty"
)

func TestSettleHandler(t *testing.T) {
	payerCond := weavetest.NewCondition()
	payer := payerCond.Address()
	owner := weavetest.NewCondition().Address()
	target := weavetest.NewCondition().Address()
	collector := weavetest.NewCondition().Address()
	buySide := weavetest.NewCondition().Address()
	creatorA := weavetest.NewCondition().Address()
	creatorB := weavetest.NewCondition().Address()

	tokenID := []byte("nft-1")

	conf := Configuration{
		Metadata:           &weave.Metadata{Schema: 1},
		Owner:              owner,
		FeeCollector:       collector,
		MakerFeeBps:        50,
		TakerFeeBps:        100,
		RoyaltyFeeShareBps: 5000,
		IncludeSellerFee:   true,
	}
	tokenRoyalty := royalty.TokenRoyalty{
		Metadata:     &weave.Metadata{Schema: 1},
		Owner:        owner,
		SellerFeeBps: 500,
		Creators: []*royalty.CreatorShare{
			{Address: creatorA, Share: 60},
			{Address: creatorB, Share: 40},
		},
	}

	cases := map[string]struct {
		msg       *SettleMsg
		noConf    bool
		royalty   *royalty.TokenRoyalty
		wantErr   *errors.Error
		wantMoves []movecall
	}{
		"no royalty record, no buy side": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
			},
			wantMoves: []movecall{
				{dst: collector, amount: coin.NewCoin(0, 25000, "IOV")},
				{dst: target, amount: coin.NewCoin(0, 985000, "IOV")},
			},
		},
		"royalty creators are paid first, in list order": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
				Creators: []weave.Address{creatorA, creatorB},
			},
			royalty: &tokenRoyalty,
			wantMoves: []movecall{
				{dst: creatorA, amount: coin.NewCoin(0, 34500, "IOV")},
				{dst: creatorB, amount: coin.NewCoin(0, 23000, "IOV")},
				{dst: collector, amount: coin.NewCoin(0, 17500, "IOV")},
				{dst: target, amount: coin.NewCoin(0, 935000, "IOV")},
			},
		},
		"buy side rebate reduces the fee collector payout": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
				BuySide:  buySide,
				Creators: []weave.Address{creatorA, creatorB},
			},
			royalty: &tokenRoyalty,
			wantMoves: []movecall{
				{dst: creatorA, amount: coin.NewCoin(0, 34500, "IOV")},
				{dst: creatorB, amount: coin.NewCoin(0, 23000, "IOV")},
				{dst: buySide, amount: coin.NewCoin(0, 10000, "IOV")},
				{dst: collector, amount: coin.NewCoin(0, 7500, "IOV")},
				{dst: target, amount: coin.NewCoin(0, 935000, "IOV")},
			},
		},
		"invalid buy side recipient redirects the rebate to the collector": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
				BuySide:  weave.Address("too-short"),
				Creators: []weave.Address{creatorA, creatorB},
			},
			royalty: &tokenRoyalty,
			wantMoves: []movecall{
				{dst: creatorA, amount: coin.NewCoin(0, 34500, "IOV")},
				{dst: creatorB, amount: coin.NewCoin(0, 23000, "IOV")},
				{dst: collector, amount: coin.NewCoin(0, 17500, "IOV")},
				{dst: target, amount: coin.NewCoin(0, 935000, "IOV")},
			},
		},
		"zero amount produces no transfers": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 0, "IOV"),
				TokenID:  tokenID,
			},
			wantMoves: nil,
		},
		"candidates for a token without a royalty record": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
				Creators: []weave.Address{creatorA},
			},
			wantErr: errors.ErrMsg,
		},
		"candidates in the wrong order": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
				Creators: []weave.Address{creatorB, creatorA},
			},
			royalty: &tokenRoyalty,
			wantErr: ErrInvalidRecipient,
		},
		"too few candidates": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
				Creators: []weave.Address{creatorA},
			},
			royalty: &tokenRoyalty,
			wantErr: ErrMissingRecipient,
		},
		"payer must sign the transaction": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    weavetest.NewCondition().Address(),
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
			},
			wantErr: errors.ErrUnauthorized,
		},
		"missing configuration": {
			msg: &SettleMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Payer:    payer,
				Target:   target,
				Amount:   coin.NewCoinp(0, 1000000, "IOV"),
				TokenID:  tokenID,
			},
			noConf:  true,
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "settlement", "royalty")
			if !tc.noConf {
				if err := gconf.Save(db, "settlement", &conf); err != nil {
					t.Fatalf("cannot save configuration: %+v", err)
				}
			}
			royalties := royalty.NewBucket()
			if tc.royalty != nil {
				if _, err := royalties.Put(db, tokenID, tc.royalty); err != nil {
					t.Fatalf("cannot store royalty record: %+v", err)
				}
			}

			ctrl := &testController{}
			h := settleHandler{
				auth:      &weavetest.Auth{Signer: payerCond},
				ctrl:      ctrl,
				royalties: royalties,
			}
			tx := &weavetest.Tx{Msg: tc.msg}

			_, err := h.Deliver(context.Background(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if !reflect.DeepEqual(tc.wantMoves, ctrl.moves) {
				t.Logf("got %d MoveCoins calls", len(ctrl.moves))
				for i, m := range ctrl.moves {
					t.Logf("%d: %v", i, m)
				}
				t.Fatal("unexpected MoveCoins calls")
			}
			if tc.wantErr != nil && len(ctrl.moves) != 0 {
				t.Fatal("a failed settlement must not move any coins")
			}
		})
	}
}

func TestRoutes(t *testing.T) {
	ownerCond := weavetest.NewCondition()
	payerCond := weavetest.NewCondition()
	target := weavetest.NewCondition().Address()
	collector := weavetest.NewCondition().Address()

	rt := app.NewRouter()
	auth := &weavetest.CtxAuth{Key: "auth"}
	ctrl := &testController{}
	RegisterRoutes(rt, auth, ctrl)

	db := store.MemStore()
	migration.MustInitPkg(db, "settlement", "royalty")

	conf := Configuration{
		Metadata:           &weave.Metadata{Schema: 1},
		Owner:              ownerCond.Address(),
		FeeCollector:       collector,
		MakerFeeBps:        50,
		TakerFeeBps:        100,
		RoyaltyFeeShareBps: 5000,
	}
	if err := gconf.Save(db, "settlement", &conf); err != nil {
		t.Fatalf("cannot save configuration: %+v", err)
	}

	settleTx := &weavetest.Tx{Msg: &SettleMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Payer:    payerCond.Address(),
		Target:   target,
		Amount:   coin.NewCoinp(0, 1000000, "IOV"),
		TokenID:  []byte("nft-1"),
	}}
	ctx := auth.SetConditions(context.Background(), payerCond)
	if _, err := rt.Deliver(ctx, db, settleTx); err != nil {
		t.Fatalf("cannot deliver a settle transaction: %+v", err)
	}
	wantMoves := []movecall{
		{dst: collector, amount: coin.NewCoin(0, 25000, "IOV")},
		{dst: target, amount: coin.NewCoin(0, 985000, "IOV")},
	}
	if !reflect.DeepEqual(wantMoves, ctrl.moves) {
		t.Fatalf("unexpected MoveCoins calls: %v", ctrl.moves)
	}

	patch := conf
	patch.MakerFeeBps = 75
	updateTx := &weavetest.Tx{Msg: &UpdateConfigurationMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Patch:    &patch,
	}}

	ctx = auth.SetConditions(context.Background(), payerCond)
	if _, err := rt.Deliver(ctx, db, updateTx); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("only the configuration owner can update, got %+v", err)
	}

	ctx = auth.SetConditions(context.Background(), ownerCond)
	if _, err := rt.Deliver(ctx, db, updateTx); err != nil {
		t.Fatalf("cannot update the configuration: %+v", err)
	}
	var updated Configuration
	if err := gconf.Load(db, "settlement", &updated); err != nil {
		t.Fatalf("cannot load configuration: %+v", err)
	}
	if updated.MakerFeeBps != 75 {
		t.Fatalf("configuration patch not applied: %+v", updated)
	}
}

type testController struct {
	err   error
	moves []movecall
}

type movecall struct {
	dst    weave.Address
	amount coin.Coin
}

func (tc *testController) MoveCoins(db weave.KVStore, src, dst weave.Address, amount coin.Coin) error {
	tc.moves = append(tc.moves, movecall{dst: dst, amount: amount})
	return tc.err
}
