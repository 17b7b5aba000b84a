package royalty

import (
	"testing"

	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/weavetest/assert"
)

func TestTokenRoyaltyValidate(t *testing.T) {
	addrA := weavetest.NewCondition().Address()
	addrB := weavetest.NewCondition().Address()

	cases := map[string]struct {
		model   TokenRoyalty
		wantErr *errors.Error
	}{
		"valid single creator": {
			model: TokenRoyalty{
				Metadata:     &weave.Metadata{Schema: 1},
				Owner:        addrA,
				SellerFeeBps: 500,
				Creators: []*CreatorShare{
					{Address: addrA, Share: 100},
				},
			},
		},
		"valid split with a zero share": {
			model: TokenRoyalty{
				Metadata: &weave.Metadata{Schema: 1},
				Owner:    addrA,
				Creators: []*CreatorShare{
					{Address: addrA, Share: 0},
					{Address: addrB, Share: 100},
				},
			},
		},
		"no creators": {
			model: TokenRoyalty{
				Metadata: &weave.Metadata{Schema: 1},
				Owner:    addrA,
			},
			wantErr: ErrInvalidRoyalty,
		},
		"shares must sum to 100": {
			model: TokenRoyalty{
				Metadata: &weave.Metadata{Schema: 1},
				Owner:    addrA,
				Creators: []*CreatorShare{
					{Address: addrA, Share: 60},
					{Address: addrB, Share: 30},
				},
			},
			wantErr: ErrInvalidRoyalty,
		},
		"share greater than 100": {
			model: TokenRoyalty{
				Metadata: &weave.Metadata{Schema: 1},
				Owner:    addrA,
				Creators: []*CreatorShare{
					{Address: addrA, Share: 101},
				},
			},
			wantErr: ErrInvalidRoyalty,
		},
		"duplicated creator address": {
			model: TokenRoyalty{
				Metadata: &weave.Metadata{Schema: 1},
				Owner:    addrA,
				Creators: []*CreatorShare{
					{Address: addrA, Share: 60},
					{Address: addrA, Share: 40},
				},
			},
			wantErr: ErrInvalidRoyalty,
		},
		"seller fee above the basis point divisor": {
			model: TokenRoyalty{
				Metadata:     &weave.Metadata{Schema: 1},
				Owner:        addrA,
				SellerFeeBps: 10001,
				Creators: []*CreatorShare{
					{Address: addrA, Share: 100},
				},
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.model.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestTokenRoyaltyCopy(t *testing.T) {
	addr := weavetest.NewCondition().Address()
	tr := TokenRoyalty{
		Metadata:     &weave.Metadata{Schema: 1},
		Owner:        addr,
		SellerFeeBps: 500,
		Creators: []*CreatorShare{
			{Address: addr, Share: 100},
		},
	}
	cpy := tr.Copy().(*TokenRoyalty)
	assert.Equal(t, tr.SellerFeeBps, cpy.SellerFeeBps)
	assert.Equal(t, len(tr.Creators), len(cpy.Creators))

	cpy.Creators[0].Share = 60
	if tr.Creators[0].Share != 100 {
		t.Fatal("copy must not share creator instances")
	}
}
