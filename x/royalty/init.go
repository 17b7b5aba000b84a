package royalty

import (
	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial royalty records from genesis and save
// them to the database
func (*Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, kv weave.KVStore) error {
	type creator struct {
		Address weave.Address `json:"address"`
		Share   uint32        `json:"share"`
	}
	var records []struct {
		TokenID      string        `json:"token_id"`
		Owner        weave.Address `json:"owner"`
		SellerFeeBps uint32        `json:"seller_fee_bps"`
		Creators     []creator     `json:"creators"`
	}
	if err := opts.ReadOptions("royalty", &records); err != nil {
		return errors.Wrap(err, "cannot load royalty")
	}

	bucket := NewBucket()
	for i, r := range records {
		creators := make([]*CreatorShare, 0, len(r.Creators))
		for _, c := range r.Creators {
			creators = append(creators, &CreatorShare{
				Address: c.Address,
				Share:   c.Share,
			})
		}
		tr := TokenRoyalty{
			Metadata:     &weave.Metadata{Schema: 1},
			Owner:        r.Owner,
			SellerFeeBps: r.SellerFeeBps,
			Creators:     creators,
		}
		if _, err := bucket.Put(kv, []byte(r.TokenID), &tr); err != nil {
			return errors.Wrapf(err, "cannot store #%d royalty record", i)
		}
	}
	return nil
}
