package usecase

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/listing"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

var errRpc = errors.New("rpc down")

const (
	marketplaceAddr = domain.Address("0x00000000000000000000000000000000000000f1")
	collectionAddr  = domain.Address("0x00000000000000000000000000000000000000c1")
	creatorAddr     = domain.Address("0x00000000000000000000000000000000000000aa")
	strangerAddr    = domain.Address("0x00000000000000000000000000000000000000bb")
)

type fakeErc721 struct {
	mu sync.Mutex

	approved    map[string]bool   // owner -> approved
	owners      map[string]string // tokenId -> owner
	ownerOfErr  bool
	approveErr  bool
	ownerCalls  int
	approvCalls int
}

func (f *fakeErc721) Supports721Interface(c ctx.Ctx, addr string) (bool, error) { return true, nil }

func (f *fakeErc721) SupportsEnumerableInterface(c ctx.Ctx, addr string) (bool, error) {
	return false, nil
}

func (f *fakeErc721) OwnerOf(c ctx.Ctx, addr string, tokenId *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerCalls++
	if f.ownerOfErr {
		return "", errRpc
	}
	if owner, ok := f.owners[tokenId.String()]; ok {
		return owner, nil
	}
	return "", errRpc
}

func (f *fakeErc721) BalanceOf(c ctx.Ctx, addr string, owner string) (*big.Int, error) {
	return domain.Big0, nil
}

func (f *fakeErc721) IsApprovedForAll(c ctx.Ctx, addr string, owner, operator string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approvCalls++
	if f.approveErr {
		return false, errRpc
	}
	return f.approved[owner], nil
}

func (f *fakeErc721) TokenOfOwnerByIndex(c ctx.Ctx, addr string, owner string, index *big.Int) (*big.Int, error) {
	return nil, errRpc
}

func (f *fakeErc721) TotalSupply(c ctx.Ctx, addr string) (*big.Int, error) { return nil, errRpc }

func (f *fakeErc721) NextTokenIdToMint(c ctx.Ctx, addr string) (*big.Int, error) {
	return nil, errRpc
}

func (f *fakeErc721) StartTokenId(c ctx.Ctx, addr string) (*big.Int, error) { return nil, errRpc }

func (f *fakeErc721) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.approvCalls, f.ownerCalls
}

type reconcilerSuite struct {
	suite.Suite
	ctx ctx.Ctx
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(reconcilerSuite))
}

func (s *reconcilerSuite) SetupTest() {
	s.ctx = ctx.Background()
}

func (s *reconcilerSuite) newReconciler(erc *fakeErc721, ttl time.Duration) *impl {
	return New(&ReconcilerCfg{
		Erc721:      erc,
		Marketplace: marketplaceAddr,
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   time.Hour,
			Pfx:   "status_test",
			Cache: primitive.NewPrimitive("status_test", 4),
		}),
		Ttl:     ttl,
		Workers: 2,
	}).(*impl)
}

func makeListing(id uint64, end int64) *listing.Listing {
	return &listing.Listing{
		ListingId:     id,
		Creator:       creatorAddr,
		AssetContract: collectionAddr,
		TokenId:       domain.TokenId("7"),
		EndTimestamp:  end,
		Status:        listing.StatusCreated,
	}
}

func (s *reconcilerSuite) TestExpiredAlwaysDisablesPurchase() {
	erc := &fakeErc721{}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	expired := makeListing(1, time.Now().Add(-time.Minute).Unix())
	snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{expired})
	s.Require().NoError(err)

	d := snap[1]
	s.True(d.IsExpired)
	s.False(d.Purchasable(), "expired must disable purchase even while checks are pending")
}

func (s *reconcilerSuite) TestUnknownFailsOpen() {
	erc := &fakeErc721{ownerOfErr: true, approveErr: true}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)

	d := snap[1]
	s.False(d.Known)
	s.True(d.Purchasable(), "pending checks must not block the attempt")
}

func (s *reconcilerSuite) TestRefreshComputesFlags() {
	erc := &fakeErc721{
		approved: map[string]bool{string(creatorAddr): true},
		owners:   map[string]string{"7": string(strangerAddr)},
	}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	snap, err := im.Refresh(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)

	d := snap[1]
	s.True(d.Known)
	s.False(d.IsNotApproved)
	s.True(d.IsOwnerMismatch, "token moved to another wallet")
	s.False(d.Purchasable())
}

func (s *reconcilerSuite) TestOwnerProbeFailureFlagsMismatch() {
	erc := &fakeErc721{
		approved:   map[string]bool{string(creatorAddr): true},
		ownerOfErr: true,
	}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	snap, err := im.Refresh(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)

	d := snap[1]
	s.True(d.Known)
	s.True(d.IsOwnerMismatch, "unreadable owner reads as the zero address")
}

func (s *reconcilerSuite) TestApprovalFailureLeavesUnknown() {
	erc := &fakeErc721{approveErr: true}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	snap, err := im.Refresh(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)
	s.False(snap[1].Known)
}

func (s *reconcilerSuite) TestReconcileServesCachedChecks() {
	erc := &fakeErc721{
		approved: map[string]bool{string(creatorAddr): true},
		owners:   map[string]string{"7": string(creatorAddr)},
	}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	_, err := im.Refresh(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)
	approvals, owners := erc.calls()

	snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)
	s.True(snap[1].Known)
	s.True(snap[1].Purchasable())

	approvalsAfter, ownersAfter := erc.calls()
	s.Equal(approvals, approvalsAfter, "cached outcome must not re-hit the chain")
	s.Equal(owners, ownersAfter)
}

func (s *reconcilerSuite) TestStaleRecordIsRecomputed() {
	erc := &fakeErc721{
		approved: map[string]bool{string(creatorAddr): true},
		owners:   map[string]string{"7": string(creatorAddr)},
	}
	im := s.newReconciler(erc, 10*time.Millisecond)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	_, err := im.Refresh(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)

	time.Sleep(20 * time.Millisecond)

	snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)
	s.False(snap[1].Known, "a record past its ttl reads as unknown")

	// the background recheck eventually lands
	s.Eventually(func() bool {
		snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{l})
		return err == nil && snap[1].Known
	}, time.Second, 10*time.Millisecond)
}

func (s *reconcilerSuite) TestBackgroundWarm() {
	erc := &fakeErc721{
		approved: map[string]bool{string(creatorAddr): true},
		owners:   map[string]string{"7": string(creatorAddr)},
	}
	im := s.newReconciler(erc, time.Hour)
	defer im.Close()

	l := makeListing(1, time.Now().Add(time.Hour).Unix())
	snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{l})
	s.Require().NoError(err)
	s.False(snap[1].Known)

	s.Eventually(func() bool {
		snap, err := im.Reconcile(s.ctx, collectionAddr, []*listing.Listing{l})
		return err == nil && snap[1].Known
	}, time.Second, 10*time.Millisecond)
}
