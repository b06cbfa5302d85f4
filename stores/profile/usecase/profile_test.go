package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/profile"
	"github.com/inkmarket/goapi/service/blockscout"
	"github.com/inkmarket/goapi/service/zns"
)

var errDown = errors.New("down")

const wallet = domain.Address("0x00000000000000000000000000000000000000aa")

type memRepo struct {
	mu       sync.Mutex
	profiles map[domain.Address]*profile.Profile
	stores   int
}

func newMemRepo() *memRepo {
	return &memRepo{profiles: map[domain.Address]*profile.Profile{}}
}

func (r *memRepo) Get(c ctx.Ctx, address domain.Address) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[address.ToLower()]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) Store(c ctx.Ctx, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores++
	r.profiles[p.Address.ToLower()] = p
	return nil
}

type fakeZns struct {
	primary string
	err     error
}

func (f *fakeZns) ResolveAddress(c ctx.Ctx, address string) (*zns.AddressRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &zns.AddressRecord{PrimaryDomain: f.primary}, nil
}

func (f *fakeZns) ResolveDomain(c ctx.Ctx, d string) (string, error) { return "", errDown }

type fakeEns struct {
	name   string
	avatar string
	err    error
}

func (f *fakeEns) Resolve(c ctx.Ctx, name string) (domain.Address, error) {
	return "", errDown
}

func (f *fakeEns) ReverseResolve(c ctx.Ctx, address domain.Address) (string, error) {
	return f.name, f.err
}

func (f *fakeEns) Avatar(c ctx.Ctx, name string) (string, error) {
	return f.avatar, f.err
}

type fakeExplorer struct {
	count int
	err   error
}

func (f *fakeExplorer) GetNftHoldings(c ctx.Ctx, address string) ([]blockscout.NftInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]blockscout.NftInstance, f.count), nil
}

func newUc(repo profile.Repo, z *fakeZns, e *fakeEns, x *fakeExplorer) profile.UseCase {
	return New(&ProfileUseCaseCfg{
		Repo:       repo,
		Zns:        z,
		Ens:        e,
		Blockscout: x,
		Freshness:  time.Hour,
	})
}

func TestRegistryNameWins(t *testing.T) {
	req := require.New(t)
	uc := newUc(newMemRepo(), &fakeZns{primary: "alice.ink"}, &fakeEns{name: "alice.eth"}, &fakeExplorer{count: 3})

	p, err := uc.Get(ctx.Background(), wallet)
	req.NoError(err)
	req.Equal("alice.ink", p.DisplayName)
	req.Equal(3, p.NftCount)
}

func TestEnsFallback(t *testing.T) {
	req := require.New(t)
	uc := newUc(newMemRepo(), &fakeZns{err: errDown}, &fakeEns{name: "alice.eth", avatar: "ipfs://avatar"}, &fakeExplorer{})

	p, err := uc.Get(ctx.Background(), wallet)
	req.NoError(err)
	req.Equal("alice.eth", p.DisplayName)
	req.Equal("ipfs://avatar", p.Avatar)
}

func TestShortAddressLastResort(t *testing.T) {
	req := require.New(t)
	uc := newUc(newMemRepo(), &fakeZns{err: errDown}, &fakeEns{err: errDown}, &fakeExplorer{err: errDown})

	p, err := uc.Get(ctx.Background(), wallet)
	req.NoError(err)
	req.Equal(wallet.ToLower().Short(), p.DisplayName)
	req.Zero(p.NftCount)
}

func TestFreshRecordServedFromRepo(t *testing.T) {
	req := require.New(t)
	repo := newMemRepo()
	uc := newUc(repo, &fakeZns{primary: "alice.ink"}, &fakeEns{}, &fakeExplorer{})

	_, err := uc.Get(ctx.Background(), wallet)
	req.NoError(err)
	req.Equal(1, repo.stores)

	_, err = uc.Get(ctx.Background(), wallet)
	req.NoError(err)
	req.Equal(1, repo.stores, "a fresh record must not be rebuilt")
}
