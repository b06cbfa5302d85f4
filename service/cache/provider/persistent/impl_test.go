package persistent

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/cache/provider"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	im provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.im = MustNewPersistent(ts.T().TempDir())
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetGet() {
	k := "pfx:key"
	v := []byte("value")

	ts.NoError(ts.im.Set(mockCtx, k, v, time.Minute))
	r, ttl, err := ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal(v, r)
	ts.True(ttl > 0)
}

func (ts *testsuite) TestGetMissing() {
	_, _, err := ts.im.Get(mockCtx, "nope")
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestExpired() {
	k := "key"
	ts.NoError(ts.im.Set(mockCtx, k, []byte("v"), -time.Second))
	_, _, err := ts.im.Get(mockCtx, k)
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestNoExpiry() {
	k := "key"
	ts.NoError(ts.im.Set(mockCtx, k, []byte("v"), 0))
	r, ttl, err := ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal([]byte("v"), r)
	ts.Equal(time.Duration(0), ttl)
}

func (ts *testsuite) TestDel() {
	k := "key"
	ts.NoError(ts.im.Set(mockCtx, k, []byte("v"), time.Minute))
	ts.NoError(ts.im.Del(mockCtx, k))
	_, _, err := ts.im.Get(mockCtx, k)
	ts.Equal(provider.ErrNotFound, err)

	// deleting a missing key is not an error
	ts.NoError(ts.im.Del(mockCtx, k))
}

func (ts *testsuite) TestCorruptEntryIsMiss() {
	k := "key"
	ts.NoError(ts.im.Set(mockCtx, k, []byte("v"), time.Minute))

	im := ts.im.(*impl)
	ts.NoError(os.WriteFile(im.path(k), []byte("{not json"), 0o644))

	_, _, err := ts.im.Get(mockCtx, k)
	ts.Equal(provider.ErrNotFound, err)
}
