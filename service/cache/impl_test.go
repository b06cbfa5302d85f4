package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type valueType struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type testsuite struct {
	suite.Suite
	im Service
}

func (ts *testsuite) SetupTest() {
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "test",
		Cache: primitive.NewPrimitive("test", 1),
	})
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetGet() {
	v := valueType{Name: "a", Count: 1}
	ts.NoError(ts.im.Set(mockCtx, "k", &v))

	res := valueType{}
	ts.NoError(ts.im.Get(mockCtx, "k", &res))
	ts.Equal(v, res)
}

func (ts *testsuite) TestGetMissing() {
	res := valueType{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "nope", &res))
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &valueType{Name: "b", Count: 2}, nil
	}

	res := valueType{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "k", &res, getter))
	ts.Equal(valueType{Name: "b", Count: 2}, res)
	ts.Equal(1, calls)

	// second call hits cache, getter not invoked again
	res2 := valueType{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "k", &res2, getter))
	ts.Equal(res, res2)
	ts.Equal(1, calls)
}

func (ts *testsuite) TestDel() {
	v := valueType{Name: "a"}
	ts.NoError(ts.im.Set(mockCtx, "k", &v))
	ts.NoError(ts.im.Del(mockCtx, "k"))

	res := valueType{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "k", &res))
}
