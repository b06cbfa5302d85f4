package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
)

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry([]collection.Config{
		{Address: "0xAbCd000000000000000000000000000000000001", Title: "one"},
		{Address: "0xabcd000000000000000000000000000000000002", Title: "two", Registry: true},
	})

	cfg, ok := reg.Get(domain.Address("0xABCD000000000000000000000000000000000001"))
	req.True(ok)
	req.Equal("one", cfg.Title)

	cfg, ok = reg.Get(domain.Address("0xabcd000000000000000000000000000000000002"))
	req.True(ok)
	req.True(cfg.Registry)

	_, ok = reg.Get(domain.Address("0xabcd000000000000000000000000000000000003"))
	req.False(ok)

	req.Len(reg.All(), 2)
}
