package zns

import (
	"errors"
	"net/http"
	"time"

	bCtx "github.com/inkmarket/goapi/base/ctx"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	ErrBadCode         = errors.New("zns code != 200")
)

// Client talks to the zns.bio resolver. The zns registry contract does not
// expose enumeration, the hosted api is the only way to list an owner's
// domains.
type Client interface {
	// ResolveAddress returns the domains owned by an address plus the
	// primary one, if set.
	ResolveAddress(ctx bCtx.Ctx, address string) (*AddressRecord, error)
	// ResolveDomain returns the owner address of a domain.
	ResolveDomain(ctx bCtx.Ctx, domain string) (string, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	ChainId    int32
}

type AddressRecord struct {
	Domains       []string `json:"userOwnedDomains"`
	PrimaryDomain string   `json:"primaryDomain"`
}

type resolveAddressResponse struct {
	Code             int      `json:"code"`
	UserOwnedDomains []string `json:"userOwnedDomains"`
	PrimaryDomain    string   `json:"primaryDomain"`
}

type resolveDomainResponse struct {
	Code    int    `json:"code"`
	Address string `json:"address"`
}
