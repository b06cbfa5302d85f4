package persistent

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/cache/provider"
)

// impl is a file-backed provider, the durable tier of the compound cache.
// Races between writers resolve last-write-wins; everything stored here is
// advisory and re-derivable, so that is acceptable.
type impl struct {
	dir string
	mu  sync.Mutex
}

type envelope struct {
	ExpiresAt int64  `json:"expiresAt"` // unix seconds, 0 means no expiry
	Value     []byte `json:"value"`
}

func NewPersistent(dir string) (provider.Provider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &impl{dir: dir}, nil
}

func MustNewPersistent(dir string) provider.Provider {
	p, err := NewPersistent(dir)
	if err != nil {
		panic(err)
	}
	return p
}

func (im *impl) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	return filepath.Join(im.dir, name+".json")
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	data, err := os.ReadFile(im.path(key))
	if os.IsNotExist(err) {
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache read failed")
		return nil, time.Duration(0), err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// corrupt entry counts as a miss
		c.WithField("err", err).WithField("key", key).Warn("corrupt cache entry, dropping")
		os.Remove(im.path(key))
		return nil, time.Duration(0), provider.ErrNotFound
	}

	if env.ExpiresAt > 0 {
		remain := time.Until(time.Unix(env.ExpiresAt, 0))
		if remain <= 0 {
			os.Remove(im.path(key))
			return nil, time.Duration(0), provider.ErrNotFound
		}
		return env.Value, remain, nil
	}
	return env.Value, time.Duration(0), nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	env := envelope{Value: value}
	if ttl > 0 {
		env.ExpiresAt = time.Now().Add(ttl).Unix()
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	tmp := im.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache write failed")
		return err
	}
	return os.Rename(tmp, im.path(key))
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := os.Remove(im.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
