package repository

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/metadata"
)

type outcome struct {
	doc *metadata.Document
	err error
}

type impl struct {
	dir string

	mu   sync.Mutex
	docs map[domain.Address]*outcome
}

// NewFile reads static per-collection metadata documents from a local
// directory, one json file per collection named by its lowercased address.
// Each document is parsed at most once per process; the outcome, including a
// failure, is remembered so a broken file is not re-read on every request.
func NewFile(dir string) metadata.Repo {
	return &impl{
		dir:  dir,
		docs: make(map[domain.Address]*outcome),
	}
}

func (im *impl) Get(c ctx.Ctx, contract domain.Address) (*metadata.Document, error) {
	key := contract.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()
	if o, ok := im.docs[key]; ok {
		return o.doc, o.err
	}

	doc, err := im.load(c, key)
	im.docs[key] = &outcome{doc: doc, err: err}
	return doc, err
}

func (im *impl) load(c ctx.Ctx, contract domain.Address) (*metadata.Document, error) {
	path := filepath.Join(im.dir, contract.ToLowerStr()+".json")
	data, err := ioutil.ReadFile(path)
	if err != nil {
		c.WithFields(log.Fields{
			"path": path,
			"err":  err,
		}).Warn("metadata document unreadable")
		return nil, err
	}
	var entries []metadata.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.WithFields(log.Fields{
			"path": path,
			"err":  err,
		}).Error("metadata document malformed")
		return nil, err
	}
	return metadata.NewDocument(contract, entries), nil
}
