package metadata

import (
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Meta is the display metadata for one token.
type Meta struct {
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	ImageUrl    string      `json:"image_url,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// Entry is one record of a static per-collection metadata document.
type Entry struct {
	Id       string `json:"id"`
	ImageUrl string `json:"image_url"`
	Metadata Meta   `json:"metadata"`
}

// Document is a parsed per-collection metadata file indexed for lookup.
type Document struct {
	Contract domain.Address
	Entries  []Entry

	byId   map[string]*Entry
	byName map[string]*Entry
}

func NewDocument(contract domain.Address, entries []Entry) *Document {
	d := &Document{
		Contract: contract,
		Entries:  entries,
		byId:     make(map[string]*Entry, len(entries)),
		byName:   make(map[string]*Entry, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		d.byId[e.Id] = e
		if e.Metadata.Name != "" {
			d.byName[e.Metadata.Name] = e
		}
	}
	return d
}

// ById returns the entry for a token id, or nil when absent.
func (d *Document) ById(id domain.TokenId) *Entry {
	if d == nil {
		return nil
	}
	return d.byId[id.String()]
}

// ByName reverse-looks-up an entry by its display name. Used for the name
// registry whose API returns names, not ids.
func (d *Document) ByName(name string) *Entry {
	if d == nil {
		return nil
	}
	return d.byName[name]
}

// Repo loads the static metadata document for a collection, at most once per
// document per session.
type Repo interface {
	Get(c ctx.Ctx, contract domain.Address) (*Document, error)
}
