package repository

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

const contract = domain.Address("0xaaaa000000000000000000000000000000000001")

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadsAndIndexesDocument(t *testing.T) {
	req := require.New(t)
	dir, err := ioutil.TempDir("", "meta")
	req.NoError(err)
	defer os.RemoveAll(dir)

	writeDoc(t, dir, contract.ToLowerStr()+".json", `[
		{"id": "1", "image_url": "ipfs://a", "metadata": {"name": "Squid #1"}},
		{"id": "2", "image_url": "ipfs://b", "metadata": {"name": "Squid #2"}}
	]`)

	repo := NewFile(dir)
	c := ctx.Background()

	doc, err := repo.Get(c, domain.Address("0xAAAA000000000000000000000000000000000001"))
	req.NoError(err)
	req.NotNil(doc.ById("1"))
	req.Equal("Squid #1", doc.ById("1").Metadata.Name)
	req.NotNil(doc.ByName("Squid #2"))
	req.Nil(doc.ById("3"))
}

func TestMissingDocumentFailsOnce(t *testing.T) {
	req := require.New(t)
	dir, err := ioutil.TempDir("", "meta")
	req.NoError(err)
	defer os.RemoveAll(dir)

	repo := NewFile(dir).(*impl)
	c := ctx.Background()

	_, err = repo.Get(c, contract)
	req.Error(err)

	// the failure is remembered, even if the file shows up afterwards
	writeDoc(t, dir, contract.ToLowerStr()+".json", `[]`)
	_, err = repo.Get(c, contract)
	req.Error(err)
	req.Len(repo.docs, 1)
}

func TestMalformedDocument(t *testing.T) {
	req := require.New(t)
	dir, err := ioutil.TempDir("", "meta")
	req.NoError(err)
	defer os.RemoveAll(dir)

	writeDoc(t, dir, contract.ToLowerStr()+".json", `{not json`)

	repo := NewFile(dir)
	doc, err := repo.Get(ctx.Background(), contract)
	req.Error(err)
	req.Nil(doc)
}
