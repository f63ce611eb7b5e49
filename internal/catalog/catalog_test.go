package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/account-intel/pkg/tavily"

	"github.com/sells-group/account-intel/internal/model"
)

const sampleYAML = `
catalog_metadata:
  generated_at: "2026-08-01T00:00:00Z"
  source: "test"
  version: "1.0"
  product_count: 2
products:
  - name: "CLM"
    category: "CLM"
    value_statement: "Manage contracts end to end."
    key_capabilities: ["workflow", "clause library", "analytics"]
  - name: "eSignature"
    category: "eSignature"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeSample(t))
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Len(t, c.Products, 2)
	assert.Equal(t, "CLM", c.Products[0].Name)
	assert.Equal(t, []string{"workflow", "clause library", "analytics"}, c.Products[0].KeyCapabilities)
	assert.Equal(t, 2, c.Metadata.ProductCount)
}

func TestLoad_MissingFileIsNil(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestLoad_EmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no products")
}

func TestSaveRoundTrip(t *testing.T) {
	c, err := Load(writeSample(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, c.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Products, back.Products)
}

func TestTop(t *testing.T) {
	c := &Catalog{Products: []Product{
		{Name: "A"},
		{Name: "B", ValueStatement: "worth it"},
		{Name: "C", ValueStatement: "also worth it"},
	}}

	top := c.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Name)
	assert.Equal(t, "C", top[1].Name)

	assert.Nil(t, (*Catalog)(nil).Top(3))
	assert.Len(t, c.Top(10), 3)
}

func TestCategories(t *testing.T) {
	c := &Catalog{Products: []Product{
		{Name: "CLM", Category: "CLM"},
		{Name: "Gen", Category: "CLM"},
		{Name: "Odd"},
	}}
	cats := c.Categories()
	assert.Equal(t, []string{"CLM", "Gen"}, cats["CLM"])
	assert.Equal(t, []string{"Odd"}, cats["Uncategorized"])
}

type stubAdapter struct {
	records []model.SourceRecord
	reply   func(out any) error
	err     error
}

func (s *stubAdapter) Search(ctx context.Context, query string, opts ...tavily.SearchOption) ([]model.SourceRecord, error) {
	return s.records, s.err
}

func (s *stubAdapter) Extract(ctx context.Context, system, prompt string, out any) (model.TokenUsage, error) {
	if s.reply == nil {
		return model.TokenUsage{}, errors.New("no reply configured")
	}
	return model.TokenUsage{}, s.reply(out)
}

func (s *stubAdapter) Model() string { return "test-model" }

func TestBuild(t *testing.T) {
	a := &stubAdapter{
		records: []model.SourceRecord{{URL: "https://docusign.com/products/clm", Title: "CLM", Snippet: "contract lifecycle"}},
		reply: func(out any) error {
			c := out.(*Catalog)
			c.Products = []Product{{Name: "CLM", Category: "CLM"}}
			return nil
		},
	}

	c, err := Build(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, 1, c.Metadata.ProductCount)
	assert.NotEmpty(t, c.Metadata.GeneratedAt)
}

func TestBuild_NoSearchResults(t *testing.T) {
	_, err := Build(context.Background(), &stubAdapter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no search results")
}
