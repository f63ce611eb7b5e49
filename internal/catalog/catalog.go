// Package catalog loads and builds the product catalog used to ground
// optimization recommendations.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/account-intel/internal/adapter"
	"github.com/sells-group/account-intel/pkg/tavily"
)

// Catalog is the structured product catalog.
type Catalog struct {
	Metadata Metadata  `yaml:"catalog_metadata" json:"catalog_metadata"`
	Products []Product `yaml:"products" json:"products"`
}

// Metadata records how and when the catalog was generated.
type Metadata struct {
	GeneratedAt  string `yaml:"generated_at" json:"generated_at"`
	Source       string `yaml:"source" json:"source"`
	Version      string `yaml:"version" json:"version"`
	ProductCount int    `yaml:"product_count" json:"product_count"`
}

// Product is one catalog entry.
type Product struct {
	Name            string   `yaml:"name" json:"name"`
	Category        string   `yaml:"category" json:"category"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
	ValueStatement  string   `yaml:"value_statement,omitempty" json:"value_statement,omitempty"`
	KeyCapabilities []string `yaml:"key_capabilities,omitempty" json:"key_capabilities,omitempty"`
	TypicalBuyers   []string `yaml:"typical_buyers,omitempty" json:"typical_buyers,omitempty"`
	UseCases        []string `yaml:"use_cases,omitempty" json:"use_cases,omitempty"`
	SourceURL       string   `yaml:"source_url,omitempty" json:"source_url,omitempty"`
}

// Load reads a catalog from a YAML file. A missing file is not an error:
// research runs fine without product recommendations.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: parse")
	}
	if len(c.Products) == 0 {
		return nil, eris.New("catalog: no products")
	}
	return &c, nil
}

// Save writes the catalog to a YAML file.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "catalog: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "catalog: write %s", path)
	}
	return nil
}

// Top returns up to n products for prompt context, preferring entries with
// a value statement.
func (c *Catalog) Top(n int) []Product {
	if c == nil || n <= 0 {
		return nil
	}
	products := make([]Product, len(c.Products))
	copy(products, c.Products)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].ValueStatement != "" && products[j].ValueStatement == ""
	})
	if len(products) > n {
		products = products[:n]
	}
	return products
}

// Categories groups product names by category, sorted by category name.
func (c *Catalog) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, p := range c.Products {
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		out[cat] = append(out[cat], p.Name)
	}
	return out
}

// buildQueries are the searches a catalog rebuild runs.
var buildQueries = []string{
	"DocuSign CLM contract lifecycle management products features",
	"DocuSign eSignature products offerings pricing tiers",
	"DocuSign IAM Intelligent Agreement Management products",
	"DocuSign Gen Navigator Analyzer analytics products features",
	"DocuSign API Connect integrations products catalog",
}

const buildSystem = "You are a precise product data extraction assistant. Return only valid JSON."

// Build researches the vendor's product lineup and extracts a fresh catalog.
func Build(ctx context.Context, a adapter.Adapter) (*Catalog, error) {
	var corpus strings.Builder
	for _, q := range buildQueries {
		records, err := a.Search(ctx, q, tavily.WithSearchDepth("advanced"))
		if err != nil {
			zap.L().Warn("catalog search failed", zap.String("query", q), zap.Error(err))
			continue
		}
		for _, r := range records {
			fmt.Fprintf(&corpus, "Source: %s\nTitle: %s\nContent: %s\n---\n", r.URL, r.Title, r.Snippet)
		}
	}
	if corpus.Len() == 0 {
		return nil, eris.New("catalog: no search results to extract from")
	}

	prompt := fmt.Sprintf(`Based on the web search results below, create a comprehensive product catalog.

Extract 15-25 products/modules. Each product needs: name, category (CLM, eSignature, IAM, Analytics, Integration, etc.), description (2-3 sentences), value_statement (1-2 sentence value proposition), key_capabilities (array), typical_buyers (array), use_cases (array), and source_url from the search results.

Only include products you can verify from the search results. Group related features into logical product entries.

WEB SEARCH RESULTS:
%s

Return ONLY valid JSON with the structure {"products": [...]}.`, corpus.String())

	var c Catalog
	if _, err := a.Extract(ctx, buildSystem, prompt, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: extract products")
	}
	if len(c.Products) == 0 {
		return nil, eris.New("catalog: extraction returned no products")
	}

	c.Metadata = Metadata{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Source:       "Tavily Web Search + Claude Extraction",
		Version:      "1.0",
		ProductCount: len(c.Products),
	}
	zap.L().Info("catalog built", zap.Int("products", len(c.Products)))
	return &c, nil
}
