package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

//go:embed data/products.yaml
var embeddedDataset []byte

var (
	ErrEmptyDataset     = errors.New("catalog: dataset has no products")
	ErrDuplicateProduct = errors.New("catalog: duplicate product id")
)

type dataset struct {
	Products []domain.Product `json:"products" yaml:"products" validate:"dive"`
}

// LoadDefault builds the catalog from the dataset compiled into the binary.
func LoadDefault() (*Catalog, error) {
	products, err := ParseYAML(embeddedDataset)
	if err != nil {
		return nil, fmt.Errorf("catalog: embedded dataset: %w", err)
	}
	return NewCatalog(products), nil
}

// LoadFile builds the catalog from a .yaml, .yml or .json dataset file.
// An empty path falls back to the embedded dataset.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return LoadDefault()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read dataset %s: %w", path, err)
	}
	var products []domain.Product
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		products, err = ParseJSON(raw)
	default:
		products, err = ParseYAML(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: dataset %s: %w", path, err)
	}
	return NewCatalog(products), nil
}

// ParseYAML decodes and validates a YAML dataset.
func ParseYAML(raw []byte) ([]domain.Product, error) {
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	return ds.Products, nil
}

// ParseJSON decodes and validates a JSON dataset.
func ParseJSON(raw []byte) ([]domain.Product, error) {
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	return ds.Products, nil
}

func validateDataset(ds dataset) error {
	if len(ds.Products) == 0 {
		return ErrEmptyDataset
	}
	if err := validator.New().Struct(ds); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	seen := make(map[string]struct{}, len(ds.Products))
	for _, p := range ds.Products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
