package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
products:
  - id: kettle-1
    name: Glass Kettle
    category: Kitchen Appliances
    brand: Tefal
    price: 450000
    rating: 4.6
    reviews: 12
    images: ["/assets/kettle.jpg"]
    description: Boils fast.
    specs:
      Volume: 1.7L
  - id: fan-1
    name: Tower Fan
    category: Heating & Cooling
    brand: Philips
    price: 850000
    original_price: 990000
    rating: 4.2
    reviews: 40
    badge:
      type: sale
      text: "-15%"
    images: ["/assets/fan.jpg"]
    description: Quiet airflow.
`

func TestParseYAML(t *testing.T) {
	products, err := ParseYAML([]byte(validYAML))
	require.NoError(t, err)
	require.Len(t, products, 2)

	fan := products[1]
	assert.Equal(t, "fan-1", fan.ID)
	require.NotNil(t, fan.OriginalPrice)
	assert.Equal(t, int64(990000), *fan.OriginalPrice)
	require.NotNil(t, fan.Badge)
	assert.Equal(t, "-15%", fan.Badge.Text)
	assert.Nil(t, products[0].Badge)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "empty", raw: "products: []", wantErr: ErrEmptyDataset},
		{
			name: "duplicate id",
			raw: `
products:
  - {id: a, name: A, category: C, brand: B, price: 1, rating: 4, reviews: 1, images: [x], description: d}
  - {id: a, name: A2, category: C, brand: B, price: 2, rating: 4, reviews: 1, images: [x], description: d}
`,
			wantErr: ErrDuplicateProduct,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := ParseYAML([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, products)
		})
	}
}

func TestParseYAML_ValidationFailure(t *testing.T) {
	raw := `
products:
  - {id: a, name: A, category: C, brand: B, price: 1, rating: 4, reviews: 1, images: [], description: d}
`
	products, err := ParseYAML([]byte(raw))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Nil(t, products)
}

func TestParseJSON(t *testing.T) {
	raw := `{"products":[{"id":"a","name":"A","category":"C","brand":"B","price":10,"rating":4.5,"reviews":3,"images":["/a.jpg"],"description":"d","specs":{"Power":"5W"}}]}`

	products, err := ParseJSON([]byte(raw))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "5W", products[0].Specs["Power"])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	cat, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 50, cat.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
