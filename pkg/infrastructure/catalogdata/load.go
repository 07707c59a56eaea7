package catalogdata

import (
	_ "embed"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

//go:embed products.json
var defaultProducts []byte

// entry lets a fixture pin its release date relative to load time.
type entry struct {
	model.Product
	ReleasedDaysAgo *int `json:"releasedDaysAgo,omitempty"`
}

// Default loads the embedded StrideZero catalog.
func Default(now time.Time) (*model.Catalog, error) {
	return Parse(defaultProducts, now)
}

// LoadFile reads a catalog from disk; an empty path means the embedded one.
func LoadFile(path string, now time.Time) (*model.Catalog, error) {
	if path == "" {
		return Default(now)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	return Parse(data, now)
}

func Parse(data []byte, now time.Time) (*model.Catalog, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	products := make([]model.Product, len(entries))
	for i, e := range entries {
		p := e.Product
		if e.ReleasedDaysAgo != nil {
			p.ReleasedAt = now.AddDate(0, 0, -*e.ReleasedDaysAgo).UTC()
		}
		products[i] = p
	}

	catalog, err := model.NewCatalog(products)
	if err != nil {
		return nil, errors.Wrap(err, "validate catalog")
	}
	return catalog, nil
}
