package business

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// ProductMap is the immutable product to catalogue file mapping, loaded
// once at process start. Canonical keys are stable strings; the mobile
// client still addresses products by legacy numeric aliases which are
// translated before lookup.
type ProductMap struct {
	products map[string][]string
	aliases  map[int64]string
}

type productMapFile struct {
	Products map[string][]string `json:"products"`
	Aliases  map[string]string   `json:"aliases"`
}

// NewProductMap builds a map from explicit data, mostly used by tests.
func NewProductMap(products map[string][]string, aliases map[int64]string) *ProductMap {
	if products == nil {
		products = map[string][]string{}
	}
	if aliases == nil {
		aliases = map[int64]string{}
	}
	return &ProductMap{products: products, aliases: aliases}
}

// LoadProductMap reads the mapping from a JSON file when path is set
// and falls back to the compiled defaults otherwise.
func LoadProductMap(path string) (*ProductMap, error) {
	if path == "" {
		return DefaultProductMap(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read product map file")
	}

	var file productMapFile
	err = json.Unmarshal(raw, &file)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse product map file")
	}

	aliases := make(map[int64]string, len(file.Aliases))
	for rawAlias, canonical := range file.Aliases {
		alias, aliasErr := strconv.ParseInt(rawAlias, 10, 64)
		if aliasErr != nil {
			return nil, errors.Wrapf(aliasErr, "invalid numeric alias %q", rawAlias)
		}
		if _, ok := file.Products[canonical]; !ok {
			return nil, errors.Errorf("alias %q maps to unknown product %q", rawAlias, canonical)
		}
		aliases[alias] = canonical
	}

	return NewProductMap(file.Products, aliases), nil
}

// Canonical resolves a product identifier, translating numeric aliases
// to their canonical key first. ok is false for wholly unknown
// identifiers.
func (pm *ProductMap) Canonical(key string) (string, bool) {
	if alias, err := strconv.ParseInt(key, 10, 64); err == nil {
		if canonical, ok := pm.aliases[alias]; ok {
			key = canonical
		}
	}

	_, ok := pm.products[key]
	return key, ok
}

// FileNames returns the ordered expected original file names for a
// canonical product key.
func (pm *ProductMap) FileNames(canonical string) []string {
	return pm.products[canonical]
}

// DefaultProductMap is the compiled in mapping of the machinery product
// range to their catalogue documents.
func DefaultProductMap() *ProductMap {
	return NewProductMap(
		map[string][]string{
			"tape-extrusion-lines": {
				"Tape Extrusion Lines.pdf",
				"Tape Winders.pdf",
			},
			"circular-weaving-machines": {
				"Circular Weaving Machines.pdf",
			},
			"extrusion-coating-lines": {
				"Extrusion Coating Lines.pdf",
			},
			"flexo-printing-machines": {
				"Flexo Printing Machines.pdf",
			},
			"bag-conversion-lines": {
				"Bag Conversion Lines.pdf",
				"Liner Insertion Machines.pdf",
			},
			"recycling-lines": {
				"Recycling Lines.pdf",
			},
			"monofilament-lines": {
				"Monofilament Extrusion Lines.pdf",
			},
			"company-profile": {
				"Company Profile.pdf",
			},
		},
		map[int64]string{
			1: "tape-extrusion-lines",
			2: "circular-weaving-machines",
			3: "extrusion-coating-lines",
			4: "flexo-printing-machines",
			5: "bag-conversion-lines",
			6: "recycling-lines",
			7: "monofilament-lines",
			8: "company-profile",
		},
	)
}
