package refdata

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/mind-engage/mindengage-merit/internal/storage"
)

//go:embed data/default.json
var defaultDataset []byte

// Default returns the dataset compiled into the binary.
func Default() (Dataset, error) {
	return Decode(bytes.NewReader(defaultDataset))
}

// Decode reads a JSON dataset. Unknown fields (logos, facts, ...) are ignored.
func Decode(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	for i := range ds.Universities {
		for j := range ds.Universities[i].Programs {
			p := &ds.Universities[i].Programs[j]
			p.Formula = fractionFormula(p.Formula)
		}
	}
	return ds, nil
}

// LoadBlob reads and decodes the dataset stored under key.
func LoadBlob(ctx context.Context, bs storage.BlobStore, key string) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	rc, err := bs.Get(key)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset %s: %w", key, err)
	}
	defer rc.Close()
	return Decode(rc)
}

// fractionFormula converts weights published as percentages (20/30/50) into
// fractions. Anything else is returned untouched.
func fractionFormula(f Formula) Formula {
	if f.Matriculation > 1 && f.Intermediate > 1 && f.EntryTest > 1 && math.Abs(f.Sum()-100) < 0.5 {
		return Formula{
			Matriculation: f.Matriculation / 100,
			Intermediate:  f.Intermediate / 100,
			EntryTest:     f.EntryTest / 100,
		}
	}
	return f
}
