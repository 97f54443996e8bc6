package bank

import (
	"bytes"
	"context"

	_ "embed"
)

//go:embed seed.yaml
var seedPack []byte

// Seed loads the embedded sample pack.
func (l *Loader) Seed(ctx context.Context) (ImportResult, error) {
	return l.LoadYAML(ctx, bytes.NewReader(seedPack))
}
