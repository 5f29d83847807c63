// Package embedding provides the pluggable text-embedding interface
// behind the semantic index (spec.md's C3 component) and a dependency-free
// default implementation.
//
// A real deployment is expected to supply an Engine backed by a hosted or
// local embedding model; this package ships localhash, a deterministic
// character-trigram hashing engine, so the semantic index is exercisable
// and testable without a network call or a model download. Availability
// is decided once at startup: if no engine can be constructed, the
// semantic index component reports itself unavailable rather than
// blocking document writes.
package embedding

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
)

// ErrUnavailable is returned by Engine implementations that cannot serve
// embeddings (e.g. an external model failed to load at startup).
var ErrUnavailable = errors.New("embedding engine unavailable")

// Dimension is the fixed vector width every Engine in this package
// produces, matching the semantic index's "fixed dimension" invariant.
const Dimension = 256

// Engine computes a dense vector for a piece of text.
type Engine interface {
	// Embed returns a Dimension-length vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// localHashEngine is a deterministic, dependency-free Engine: it hashes
// overlapping character trigrams into buckets of a fixed-width vector and
// L2-normalises the result. It captures enough lexical overlap for cosine
// similarity search to behave sensibly in tests and small deployments
// without requiring a trained model.
type localHashEngine struct{}

// NewLocalHash returns an Engine that never fails and requires no external
// resources.
func NewLocalHash() Engine {
	return localHashEngine{}
}

func (localHashEngine) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, Dimension)
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return v, nil
	}

	runes := []rune(text)
	const n = 3
	if len(runes) < n {
		addTrigram(v, string(runes))
	} else {
		for i := 0; i+n <= len(runes); i++ {
			addTrigram(v, string(runes[i:i+n]))
		}
	}

	normalise(v)
	return v, nil
}

func addTrigram(v []float32, gram string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(gram))
	idx := h.Sum32() % uint32(len(v))
	v[idx]++
}

func normalise(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range v {
		v[i] /= norm
	}
}
