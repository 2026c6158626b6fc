// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package transform

import (
	"math/big"
	"testing"

	"github.com/n42blockchain/N42/feltutil"
)

func TestTransformAllZero(t *testing.T) {
	tr := New()
	in := make([]*big.Int, feltutil.FieldElementsPerBlob)
	for i := range in {
		in[i] = big.NewInt(0)
	}
	out := tr.Transform(in)
	if len(out) != feltutil.FieldElementsPerBlob {
		t.Fatalf("expected %d coefficients, got %d", feltutil.FieldElementsPerBlob, len(out))
	}
	for i, v := range out {
		if v.Sign() != 0 {
			t.Fatalf("element %d: expected zero, got %s", i, v.String())
		}
	}
}

func TestTransformConstantEvaluationYieldsConstantCoefficient(t *testing.T) {
	tr := New()
	c := big.NewInt(7)
	in := make([]*big.Int, feltutil.FieldElementsPerBlob)
	for i := range in {
		in[i] = new(big.Int).Set(c)
	}
	out := tr.Transform(in)
	// The polynomial whose evaluations are the constant c everywhere
	// has a single nonzero coefficient, c, at position 0.
	if out[0].Cmp(c) != 0 {
		t.Fatalf("coefficient 0: expected %s, got %s", c.String(), out[0].String())
	}
	for i := 1; i < len(out); i++ {
		if out[i].Sign() != 0 {
			t.Fatalf("coefficient %d: expected zero, got %s", i, out[i].String())
		}
	}
}

func TestBuildPointsAreDistinctNonZero(t *testing.T) {
	tr := New()
	seen := map[string]bool{}
	for i, p := range tr.points {
		if p.Sign() == 0 {
			t.Fatalf("point %d is zero", i)
		}
		s := p.String()
		if seen[s] {
			t.Fatalf("point %d duplicates an earlier point", i)
		}
		seen[s] = true
	}
}
