package reconcile_test

import (
	"fmt"
	"testing"

	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/reconcile"
	"github.com/yaklabco/gomdview/pkg/selection"
)

func benchmarkSequence(n int, tail string) []*block.Descriptor {
	seq := make([]*block.Descriptor, 0, n)
	for i := range n - 1 {
		if i%5 == 0 {
			seq = append(seq, heading(fmt.Sprintf("Section %d", i)))
			continue
		}
		seq = append(seq, paragraph(fmt.Sprintf("Paragraph %d of the document.", i)))
	}
	return append(seq, paragraph(tail))
}

// Benchmark a streaming step where only the last block grows.
func BenchmarkReconcileTailChange(b *testing.B) {
	engine := reconcile.New(&recorder{}, reconcile.WithTracker(selection.NewTracker()))
	if _, err := engine.Reconcile(benchmarkSequence(200, "tail")); err != nil {
		b.Fatal(err)
	}
	seqs := [2][]*block.Descriptor{
		benchmarkSequence(200, "tail grows"),
		benchmarkSequence(200, "tail grows more"),
	}

	b.ResetTimer()
	for i := range b.N {
		if _, err := engine.Reconcile(seqs[i%2]); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark the same step when the stable prefix is skipped.
func BenchmarkReconcileFromStable(b *testing.B) {
	engine := reconcile.New(&recorder{}, reconcile.WithTracker(selection.NewTracker()))
	if _, err := engine.Reconcile(benchmarkSequence(200, "tail")); err != nil {
		b.Fatal(err)
	}
	seqs := [2][]*block.Descriptor{
		benchmarkSequence(200, "tail grows"),
		benchmarkSequence(200, "tail grows more"),
	}

	b.ResetTimer()
	for i := range b.N {
		if _, err := engine.ReconcileFrom(199, seqs[i%2]); err != nil {
			b.Fatal(err)
		}
	}
}
