package pagination

import "testing"

// BenchmarkComputeView measures selector construction for a large collection.
func BenchmarkComputeView(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ComputeView(i%10000+1, 10000, DefaultWindowRadius)
	}
}
