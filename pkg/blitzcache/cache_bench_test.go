package blitzcache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func BenchmarkCache_Get_Hit(b *testing.B) {
	c, err := New[string, int]()
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer c.Dispose()

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		c.Get(ctx, fmt.Sprintf("key%d", i), Simple(func(context.Context) (int, error) { return i, nil }), time.Hour)
	}

	b.ResetTimer()
	b.ReportAllocs()

	producer := Simple(func(context.Context) (int, error) { return 500, nil })
	for i := 0; i < b.N; i++ {
		c.Get(ctx, "key500", producer, time.Hour)
	}
}

func BenchmarkCache_Get_Hit_Parallel(b *testing.B) {
	c, err := New[string, int]()
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer c.Dispose()

	ctx := context.Background()
	producer := Simple(func(context.Context) (int, error) { return 500, nil })
	c.Get(ctx, "key500", producer, time.Hour)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get(ctx, "key500", producer, time.Hour)
		}
	})
}

func BenchmarkCache_Get_MissThenProduce(b *testing.B) {
	c, err := New[string, int]()
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer c.Dispose()

	ctx := context.Background()
	producer := Simple(func(context.Context) (int, error) { return 1, nil })

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		c.Get(ctx, fmt.Sprintf("key%d", i), producer, time.Hour)
	}
}

func BenchmarkCache_ThunderingHerd_Parallel(b *testing.B) {
	c, err := New[string, int]()
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer c.Dispose()

	ctx := context.Background()
	producer := Simple(func(context.Context) (int, error) { return 1, nil })

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get(ctx, "shared", producer, time.Hour)
		}
	})
}

func BenchmarkValueSizer_Size(b *testing.B) {
	s := NewValueSizer(DefaultSizerOptions())
	v := map[string][]int{"a": {1, 2, 3, 4, 5}, "b": {6, 7, 8}}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.Size(v)
	}
}
