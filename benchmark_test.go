// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

package msq_test

import (
	"runtime"
	"testing"

	"code.hybscloud.com/msq"
)

func BenchmarkEnqueue(b *testing.B) {
	q := msq.NewMSQueue[int](runtime.GOMAXPROCS(0) * 2)
	defer q.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		v := 1
		for pb.Next() {
			_ = q.Enqueue(&v)
		}
	})
}

func BenchmarkEnqueueDequeuePairs(b *testing.B) {
	q := msq.NewMSQueue[int](runtime.GOMAXPROCS(0) * 2)
	defer q.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		v := 1
		for pb.Next() {
			_ = q.Enqueue(&v)
			_, _ = q.Dequeue()
		}
	})
}

func BenchmarkDequeueEmpty(b *testing.B) {
	q := msq.NewMSQueue[int](runtime.GOMAXPROCS(0) * 2)
	defer q.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = q.Dequeue()
		}
	})
}
