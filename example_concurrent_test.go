// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples with concurrent producer/consumer
// goroutines. The hazard-record handoff synchronizes through atomic
// orderings the race detector cannot observe, so these are excluded
// from race testing. The examples are correct.

package msq_test

import (
	"fmt"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/msq"
)

// Example_producerConsumer runs the classic throughput harness: two
// producers each push 1..1000, three consumers drain and sum.
func Example_producerConsumer() {
	const perProducer = 1000
	q := msq.NewMSQueue[int](8)

	var sum atomix.Int64
	var producersDone atomix.Int32
	var wg sync.WaitGroup

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= perProducer; i++ {
				v := i
				_ = q.Enqueue(&v)
			}
			producersDone.Add(1)
		}()
	}

	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for {
				v, err := q.Dequeue()
				if err == nil {
					sum.Add(int64(v))
					backoff.Reset()
					continue
				}
				if producersDone.Load() == 2 && q.Empty() {
					return
				}
				backoff.Wait()
			}
		}()
	}

	wg.Wait()
	q.Close()

	st := q.Stats()
	fmt.Println("sum:", sum.Load())
	fmt.Println("popped:", st.SuccessfulDequeues)
	fmt.Println("leaked nodes:", st.ConstructedNodes-st.DestructedNodes)

	// Output:
	// sum: 1001000
	// popped: 2000
	// leaked nodes: 0
}
