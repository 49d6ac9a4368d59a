// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq_test

import (
	"fmt"

	"code.hybscloud.com/msq"
)

// ExampleMSQueue shows the basic enqueue/dequeue cycle.
func ExampleMSQueue() {
	q := msq.NewMSQueue[string](1)
	defer q.Close()

	for _, s := range []string{"first", "second", "third"} {
		v := s
		_ = q.Enqueue(&v)
	}

	for {
		v, err := q.Dequeue()
		if msq.IsWouldBlock(err) {
			break
		}
		fmt.Println(v)
	}

	// Output:
	// first
	// second
	// third
}

// ExampleMSQueue_stats shows the counter surface after a small workload.
func ExampleMSQueue_stats() {
	q := msq.NewMSQueue[int](1)

	for i := 1; i <= 3; i++ {
		v := i
		_ = q.Enqueue(&v)
	}
	for range 3 {
		_, _ = q.Dequeue()
	}
	_, _ = q.Dequeue() // empty

	q.Close()
	st := q.Stats()
	fmt.Println("enqueued:", st.SuccessfulEnqueues)
	fmt.Println("dequeued:", st.SuccessfulDequeues)
	fmt.Println("empty:", st.EmptyDequeues)
	fmt.Println("leaked nodes:", st.ConstructedNodes-st.DestructedNodes)

	// Output:
	// enqueued: 3
	// dequeued: 3
	// empty: 1
	// leaked nodes: 0
}
