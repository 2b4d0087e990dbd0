package background

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

func producer(id string, data chan<- int) func(context.Context) {
	return func(ctx context.Context) {
		for {
			select {
			case data <- rand.Int():
			case <-ctx.Done():
				fmt.Println(id, "done")
				return
			}
		}
	}
}

func consumer(id string, data <-chan int) func(context.Context) {
	return func(ctx context.Context) {
		for {
			select {
			case _, ok := <-data:
				if !ok {
					fmt.Println(id, "exited on closed data channel")
					return
				}
			case <-ctx.Done():
				fmt.Println(id, "done")
				return
			}
		}
	}
}

func ExampleScope() {
	data1, data2, data3 := make(chan int), make(chan int), make(chan int)

	write1, cancelWrite1 := NewScope(context.Background())
	read1, cancelRead1 := NewScope(context.Background())
	write2, cancelWrite2 := NewScope(context.Background())
	read3, cancelRead3 := NewScope(context.Background())

	write1.Go(producer("DATA-1 *PRODUCER*", data1))
	read1.Go(consumer("DATA-1 *CONSUMER*", data1))
	write2.Go(producer("DATA-2 *PRODUCER*", data2)) // blocked due to no consumer for data2
	read3.Go(consumer("DATA-3 *CONSUMER*", data3))  // blocked due to no producer for data3

	time.Sleep(50 * time.Millisecond)

	// Cancel all background scopes in desired order:
	cancelWrite2()
	cancelRead3()
	cancelWrite1()
	cancelRead1()

	// Output:
	//
	// DATA-2 *PRODUCER* done
	// DATA-3 *CONSUMER* done
	// DATA-1 *PRODUCER* done
	// DATA-1 *CONSUMER* done
}

func ExampleScope_parentCancel() {
	parent, cancelParent := context.WithCancel(context.Background())
	scope, cancel := NewScope(parent)
	defer cancel()

	data := make(chan int)
	scope.Go(producer("*PRODUCER*", data))

	cancelParent()
	scope.Wait()
	fmt.Println(scope.Context().Err() != nil)

	// Output:
	// *PRODUCER* done
	// true
}

func ExampleScope_expiredOrActive() {
	scope1, cancel1 := NewScope(context.Background())
	defer cancel1()
	scope2, cancel2 := NewScope(context.Background())
	cancel2()
	// expired condition is: err != nil, if false than scope is in active state
	fmt.Println(scope1.Context().Err() != nil, scope2.Context().Err() != nil)

	// Output:
	// false true
}
