package main

import (
	"fmt"

	"github.com/latticerun/reactor"
)

func main() {
	count := reactor.Atom(0)
	doubled := reactor.Computed(func() int { return count.Get() * 2 })

	handle := reactor.Effect(func() func() {
		fmt.Println("doubled:", doubled.Get())
		return nil
	})
	defer handle.Dispose()

	count.Set(1)

	reactor.Batch(func() any {
		count.Set(2)
		count.Set(3)
		count.Set(4)
		return nil
	})

	fmt.Println("final count:", count.Get(), "final doubled:", doubled.Get())
}
