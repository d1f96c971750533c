package tally_test

import (
	"context"
	"fmt"

	"github.com/tallykit/tally"
)

func ExampleRun() {
	total, err := tally.Run(context.Background(), 0, 10, 100)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Result:", total)
	// Output: Result: 1000
}

func ExampleGroup() {
	c, err := tally.NewCounter(0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	g := tally.NewGroup(context.Background(), c, tally.WithLimit(2))
	for i := 0; i < 4; i++ {
		if _, err := g.Spawn(fmt.Sprintf("worker-%d", i), 25); err != nil {
			fmt.Println("error:", err)
			return
		}
	}

	if err := g.Wait(); err != nil {
		fmt.Println("error:", err)
		return
	}

	total, err := c.Value()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Result:", total)
	// Output: Result: 100
}

func ExampleWorker_Join() {
	c, _ := tally.NewCounter(0)
	g := tally.NewGroup(context.Background(), c)

	w, _ := g.Spawn("solo", 3)
	if err := w.Join(); err != nil {
		fmt.Println("error:", err)
		return
	}

	total, _ := c.Value()
	fmt.Println("Result:", total)
	// Output: Result: 3
}
