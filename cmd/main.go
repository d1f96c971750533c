package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tallykit/tally"
)

func main() {
	var (
		start      = flag.Int64("start", 0, "initial counter value")
		workers    = flag.Int64("workers", 10, "number of workers to spawn")
		increments = flag.Int64("increments", 100, "increments per worker")
		limit      = flag.Int("limit", 0, "max concurrently executing workers (0 = unlimited)")
		verbose    = flag.Bool("v", false, "print per-worker completion events")
	)
	flag.Parse()

	ctx := context.Background()

	c, err := tally.NewCounter(*start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tally:", err)
		os.Exit(1)
	}

	opts := []tally.Option{}
	if *limit > 0 {
		opts = append(opts, tally.WithLimit(*limit))
	}
	if *verbose && *workers > 0 {
		opts = append(opts, tally.WithEventBuffer(int(*workers)))
	}

	g := tally.NewGroup(ctx, c, opts...)
	for i := int64(0); i < *workers; i++ {
		if _, err := g.Spawn(fmt.Sprintf("worker-%d", i), *increments); err != nil {
			fmt.Fprintln(os.Stderr, "tally:", err)
			os.Exit(1)
		}
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "tally:", err)
		os.Exit(1)
	}

	if g.Events() != nil {
		for ev := range g.Events() {
			fmt.Printf("%s %s in %s\n", ev.Worker.Name, ev.Kind, ev.Elapsed)
		}
	}

	total, err := c.Value()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tally:", err)
		os.Exit(1)
	}
	fmt.Println("Result:", total)
}
