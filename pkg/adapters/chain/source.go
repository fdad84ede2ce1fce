package chain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
)

// Source looks schemas up across several sources in order.
// Earlier sources shadow later ones, so a user directory can override the built-ins.
type Source struct {
	sources []ports.SchemaSource
}

// New creates a chain. Nil sources are skipped.
func New(sources ...ports.SchemaSource) *Source {
	c := &Source{}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Load returns the document from the first source that has it.
func (c *Source) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}

	for _, s := range c.sources {
		data, err := s.Load(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, schema.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", schema.ErrNotFound, name)
}

// List returns the sorted union of every member's names.
func (c *Source) List(ctx context.Context) ([]string, error) {
	var names []string
	for _, s := range c.sources {
		part, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		names = append(names, part...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Watch fans in the events of every watchable member.
// It returns ports.ErrNotWatchable when no member can be watched. If a member fails
// to start, the members already started are stopped before the error is returned.
func (c *Source) Watch(ctx context.Context) (<-chan string, error) {
	ctx, cancel := context.WithCancel(ctx)

	var inputs []<-chan string
	for _, s := range c.sources {
		w, ok := s.(ports.Watchable)
		if !ok {
			continue
		}
		ch, err := w.Watch(ctx)
		if err != nil {
			cancel()
			drain(inputs)
			return nil, err
		}
		inputs = append(inputs, ch)
	}
	if len(inputs) == 0 {
		cancel()
		return nil, ports.ErrNotWatchable
	}

	out := make(chan string, 1)
	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func(in <-chan string) {
			defer wg.Done()
			for name := range in {
				select {
				case out <- name:
				case <-ctx.Done():
					// Drain so the member can observe cancellation and close.
					for range in {
					}
					return
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()
	return out, nil
}

// drain waits for cancelled members to close their channels.
func drain(inputs []<-chan string) {
	for _, in := range inputs {
		for range in {
		}
	}
}
