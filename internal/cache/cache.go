// Package cache stores unfiltered todo pages keyed by their pagination
// window. Every write clears the whole cache.
package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
)

const (
	keyPrefix    = "todos"
	keySeparator = "::"
)

type PageCache interface {
	Get(ctx context.Context, key string) ([]*todo.Todo, bool, error)
	Set(ctx context.Context, key string, page []*todo.Todo) error
	Clear(ctx context.Context) error
}

// PageKey is deterministic in (limit, offset).
func PageKey(limit, offset int) string {
	return strings.Join([]string{
		keyPrefix,
		"limit=" + strconv.Itoa(limit),
		"offset=" + strconv.Itoa(offset),
	}, keySeparator)
}

func clonePage(page []*todo.Todo) []*todo.Todo {
	out := make([]*todo.Todo, len(page))
	for i, t := range page {
		out[i] = t.Clone()
	}
	return out
}

// Nop never stores anything. It is used when caching is switched off.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]*todo.Todo, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []*todo.Todo) error { return nil }
func (Nop) Clear(context.Context) error { return nil }
