package cache

import (
	"context"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           1000,
		NumShards:          16,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
	}
}

func (c MemoryConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

// Memory keeps pages in a sharded in-process sturdyc client.
type Memory struct {
	client *sturdyc.Client[[]*todo.Todo]
}

func NewMemory(cfg MemoryConfig) (*Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	return &Memory{
		client: sturdyc.New[[]*todo.Todo](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage, opts...),
	}, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]*todo.Todo, bool, error) {
	page, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return clonePage(page), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, page []*todo.Todo) error {
	m.client.Set(key, clonePage(page))
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	for _, key := range m.client.ScanKeys() {
		m.client.Delete(key)
	}
	return nil
}
