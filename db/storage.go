package db

import (
	"context"
	"fmt"
	"strings"
)

// Storage is the key-value port the attendance record is persisted through.
// Values are opaque strings; a missing key is reported with ok == false.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a Storage backend
type Options struct {
	Driver        string // memory, file or redis
	Dir           string // file driver: directory holding <key>.json files
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds the backend named by opts.Driver. The returned close func
// releases backend resources and is never nil.
func Open(ctx context.Context, opts Options) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "memory":
		return NewMemoryStorage(), noop, nil
	case "file":
		fs, err := NewFileStorage(opts.Dir)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	case "redis":
		client, err := InitializeRedisClient(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStorage(client), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
