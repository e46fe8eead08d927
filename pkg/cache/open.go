package cache

import (
	"context"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
)

// Backend names a cache implementation.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendMongo Backend = "mongo"
)

// Backends lists the accepted backend names.
var Backends = []Backend{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Config selects and configures a backend for [Open].
type Config struct {
	Backend Backend
	Dir     string // file
	Addr    string // redis host:port
	URI     string // mongo connection string
	Prefix  string // redis key prefix
}

// Open returns the backend cfg names. An empty backend is [BackendFile].
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		if cfg.Dir == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "file cache needs a directory")
		}
		return nonNil(NewFileCache(cfg.Dir))
	case BackendRedis:
		return nonNil(NewRedisCache(ctx, cfg.Addr, cfg.Prefix))
	case BackendMongo:
		return nonNil(NewMongoCache(ctx, cfg.URI, "", ""))
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown cache backend %q", cfg.Backend)
	}
}

// nonNil keeps a typed nil pointer out of the returned interface.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
