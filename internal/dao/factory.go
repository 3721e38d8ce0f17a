// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package dao

import (
	"log/slog"

	"github.com/a1s/ntable/internal/aws"
)

// LoaderFactory implements the Factory interface.
type LoaderFactory struct {
	client aws.Connection
	cache  *ListCache
	log    *slog.Logger
}

var _ Factory = (*LoaderFactory)(nil)

// NewFactory creates a new LoaderFactory. client may be nil when no S3 source is used.
func NewFactory(client aws.Connection, cache *ListCache, log *slog.Logger) *LoaderFactory {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cache == nil {
		cache = NewListCache(DefaultCacheTTL, nil)
	}

	return &LoaderFactory{
		client: client,
		cache:  cache,
		log:    log,
	}
}

// Client returns the AWS connection.
func (f *LoaderFactory) Client() aws.Connection {
	return f.client
}

// Cache returns the listing cache.
func (f *LoaderFactory) Cache() *ListCache {
	return f.cache
}

// Logger returns the logger.
func (f *LoaderFactory) Logger() *slog.Logger {
	return f.log
}
