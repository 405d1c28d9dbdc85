package semsearch

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix string

	embedder  Embedder
	model     string
	dimension int

	hnswM           int
	hnswEFConstruct int

	analyticsPoolSize    int
	storeQueryEmbeddings bool

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAuth sets an ACL username alongside the password.
func WithRedisAuth(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithDB selects a logical Redis database. Default: 0.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix sets the namespace prefix for all stored keys.
// Default: "semsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithEmbedder sets the text embedding provider. Required for ingesting
// chunks without precomputed vectors and for text queries.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEmbeddingModel declares the single embedding model the index accepts
// and its vector dimension. Default: text-embedding-3-small, 1536.
func WithEmbeddingModel(model string, dimension int) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = model
		c.dimension = dimension
	})
}

// WithHNSW configures HNSW index build parameters (M and EF construction).
// Defaults: M=32, EFConstruct=400.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithAnalyticsPoolSize bounds the worker pool that writes query log
// entries. Default: 8.
func WithAnalyticsPoolSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.analyticsPoolSize = size
	})
}

// WithQueryEmbeddingRetention stores the query vector alongside each log
// entry. Off by default; log entries keep text and counters only.
func WithQueryEmbeddingRetention() Option {
	return optionFunc(func(c *clientConfig) {
		c.storeQueryEmbeddings = true
	})
}

// WithLogger enables structured logging for background query log writes.
// Default: logging disabled.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
