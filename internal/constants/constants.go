package constants

import "time"

const (
	DefaultMaxCards       = 1000
	DefaultSearchDebounce = 300 * time.Millisecond
)

const (
	DatasetLoadTimeout = 30 * time.Second
	FetchTimeout       = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// chips per facet on a card
	MaxChipsPerFacet = 2
)

const (
	QuizMaxAttempts = 10000
	QuizAttemptTTL  = 2 * time.Hour
)
