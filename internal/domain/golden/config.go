package golden

import "time"

// Config holds runtime knobs for the golden record service.
type Config struct {
	EmbeddingModel     string
	DefaultTopK        int
	MaxTopK            int
	ResultCacheTTL     time.Duration
	TopRecommendations int
}
