package models

import "time"

// SystemMetrics is a point-in-time view of service counters.
type SystemMetrics struct {
	CacheHitRatio          float64   `json:"cacheHitRatio"`
	CacheHits              uint64    `json:"cacheHits"`
	CacheMisses            uint64    `json:"cacheMisses"`
	RequestsTotal          uint64    `json:"requestsTotal"`
	AverageRequestDuration float64   `json:"averageRequestDurationMs"`
	StoreQueryCount        uint64    `json:"storeQueryCount"`
	AverageStoreQueryMs    float64   `json:"averageStoreQueryDurationMs"`
	AutoCompletions        uint64    `json:"autoCompletions"`
	WriteFailures          uint64    `json:"writeFailures"`
	Goroutines             int       `json:"goroutines"`
	GeneratedAt            time.Time `json:"generatedAt"`
}
