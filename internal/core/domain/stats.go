package domain

// CacheStats - накопительные счетчики кэша с момента старта процесса
type CacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sets    uint64 `json:"sets"`
	Errors  uint64 `json:"errors"`
	Healthy bool   `json:"healthy"`
}
