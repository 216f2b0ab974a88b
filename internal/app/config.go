package app

import "time"

type Config struct {
	Port         string
	ProductsUrl  string
	UsersUrl     string
	SendPage     bool
	FetchTimeout time.Duration
	// ViewIdle unmounts views that have not been requested for this long.
	ViewIdle time.Duration
	// RateLimit caps outbound requests per second. Zero means unlimited.
	RateLimit float64
}

func DefaultConfig() Config {
	return Config{
		Port:         "8000",
		ProductsUrl:  "http://localhost:3001",
		UsersUrl:     "https://jsonplaceholder.typicode.com",
		FetchTimeout: 10 * time.Second,
		ViewIdle:     15 * time.Minute,
		RateLimit:    20,
	}
}
