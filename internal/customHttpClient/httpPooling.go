package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/propdocs/internal/config"
)

var (
	customTransport = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
	}
	client *http.Client
	once   sync.Once
)

// Shared returns the pooled client every model SDK is built with, so vision,
// answer and summary calls reuse connections. Deadlines come from the request
// context, not a client timeout.
func Shared() *http.Client {
	once.Do(func() {
		client = &http.Client{Transport: customTransport}
	})
	return client
}
