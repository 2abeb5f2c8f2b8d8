package trellis

import (
	"net"
	"net/http"
	"time"
)

// transportWithConnectTimeout builds an HTTP transport whose dial timeout is
// shorter than the overall request timeout, so an unreachable provider fails
// fast while a slow generation is still allowed to finish.
func transportWithConnectTimeout(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
