package autosave

import (
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	uploadHTTPClientTimeout         = 30 * time.Second
	uploadHTTPDialTimeout           = 5 * time.Second
	uploadHTTPKeepAlive             = 30 * time.Second
	uploadHTTPTLSHandshakeTimeout   = 5 * time.Second
	uploadHTTPResponseHeaderTimeout = 10 * time.Second
	uploadHTTPExpectContinueTimeout = 1 * time.Second
	uploadHTTPIdleConnTimeout       = 90 * time.Second

	uploadRetryMax = 3
)

var uploadHTTPTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   uploadHTTPDialTimeout,
		KeepAlive: uploadHTTPKeepAlive,
	}).DialContext,
	TLSHandshakeTimeout:   uploadHTTPTLSHandshakeTimeout,
	ResponseHeaderTimeout: uploadHTTPResponseHeaderTimeout,
	ExpectContinueTimeout: uploadHTTPExpectContinueTimeout,
	IdleConnTimeout:       uploadHTTPIdleConnTimeout,
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   uploadHTTPClientTimeout,
		Transport: uploadHTTPTransport,
	}
}

// newRetryableHTTPClient retries failed uploads up to retryMax times.
// A zero wait keeps the retryablehttp defaults.
func newRetryableHTTPClient(retryMax int, wait time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = nil
	retryClient.HTTPClient = newHTTPClient()
	if wait > 0 {
		retryClient.RetryWaitMin = wait
		retryClient.RetryWaitMax = wait
	}

	return retryClient.StandardClient()
}
