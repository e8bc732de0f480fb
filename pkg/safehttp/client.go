// Package safehttp provides the shared http client and transport used for
// talking to the remote store, with keep-alive enabled since every request
// goes to the same host.
package safehttp

import (
	"net"
	"net/http"
	"time"
)

var dialer = &net.Dialer{
	Timeout:   30 * time.Second,
	KeepAlive: 30 * time.Second,
}

// KeepAliveTransport is a transport with the same defaults as
// http.DefaultTransport. It can be used as the base of a transport chain.
var KeepAliveTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	DialContext:           dialer.DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// ClientWithKeepAlive is an http client that can be used for repeated
// requests to the same host.
var ClientWithKeepAlive = &http.Client{
	Timeout:   time.Minute,
	Transport: KeepAliveTransport,
}
