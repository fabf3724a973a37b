package client

import (
	"net/http"
	"time"
)

func fetch(url string) (*http.Response, error) {
	return http.Get(url) // want `avoid http.Get: it uses http.DefaultClient without timeout`
}

func send(url string) (*http.Response, error) {
	return http.DefaultClient.Get(url) // want `avoid http.DefaultClient: it has no timeout`
}

func pooled(url string) (*http.Response, error) {
	c := &http.Client{Timeout: time.Second}
	return c.Get(url)
}
