package base

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Json is a convenience alias for ad-hoc request bodies.
type Json map[string]interface{}

// ReqCallback customizes a request before it is sent.
type ReqCallback func(req *resty.Request)

var (
	UserAgent      = "driveguard/1.0"
	DefaultTimeout = time.Second * 60
)

// NewRestyClient returns a client with the shared defaults. No transport
// level retries are configured: a failed download or submission surfaces
// immediately and is handled by the pipeline, never replayed silently.
func NewRestyClient() *resty.Client {
	return resty.New().
		SetHeader("user-agent", UserAgent).
		SetTimeout(DefaultTimeout)
}
