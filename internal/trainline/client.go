// README: trainline.eu API client (station lookup + trip search).
package trainline

import "net/http"

const (
	apiPrefix = "/api/v5_1"
	// The public web frontend's agent string; the API rejects unknown agents.
	userAgent = "CaptainTrain/1509096354(web) (Ember 2.12.2)"
)

// Client talks to the trainline.eu REST API. It deliberately carries no
// timeout or retry policy: a hung remote call hangs the turn.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}
