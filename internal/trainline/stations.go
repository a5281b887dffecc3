package trainline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"railbot/internal/types"
)

type Station struct {
	ID   types.StationID `json:"id"`
	Name string          `json:"name"`
}

type stationsResponse struct {
	Stations []Station `json:"stations"`
}

// ResolveStation maps a free-text place name to the station id the search
// endpoint understands. The lookup is a search-context query and the first
// match wins; there is no disambiguation step. An empty result is an error,
// never a usable id.
func (c *Client) ResolveStation(ctx context.Context, place string) (types.StationID, error) {
	q := url.Values{}
	q.Set("context", "search")
	q.Set("q", place)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+"/stations?"+q.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "trainline: build stations request")
	}
	req.Header.Set("x-user-agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "trainline: stations call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("trainline: stations returned %d", resp.StatusCode)
	}

	var body stationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "trainline: decode stations")
	}
	if len(body.Stations) == 0 || body.Stations[0].ID == "" {
		return "", errors.Errorf("trainline: no station found for %q", place)
	}
	return body.Stations[0].ID, nil
}
