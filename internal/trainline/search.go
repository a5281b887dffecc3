package trainline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"railbot/internal/types"
)

// SearchRequest mirrors the body of POST /api/v5_1/search.
type SearchRequest struct {
	Search SearchBody `json:"search"`
}

type SearchBody struct {
	DepartureDate      string           `json:"departure_date"`
	DepartureStationID types.StationID  `json:"departure_station_id"`
	ArrivalStationID   types.StationID  `json:"arrival_station_id"`
	ReturnDate         *string          `json:"return_date"`
	Passengers         []Passenger      `json:"passengers"`
	Systems            []string         `json:"systems"`
	ExchangeablePart   *string          `json:"exchangeable_part"`
	ViaStationID       *types.StationID `json:"via_station_id"`
	ExchangeablePnrID  *string          `json:"exchangeable_pnr_id"`
}

type Passenger struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Age   int      `json:"age"`
	Cards []string `json:"cards"`
	CUI   *string  `json:"cui"`
}

type Trip struct {
	DepartureDate time.Time `json:"departure_date"`
	ArrivalDate   time.Time `json:"arrival_date"`
	Cents         int64     `json:"cents"`
	Currency      string    `json:"currency"`
}

type Segment struct {
	TransportationMean string `json:"transportation_mean"`
	TravelClass        string `json:"travel_class"`
}

type Folder struct {
	Flexibility string `json:"flexibility"`
}

// SearchResult carries the three positionally aligned sequences the search
// endpoint returns: row i of trips, segments, and folders describes the same
// itinerary option. OK reports whether the call itself succeeded; a failed
// call is not an error, it yields OK=false and empty sequences.
type SearchResult struct {
	OK       bool
	Trips    []Trip
	Segments []Segment
	Folders  []Folder
}

// Option is one itinerary row assembled from the aligned sequences.
type Option struct {
	Departure   time.Time
	Arrival     time.Time
	Cents       int64
	Mean        string
	TravelClass string
	Flexibility string
}

// Options zips trips, segments, and folders into composite rows so callers
// never index the three sequences separately.
func (r SearchResult) Options() []Option {
	n := len(r.Trips)
	if len(r.Segments) < n {
		n = len(r.Segments)
	}
	if len(r.Folders) < n {
		n = len(r.Folders)
	}
	opts := make([]Option, 0, n)
	for i := 0; i < n; i++ {
		opts = append(opts, Option{
			Departure:   r.Trips[i].DepartureDate,
			Arrival:     r.Trips[i].ArrivalDate,
			Cents:       r.Trips[i].Cents,
			Mean:        r.Segments[i].TransportationMean,
			TravelClass: r.Segments[i].TravelClass,
			Flexibility: r.Folders[i].Flexibility,
		})
	}
	return opts
}

type searchResponse struct {
	Trips    []Trip    `json:"trips"`
	Segments []Segment `json:"segments"`
	Folders  []Folder  `json:"folders"`
}

// SearchTrips runs one fully-built leg against the search endpoint. A non-2xx
// status is not an error: the result comes back with OK=false so the caller
// can degrade to an empty itinerary instead of failing the turn.
func (c *Client) SearchTrips(ctx context.Context, search SearchRequest) (SearchResult, error) {
	payload, err := json.Marshal(search)
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "trainline: encode search")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/search", bytes.NewReader(payload))
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "trainline: build search request")
	}
	req.Header.Set("x-user-agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "trainline: search call")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SearchResult{OK: false}, nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return SearchResult{}, errors.Wrap(err, "trainline: decode search")
	}
	return SearchResult{
		OK:       true,
		Trips:    body.Trips,
		Segments: body.Segments,
		Folders:  body.Folders,
	}, nil
}
