// README: Client tests against a local httptest server.
package trainline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveStation_FirstMatchWins(t *testing.T) {
	var gotAgent, gotContext, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v5_1/stations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAgent = r.Header.Get("x-user-agent")
		gotContext = r.URL.Query().Get("context")
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"stations":[{"id":"4916","name":"Paris Gare de Lyon"},{"id":"4917","name":"Paris Est"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id, err := c.ResolveStation(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "4916" {
		t.Errorf("expected first station id, got %s", id)
	}
	if gotAgent != userAgent {
		t.Errorf("expected agent header %q, got %q", userAgent, gotAgent)
	}
	if gotContext != "search" || gotQuery != "Paris" {
		t.Errorf("unexpected query params context=%q q=%q", gotContext, gotQuery)
	}
}

func TestResolveStation_NoMatchIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stations":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.ResolveStation(context.Background(), "Nulle Part"); err == nil {
		t.Fatal("expected error for empty station list")
	}
}

func TestResolveStation_RemoteFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.ResolveStation(context.Background(), "Paris"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestSearchTrips_RequestBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v5_1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"trips":[],"segments":[],"folders":[]}`))
	}))
	defer srv.Close()

	req := SearchRequest{Search: SearchBody{
		DepartureDate:      "2026-08-29",
		DepartureStationID: "4916",
		ArrivalStationID:   "4676",
		Passengers:         []Passenger{{ID: "p1", Label: "adult", Age: 26, Cards: []string{}}},
		Systems:            []string{"sncf", "db", "idtgv"},
	}}

	c := NewClient(srv.URL)
	res, err := c.SearchTrips(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Error("expected OK result")
	}

	search, ok := got["search"].(map[string]any)
	if !ok {
		t.Fatalf("expected search envelope, got %v", got)
	}
	if search["departure_station_id"] != "4916" || search["arrival_station_id"] != "4676" {
		t.Errorf("station ids not carried: %v", search)
	}
	if search["return_date"] != nil {
		t.Errorf("one-way search must send null return_date, got %v", search["return_date"])
	}
	for _, key := range []string{"exchangeable_part", "via_station_id", "exchangeable_pnr_id"} {
		if v, present := search[key]; !present || v != nil {
			t.Errorf("expected explicit null %s, got %v (present=%v)", key, v, present)
		}
	}
}

func TestSearchTrips_NonSuccessIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.SearchTrips(context.Background(), SearchRequest{})
	if err != nil {
		t.Fatalf("remote rejection must not be an error, got %v", err)
	}
	if res.OK {
		t.Error("expected OK=false on non-2xx status")
	}
	if len(res.Options()) != 0 {
		t.Error("expected no options")
	}
}

func TestOptions_ZipsToShortestSequence(t *testing.T) {
	res := SearchResult{
		OK: true,
		Trips: []Trip{
			{Cents: 4250},
			{Cents: 12000},
			{Cents: 999},
		},
		Segments: []Segment{
			{TransportationMean: "train", TravelClass: "2ème classe"},
			{TransportationMean: "coach", TravelClass: ""},
		},
		Folders: []Folder{
			{Flexibility: "nonflexi"},
			{Flexibility: "semiflexi"},
		},
	}

	opts := res.Options()
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	first := opts[0]
	if first.Cents != 4250 || first.Mean != "train" || first.TravelClass != "2ème classe" || first.Flexibility != "nonflexi" {
		t.Errorf("row 0 not assembled from aligned sequences: %+v", first)
	}
}
