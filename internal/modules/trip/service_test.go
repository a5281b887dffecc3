// README: Orchestration tests: deferred round trips, concurrent legs, soft faults.
package trip

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"railbot/internal/modules/profile"
	"railbot/internal/trainline"
)

// fakeSearcher records issued requests and answers from a canned result.
type fakeSearcher struct {
	mu       sync.Mutex
	requests []trainline.SearchRequest
	result   trainline.SearchResult
	err      error
}

func (f *fakeSearcher) SearchTrips(_ context.Context, search trainline.SearchRequest) (trainline.SearchResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, search)
	f.mu.Unlock()
	if f.err != nil {
		return trainline.SearchResult{}, f.err
	}
	return f.result, nil
}

type fakePatcher struct {
	mu     sync.Mutex
	calls  int
	email  string
	key    string
	fields profile.PatchFields
}

func (f *fakePatcher) Patch(_ context.Context, email, accessKey string, fields profile.PatchFields) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.email, f.key, f.fields = email, accessKey, fields
	return &profile.Profile{Email: email, AccessKey: accessKey}, nil
}

func trainResult() trainline.SearchResult {
	dep := time.Date(2018, 7, 14, 9, 5, 0, 0, time.UTC)
	return trainline.SearchResult{
		OK:       true,
		Trips:    []trainline.Trip{{DepartureDate: dep, ArrivalDate: dep.Add(2 * time.Hour), Cents: 4250}},
		Segments: []trainline.Segment{{TransportationMean: "train", TravelClass: "economy"}},
		Folders:  []trainline.Folder{{Flexibility: "nonflexi"}},
	}
}

func TestSearch_DeferredWhenReturnDateMissing(t *testing.T) {
	resolver := newFakeResolver()
	searcher := &fakeSearcher{result: trainResult()}
	svc := NewService(resolver, searcher, &fakePatcher{})

	c := roundTrip
	c.ReturnDate = ""
	c.NeedReturnDate = true

	outcome, err := svc.Search(context.Background(), SearchCommand{Criteria: c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.NeedReturnDate {
		t.Error("expected NeedReturnDate outcome")
	}
	if len(searcher.requests) != 0 {
		t.Errorf("no remote search may run, got %d", len(searcher.requests))
	}
	if len(resolver.calls) != 0 {
		t.Errorf("no station resolution may run, got %d", len(resolver.calls))
	}
}

func TestSearch_OneWay(t *testing.T) {
	searcher := &fakeSearcher{result: trainResult()}
	svc := NewService(newFakeResolver(), searcher, &fakePatcher{})

	outcome, err := svc.Search(context.Background(), SearchCommand{Criteria: oneWay})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searcher.requests) != 1 {
		t.Fatalf("expected 1 search, got %d", len(searcher.requests))
	}
	if !strings.HasPrefix(outcome.Speech, "Trajet Aller : Paris -> Lyon") {
		t.Errorf("speech = %q", outcome.Speech)
	}
	if !strings.Contains(outcome.Speech, "42.5€") {
		t.Errorf("itinerary row missing from %q", outcome.Speech)
	}
}

func TestSearch_RoundTripRunsBothLegs(t *testing.T) {
	searcher := &fakeSearcher{result: trainResult()}
	svc := NewService(newFakeResolver(), searcher, &fakePatcher{})

	outcome, err := svc.Search(context.Background(), SearchCommand{Criteria: roundTrip})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searcher.requests) != 2 {
		t.Fatalf("expected 2 searches, got %d", len(searcher.requests))
	}

	aller := strings.Index(outcome.Speech, "Trajet Aller : Paris -> Lyon")
	retour := strings.Index(outcome.Speech, "Trajet Retour : Lyon -> Paris")
	if aller == -1 || retour == -1 {
		t.Fatalf("both headers must appear, got %q", outcome.Speech)
	}
	if aller > retour {
		t.Error("outbound must precede return")
	}
	if !strings.Contains(outcome.Speech, "\n\n") {
		t.Error("legs must be separated by a blank line")
	}
}

func TestSearch_RemoteFailureDegradesToEmptyItinerary(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("search down")}
	svc := NewService(newFakeResolver(), searcher, &fakePatcher{})

	outcome, err := svc.Search(context.Background(), SearchCommand{Criteria: oneWay})
	if err != nil {
		t.Fatalf("remote failure must not fail the turn: %v", err)
	}
	if outcome.Speech != "Trajet Aller : Paris -> Lyon, le samedi 14 juillet 2018" {
		t.Errorf("expected bare header, got %q", outcome.Speech)
	}
}

func TestSearch_NonSuccessResultDegradesToEmptyItinerary(t *testing.T) {
	searcher := &fakeSearcher{result: trainline.SearchResult{OK: false}}
	svc := NewService(newFakeResolver(), searcher, &fakePatcher{})

	outcome, err := svc.Search(context.Background(), SearchCommand{Criteria: oneWay})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(outcome.Speech, "\n") != 0 {
		t.Errorf("expected no itinerary rows, got %q", outcome.Speech)
	}
}

func TestSearch_ResolutionFaultPropagates(t *testing.T) {
	resolver := newFakeResolver()
	resolver.err = errors.New("lookup down")
	svc := NewService(resolver, &fakeSearcher{result: trainResult()}, &fakePatcher{})

	if _, err := svc.Search(context.Background(), SearchCommand{Criteria: oneWay}); err == nil {
		t.Fatal("station resolution faults must propagate")
	}
}

func TestSearch_SavesOriginDestinationForKnownUser(t *testing.T) {
	patcher := &fakePatcher{}
	svc := NewService(newFakeResolver(), &fakeSearcher{result: trainResult()}, patcher)

	_, err := svc.Search(context.Background(), SearchCommand{
		Criteria: oneWay,
		User:     &profile.Profile{Email: "jean@example.com", AccessKey: "key-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patcher.calls != 1 {
		t.Fatalf("expected 1 patch, got %d", patcher.calls)
	}
	if patcher.email != "jean@example.com" || patcher.key != "key-1" {
		t.Errorf("patch credentials wrong: %s / %s", patcher.email, patcher.key)
	}
	if patcher.fields.Origin == nil || *patcher.fields.Origin != "Paris" {
		t.Errorf("origin not saved")
	}
	if patcher.fields.Destination == nil || *patcher.fields.Destination != "Lyon" {
		t.Errorf("destination not saved")
	}
}

func TestSearch_AnonymousUserSkipsPatch(t *testing.T) {
	patcher := &fakePatcher{}
	svc := NewService(newFakeResolver(), &fakeSearcher{result: trainResult()}, patcher)

	if _, err := svc.Search(context.Background(), SearchCommand{Criteria: oneWay}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patcher.calls != 0 {
		t.Errorf("anonymous turn must not patch, got %d calls", patcher.calls)
	}
}
