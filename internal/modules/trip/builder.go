// README: Builds one fully-specified search leg from user criteria.
package trip

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"railbot/internal/trainline"
	"railbot/internal/types"
)

// StationResolver maps a free-text place name to a station id.
type StationResolver interface {
	ResolveStation(ctx context.Context, place string) (types.StationID, error)
}

// buildSearchRequest resolves both endpoints of one leg and assembles the
// search body. Origin and destination resolve concurrently with no ordering
// constraint between them; the request is only assembled once both ids are
// known. On the return leg the station roles are swapped and the return date
// replaces the departure date; every other field is identical.
func buildSearchRequest(ctx context.Context, resolver StationResolver, c Criteria, isReturn bool) (trainline.SearchRequest, error) {
	var originID, destinationID types.StationID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := resolver.ResolveStation(gctx, c.Origin)
		if err != nil {
			return err
		}
		originID = id
		return nil
	})
	g.Go(func() error {
		id, err := resolver.ResolveStation(gctx, c.Destination)
		if err != nil {
			return err
		}
		destinationID = id
		return nil
	})
	if err := g.Wait(); err != nil {
		return trainline.SearchRequest{}, fmt.Errorf("resolve stations: %w", err)
	}
	if originID == "" || destinationID == "" {
		return trainline.SearchRequest{}, fmt.Errorf("resolve stations: empty id for %q -> %q", c.Origin, c.Destination)
	}

	body := trainline.SearchBody{
		DepartureDate:      c.DepartureDate,
		DepartureStationID: originID,
		ArrivalStationID:   destinationID,
		Passengers:         []trainline.Passenger{defaultPassenger},
		Systems:            allowedSystems,
	}
	if isReturn {
		body.DepartureDate = c.ReturnDate
		body.DepartureStationID = destinationID
		body.ArrivalStationID = originID
	}
	return trainline.SearchRequest{Search: body}, nil
}
