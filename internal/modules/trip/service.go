// README: Trip search orchestration: build legs, run searches, synthesize speech.
package trip

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"railbot/internal/modules/profile"
	"railbot/internal/trainline"
)

// TripSearcher runs one built leg against the remote search endpoint.
type TripSearcher interface {
	SearchTrips(ctx context.Context, search trainline.SearchRequest) (trainline.SearchResult, error)
}

// ProfilePatcher saves the caller's last origin/destination. Best-effort,
// last writer wins.
type ProfilePatcher interface {
	Patch(ctx context.Context, email, accessKey string, fields profile.PatchFields) (*profile.Profile, error)
}

type Service struct {
	resolver StationResolver
	searcher TripSearcher
	profiles ProfilePatcher
}

func NewService(resolver StationResolver, searcher TripSearcher, profiles ProfilePatcher) *Service {
	return &Service{resolver: resolver, searcher: searcher, profiles: profiles}
}

// SearchCommand is one search turn. User carries the saved profile from the
// conversation context when the caller is identified, nil otherwise.
type SearchCommand struct {
	Criteria Criteria
	User     *profile.Profile
}

// Outcome of one search turn. NeedReturnDate means no search was run and the
// caller must be asked for the missing date; otherwise Speech holds the
// synthesized itinerary summary.
type Outcome struct {
	NeedReturnDate bool
	Speech         string
}

// Search orchestrates one search turn. A round trip runs both legs as
// independent concurrent units and concatenates outbound before return; a
// one-way trip runs a single leg. Remote search failures degrade to an empty
// itinerary, unresolvable stations propagate as errors.
func (s *Service) Search(ctx context.Context, cmd SearchCommand) (Outcome, error) {
	if cmd.Criteria.NeedReturnDate {
		log.Info().Msg("trip: return date missing, deferring search")
		return Outcome{NeedReturnDate: true}, nil
	}

	if cmd.User != nil {
		_, err := s.profiles.Patch(ctx, cmd.User.Email, cmd.User.AccessKey, profile.PatchFields{
			Origin:      &cmd.Criteria.Origin,
			Destination: &cmd.Criteria.Destination,
		})
		if err != nil {
			log.Warn().Err(err).Str("email", cmd.User.Email).Msg("trip: saving origin/destination failed")
		}
	}

	if cmd.Criteria.RoundTrip() {
		legs := make([][]trainline.Option, 2)
		g, gctx := errgroup.WithContext(ctx)
		for i, isReturn := range []bool{false, true} {
			i, isReturn := i, isReturn
			g.Go(func() error {
				options, err := s.searchLeg(gctx, cmd.Criteria, isReturn)
				if err != nil {
					return err
				}
				legs[i] = options
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Outcome{}, err
		}

		speech := formatItineraries(cmd.Criteria, legs[0], false) +
			"\n\n" +
			formatItineraries(cmd.Criteria, legs[1], true)
		return Outcome{Speech: speech}, nil
	}

	options, err := s.searchLeg(ctx, cmd.Criteria, false)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Speech: formatItineraries(cmd.Criteria, options, false)}, nil
}

// searchLeg builds and runs one leg. A failed remote search is a soft fault:
// it is logged and degrades to an empty option list. A failed build
// (unresolvable station) propagates.
func (s *Service) searchLeg(ctx context.Context, c Criteria, isReturn bool) ([]trainline.Option, error) {
	search, err := buildSearchRequest(ctx, s.resolver, c, isReturn)
	if err != nil {
		return nil, err
	}

	result, err := s.searcher.SearchTrips(ctx, search)
	if err != nil {
		log.Error().Err(err).Bool("return_leg", isReturn).Msg("trip: search call failed")
		return nil, nil
	}
	if !result.OK {
		log.Error().Bool("return_leg", isReturn).Msg("trip: search returned non-success")
	}
	return result.Options(), nil
}
