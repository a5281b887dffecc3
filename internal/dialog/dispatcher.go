// README: Intent dispatcher: thin routing from intent names to module flows.
package dialog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"railbot/internal/modules/profile"
	"railbot/internal/modules/trip"
)

// Intent, event, and context names shared with the platform agent.
const (
	IntentWelcome      = "welcome-init"
	IntentSearchTrains = "search-trains"

	EventAskAccessKey  = "ask-access-key"
	EventAskReturnDate = "ask-return-date-event"

	ContextAskAccessKey  = "AskAccessKeyContext"
	ContextUserRetrieved = "User-Retrieved-Data"
	ContextTripResult    = "Trip-Result-Context"
)

// AssertionYes is the affirmative value of yes/no slots.
const AssertionYes = "oui"

type Welcomer interface {
	Welcome(ctx context.Context, email, firstname string) (profile.WelcomeResult, error)
}

type TripSearcher interface {
	Search(ctx context.Context, cmd trip.SearchCommand) (trip.Outcome, error)
}

type Dispatcher struct {
	profiles Welcomer
	trips    TripSearcher
}

func NewDispatcher(profiles Welcomer, trips TripSearcher) *Dispatcher {
	return &Dispatcher{profiles: profiles, trips: trips}
}

// Dispatch routes one turn to the matching flow.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Response, error) {
	log.Info().Str("intent", req.Intent).Str("session", req.SessionID).Msg("dispatch: turn")

	switch req.Intent {
	case IntentWelcome:
		return d.welcome(ctx, req)
	case IntentSearchTrains:
		return d.searchTrains(ctx, req)
	default:
		return Response{Speech: "Désolé, je n'ai pas compris votre demande."}, nil
	}
}

func (d *Dispatcher) welcome(ctx context.Context, req Request) (Response, error) {
	email := req.Parameters["email"]
	firstname := req.Parameters["firstname"]
	if email == "" {
		return Response{}, fmt.Errorf("welcome: missing email parameter")
	}

	result, err := d.profiles.Welcome(ctx, email, firstname)
	if err != nil {
		return Response{}, err
	}

	if result.Known {
		return Response{
			ContextOut: []Context{{Name: ContextAskAccessKey, Lifespan: 1}},
			FollowupEvent: &FollowupEvent{
				Name: EventAskAccessKey,
				Data: map[string]string{"email": email},
			},
		}, nil
	}

	doc := result.Profile
	speech := fmt.Sprintf(
		"Bienvenue %s, ravi de faire votre connaissance. "+
			"Voici un code qui vous permettra de reprendre notre discussion si vous partez [%s]. "+
			"Que puis-je faire pour vous en cette belle journée ?",
		doc.Firstname, doc.AccessKey,
	)
	return Response{
		ContextOut: []Context{{
			Name:       ContextUserRetrieved,
			Lifespan:   10,
			Parameters: map[string]any{"doc": doc},
		}},
		Speech: speech,
	}, nil
}

func (d *Dispatcher) searchTrains(ctx context.Context, req Request) (Response, error) {
	cmd := trip.SearchCommand{
		Criteria: trip.Criteria{
			Origin:         req.Parameters["origin"],
			Destination:    req.Parameters["destination"],
			DepartureDate:  req.Parameters["departure_date"],
			ReturnDate:     req.Parameters["return_date"],
			NeedReturnDate: req.Parameters["need_return_date"] == AssertionYes,
		},
	}
	if userCtx, ok := FindContext(req.Contexts, ContextUserRetrieved); ok {
		cmd.User = profileFromContext(userCtx)
	}

	outcome, err := d.trips.Search(ctx, cmd)
	if err != nil {
		return Response{}, err
	}

	if outcome.NeedReturnDate {
		// Carry every known criterion forward so the next turn does not
		// re-ask for origin/destination.
		data := make(map[string]string, len(req.Parameters))
		for k, v := range req.Parameters {
			data[k] = v
		}
		return Response{
			FollowupEvent: &FollowupEvent{Name: EventAskReturnDate, Data: data},
		}, nil
	}

	return Response{
		ContextOut: []Context{{Name: ContextTripResult, Lifespan: 1}},
		Speech:     outcome.Speech,
	}, nil
}

// profileFromContext pulls the saved profile doc out of the user context.
// Contexts round-trip through the platform as loose JSON, so the doc usually
// arrives as a map rather than a typed struct.
func profileFromContext(c Context) *profile.Profile {
	raw, ok := c.Parameters["doc"]
	if !ok {
		return nil
	}
	switch doc := raw.(type) {
	case *profile.Profile:
		return doc
	case map[string]any:
		p := &profile.Profile{}
		if v, ok := doc["email"].(string); ok {
			p.Email = v
		}
		if v, ok := doc["accessKey"].(string); ok {
			p.AccessKey = v
		}
		if v, ok := doc["firstname"].(string); ok {
			p.Firstname = v
		}
		if p.Email == "" || p.AccessKey == "" {
			return nil
		}
		return p
	}
	return nil
}
