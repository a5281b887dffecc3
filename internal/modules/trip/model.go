// README: Trip search criteria and fixed search defaults.
package trip

import "railbot/internal/trainline"

// Criteria holds one search turn's trip parameters as extracted by the
// platform. Immutable within an orchestration pass.
type Criteria struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	// NeedReturnDate is set when the user asked for a round trip but has
	// not given the return date yet.
	NeedReturnDate bool
}

// RoundTrip reports whether both legs must be built.
func (c Criteria) RoundTrip() bool { return c.ReturnDate != "" }

// Fixed search defaults: a single adult with no fare cards, and the carrier
// systems the assistant is allowed to sell. Configuration constants, never
// derived from input.
var (
	defaultPassenger = trainline.Passenger{
		ID:    "1c7d1653-137f-4d02-9462-2e029ffe2dc4",
		Label: "adult",
		Age:   26,
		Cards: []string{},
	}

	allowedSystems = []string{"sncf", "db", "idtgv"}
)
