// README: Envelope types exchanged with the conversational platform.
package dialog

import "strings"

// Context is a named, lifespan-bounded parameter bag threaded between turns.
type Context struct {
	Name       string         `json:"name"`
	Lifespan   int            `json:"lifespan"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// FollowupEvent instructs the platform to re-route to another intent
// immediately, without waiting for a user turn.
type FollowupEvent struct {
	Name string            `json:"name"`
	Data map[string]string `json:"data,omitempty"`
}

// Request is one parsed user turn.
type Request struct {
	SessionID  string
	Intent     string
	Parameters map[string]string
	Contexts   []Context
}

// Response is the structured reply for one turn.
type Response struct {
	Speech        string         `json:"speech,omitempty"`
	ContextOut    []Context      `json:"contextOut,omitempty"`
	FollowupEvent *FollowupEvent `json:"followupEvent,omitempty"`
}

// FindContext returns the named context. Names compare case-insensitively
// because the platform lowercases them between turns.
func FindContext(contexts []Context, name string) (Context, bool) {
	for _, c := range contexts {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Context{}, false
}
