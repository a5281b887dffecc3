// README: User profile record keyed by email; the access key guards patches.
package profile

import "time"

// Profile is the external user record. The access key is issued once at
// creation and never changes; it doubles as the authorization token for
// later patches and as the user's resume code. JSON tags match the document
// shape embedded into conversation contexts.
type Profile struct {
	Email       string    `json:"email"`
	AccessKey   string    `json:"accessKey"`
	Firstname   string    `json:"firstname,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	CreatedAt   time.Time `json:"-"`
}

// PatchFields are the mutable profile fields. Nil means "leave unchanged".
type PatchFields struct {
	Firstname   *string
	Origin      *string
	Destination *string
}
