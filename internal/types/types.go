// README: Shared opaque identifiers used across modules.
package types

// StationID is the opaque key the remote search API uses in place of a
// free-text place name.
type StationID string
