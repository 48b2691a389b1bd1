package domain

// Session is the client-held wrapper around zero-or-one Identity. It is
// owned exclusively by the session service; every other component reads it
// (or a persisted Snapshot of it) and never mutates it.
//
// Invariant: IsAuthenticated is true iff Identity is non-nil.
type Session struct {
	Identity        *Identity `json:"identity"`
	IsAuthenticated bool      `json:"is_authenticated"`

	// IsLoading and Error are transient UI-facing fields. They are never
	// persisted; Snapshot deliberately has no place for them.
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
}

// Snapshot is the serializable subset of a Session written to the persisted
// store at login time. It is the only session representation the route guard
// is allowed to trust, since the guard may run in a different execution
// context than the in-memory session service.
type Snapshot struct {
	Identity        *Identity `json:"identity"`
	IsAuthenticated bool      `json:"is_authenticated"`
}

// EmptySnapshot is the snapshot of a logged-out session.
func EmptySnapshot() Snapshot {
	return Snapshot{Identity: nil, IsAuthenticated: false}
}

// Consistent reports whether the snapshot honors the session invariant.
// A snapshot claiming authentication without an identity (or vice versa)
// is corrupt and must be treated as no session at all.
func (s Snapshot) Consistent() bool {
	return s.IsAuthenticated == (s.Identity != nil)
}
