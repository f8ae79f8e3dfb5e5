package collab

// SessionRegistry maps live connection ids to the authenticated username.
// A connection's username is bound at most once and never changed afterwards.
type SessionRegistry struct {
	users map[string]string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{users: make(map[string]string)}
}

// Bind records username for connID unless connID is already bound. It reports
// whether a new binding was made.
func (r *SessionRegistry) Bind(connID, username string) bool {
	if _, ok := r.users[connID]; ok {
		return false
	}
	r.users[connID] = username
	return true
}

func (r *SessionRegistry) Lookup(connID string) (string, bool) {
	u, ok := r.users[connID]
	return u, ok
}

// Unbind forgets connID. Unknown ids are ignored.
func (r *SessionRegistry) Unbind(connID string) {
	delete(r.users, connID)
}

func (r *SessionRegistry) Len() int {
	return len(r.users)
}
