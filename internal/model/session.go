package model

// Session is the authenticated identity of one signed-in client. It is passed
// explicitly to every authorization check.
type Session struct {
	User    User
	TokenID string
}

// UserID returns the session user's id, or "" for a nil session.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}
