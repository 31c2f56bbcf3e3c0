package service

import "gameon/internal/model"

// Action is something a signed-in user may attempt.
type Action string

const (
	ActionViewBillingForm    Action = "viewBillingForm"
	ActionViewRecords        Action = "viewRecords"
	ActionViewAdminDashboard Action = "viewAdminDashboard"
	ActionDeleteBill         Action = "deleteBill"
	ActionManageUsers        Action = "manageUsers"
)

// Authorize reports whether sess may perform action. Every action needs a
// session; dashboard, bill deletion and user management also need admin.
func Authorize(sess *model.Session, action Action) bool {
	if sess == nil {
		return false
	}
	switch action {
	case ActionViewBillingForm, ActionViewRecords:
		return true
	case ActionViewAdminDashboard, ActionDeleteBill, ActionManageUsers:
		return sess.User.IsAdmin()
	}
	return false
}

// checkAccess turns a failed Authorize into the matching sentinel error.
func checkAccess(sess *model.Session, action Action) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if !Authorize(sess, action) {
		return ErrForbidden
	}
	return nil
}

// Authenticate returns the first user whose username and password both match
// exactly, or nil. Comparison is case-sensitive plaintext.
func Authenticate(username, password string, users []model.User) *model.User {
	for i := range users {
		if users[i].Username == username && users[i].Password == password {
			u := users[i]
			return &u
		}
	}
	return nil
}
