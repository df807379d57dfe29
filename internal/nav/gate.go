package nav

// Paths the client knows about. Anything else redirects to the root.
const (
	PathRoot  = "/"
	PathLogin = "/login"
	PathTasks = "/tasks"
)

// Resolve maps the current auth state and path to a navigation target. It
// returns the path to move to and whether a move is needed at all. One step
// at a time: an unknown path resolves to the root first, the root then
// resolves to the task list or the login view.
func Resolve(authenticated bool, path string) (string, bool) {
	switch path {
	case PathRoot:
		if authenticated {
			return PathTasks, true
		}
		return PathLogin, true
	case PathLogin:
		if authenticated {
			return PathTasks, true
		}
		return "", false
	case PathTasks:
		if !authenticated {
			return PathLogin, true
		}
		return "", false
	default:
		return PathRoot, true
	}
}

// Settle applies Resolve until the path stops moving. Bounded karena graf
// redirect tidak punya siklus, tapi tetap dibatasi untuk jaga-jaga.
func Settle(authenticated bool, path string) string {
	for i := 0; i < 4; i++ {
		target, redirect := Resolve(authenticated, path)
		if !redirect {
			return path
		}
		path = target
	}
	return path
}
