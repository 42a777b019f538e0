// Package webpath holds the route table. The access rules in the
// server config match against these paths, keep them in sync.
package webpath

const (
	Signin  = "/signin"
	Signup  = "/signup"
	Signout = "/signout"
	Home    = "/"

	Api            = "/api"
	ApiHome        = Api + Home
	ApiMatchesList = Api + "/matches-list"
	ApiNewMatch    = Api + "/matches"
	ApiGetPlayers  = Api + "/players/:id"
	ApiNewPlayer   = Api + "/players"
)

// Path is the link map the templates build hrefs from.
func Path() map[string]string {
	return map[string]string{
		"SignUp":       Signup,
		"SignIn":       Signin,
		"SignOut":      Signout,
		"Home":         Home,
		"Api":          Api,
		"ApiHome":      ApiHome,
		"ApiNewMatch":  ApiNewMatch,
		"ApiMatches":   ApiMatchesList,
		"ApiNewPlayer": ApiNewPlayer,
	}
}
