package auth

// Principal is the caller derived from a verified credential. It lives only
// for the duration of a request.
type Principal struct {
	Subject string
	Email   string
}
