package requester

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

// NewHTTPClient builds the client shared by every gateway. Responses set cookies
// into jar so that the auth service's callback cookies travel with later calls.
// A nil jar gets a fresh in-memory one.
func NewHTTPClient(timeout time.Duration, jar http.CookieJar) *http.Client {
	if jar == nil {
		jar = NewCookieJar()
	}
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
	}
}

// NewCookieJar returns an empty in-memory cookie jar.
func NewCookieJar() http.CookieJar {
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)
	return jar
}
