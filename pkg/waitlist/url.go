package waitlist

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// postPathRe matches the path of an X (Twitter) status URL:
// /<handle>/status/<id>
var postPathRe = regexp.MustCompile(`^/[A-Za-z0-9_]{1,15}/status/[0-9]+$`)

// ErrInvalidPostURL is returned when a URL is not a recognized social post.
var ErrInvalidPostURL = fmt.Errorf("not a recognized social post URL")

// CanonicalPostURL validates rawURL against the recognized social-post shape
// and re-serializes it into canonical form: https scheme, bare host, path
// only. Query string and fragment are stripped so the same post always
// canonicalizes to the same uniqueness key.
func CanonicalPostURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrInvalidPostURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidPostURL
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	switch host {
	case "x.com", "twitter.com":
	default:
		return "", ErrInvalidPostURL
	}

	if !postPathRe.MatchString(u.Path) {
		return "", ErrInvalidPostURL
	}

	return "https://" + host + u.Path, nil
}
