package waitlist

import (
	"errors"
	"testing"
)

func TestCanonicalPostURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain x.com",
			in:   "https://x.com/builder_1/status/1234567890",
			want: "https://x.com/builder_1/status/1234567890",
		},
		{
			name: "twitter.com host preserved",
			in:   "https://twitter.com/builder_1/status/1234567890",
			want: "https://twitter.com/builder_1/status/1234567890",
		},
		{
			name: "www stripped",
			in:   "https://www.x.com/builder_1/status/1234567890",
			want: "https://x.com/builder_1/status/1234567890",
		},
		{
			name: "http upgraded to https",
			in:   "http://x.com/builder_1/status/1234567890",
			want: "https://x.com/builder_1/status/1234567890",
		},
		{
			name: "query string stripped",
			in:   "https://x.com/builder_1/status/1234567890?s=20&t=abc",
			want: "https://x.com/builder_1/status/1234567890",
		},
		{
			name: "host case folded",
			in:   "https://X.com/builder_1/status/1234567890",
			want: "https://x.com/builder_1/status/1234567890",
		},
		{
			name: "surrounding whitespace",
			in:   "  https://x.com/builder_1/status/1234567890  ",
			want: "https://x.com/builder_1/status/1234567890",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanonicalPostURL(tc.in)
			if err != nil {
				t.Fatalf("CanonicalPostURL(%q) failed: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("CanonicalPostURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalPostURL_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no scheme", "x.com/builder_1/status/1234567890"},
		{"ftp scheme", "ftp://x.com/builder_1/status/1234567890"},
		{"wrong host", "https://example.com/builder_1/status/1234567890"},
		{"lookalike host", "https://notx.com/builder_1/status/1234567890"},
		{"profile page", "https://x.com/builder_1"},
		{"non-numeric id", "https://x.com/builder_1/status/abc"},
		{"handle too long", "https://x.com/this_handle_is_way_too_long/status/123"},
		{"trailing segment", "https://x.com/builder_1/status/123/photo/1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CanonicalPostURL(tc.in)
			if !errors.Is(err, ErrInvalidPostURL) {
				t.Fatalf("expected ErrInvalidPostURL, got %v", err)
			}
		})
	}
}
