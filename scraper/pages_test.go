package scraper

import "testing"

func TestBuildPageURL(t *testing.T) {
	cases := []struct {
		base string
		n    int
		want string
	}{
		{"https://x.test/search", 2, "https://x.test/search?page=2"},
		{"https://x.test/search?c=1", 3, "https://x.test/search?c=1&page=3"},
		{"https://x.test/search?c=1&page=1", 4, "https://x.test/search?c=1&page=4"},
		{"https://x.test/search?page=9&c=1", 1, "https://x.test/search?page=1&c=1"},
		{"https://x.test/search?", 2, "https://x.test/search?page=2"},
		{"https://x.test/search?c=1#top", 2, "https://x.test/search?c=1&page=2#top"},
		{"https://x.test/search?perpage=20", 2, "https://x.test/search?perpage=20&page=2"},
		{"https://x.test/search?page=1&x=1&page=1", 5, "https://x.test/search?page=5&x=1&page=5"},
	}
	for _, c := range cases {
		if got := BuildPageURL(c.base, c.n); got != c.want {
			t.Fatalf("BuildPageURL(%q, %d) = %q, want %q", c.base, c.n, got, c.want)
		}
	}
}
