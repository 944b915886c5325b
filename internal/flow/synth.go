package flow

import (
	"fmt"

	"github.com/loadhound/trafficgen/internal/rng"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPad; CPU OS 17_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.6312.80 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.6261.64 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36 Edg/121.0.2277.83",
	"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
}

var referrerHosts = []string{
	"www.google.com",
	"www.bing.com",
	"duckduckgo.com",
	"news.ycombinator.com",
	"t.co",
	"m.facebook.com",
	"shop.example.com",
}

var randomMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

func userAgent(r rng.Rng) string {
	return r.Choice(userAgents)
}

func referrer(r rng.Rng) string {
	return "https://" + r.Choice(referrerHosts) + "/" + r.WordPair()
}

// randomPath fabricates a URI for one-off requests outside any journey.
func randomPath(r rng.Rng) string {
	switch {
	case r.BoolWithProb(30):
		return fmt.Sprintf("/products/%s/%d", r.Choice(nounsForPaths), r.IntRange(1000, 9999))
	case r.BoolWithProb(25):
		return fmt.Sprintf("/users/%s/profile", r.WordPair())
	default:
		return "/" + r.Choice(nounsForPaths)
	}
}

var nounsForPaths = []string{
	"deals", "search", "categories", "reviews", "wishlist", "support",
	"about", "blog", "gifts", "sale", "new-arrivals", "brands",
}

// responseBytes sizes the body by status class: success pages are large,
// redirects tiny, client errors medium, server error pages small.
func responseBytes(r rng.Rng, status int) int {
	switch {
	case status < 300:
		return r.IntRange(1000, 50000)
	case status < 400:
		return r.IntRange(100, 500)
	case status < 500:
		return r.IntRange(200, 2000)
	default:
		return r.IntRange(150, 1500)
	}
}

func level(status int) string {
	switch {
	case status >= 500:
		return "ERROR"
	case status >= 400:
		return "WARN"
	default:
		return "INFO"
	}
}

var badRequestByPath = map[string][]string{
	"/login": {
		"Bad Request - Invalid credentials",
		"Bad Request - Missing password",
		"Bad Request - Invalid email format",
	},
	"/checkout": {
		"Bad Request - Invalid payment information",
		"Bad Request - Missing billing address",
		"Bad Request - Invalid card number",
	},
	"/add_to_cart": {
		"Bad Request - Invalid product ID",
		"Bad Request - Invalid quantity",
		"Bad Request - Product unavailable",
	},
}

// errorMessage turns a status code into the contextual message attached to
// error-level records.
func errorMessage(r rng.Rng, status int, url string) string {
	if status == 400 {
		for prefix, msgs := range badRequestByPath {
			if len(url) >= len(prefix) && url[:len(prefix)] == prefix {
				return r.Choice(msgs)
			}
		}
		return "Bad Request - Invalid parameters"
	}
	switch status {
	case 401:
		return "Unauthorized - Authentication required"
	case 402:
		return "Payment Required - Card declined"
	case 403:
		return "Forbidden - Access denied"
	case 404:
		return "Not Found"
	case 409:
		return "Conflict - Item out of stock"
	case 410:
		return "Gone - Resource expired"
	case 429:
		return "Too Many Requests - Rate limit exceeded"
	case 500:
		return "Internal Server Error"
	case 503:
		return "Service Unavailable"
	default:
		return fmt.Sprintf("HTTP %d", status)
	}
}
