package translate

import (
	"math/rand/v2"
	"net/http"
)

// Browser User-Agent strings for request spoofing.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"zh-CN,zh;q=0.9,en;q=0.8",
	"de-DE,de;q=0.9,en;q=0.8",
	"en-US,en;q=0.5",
}

var baseHeaders = map[string]string{
	"accept": "*/*",
	// Leave Accept-Encoding unset so http.Transport negotiates and
	// transparently decompresses gzip.
	"origin":         "https://translate.google.com",
	"referer":        "https://translate.google.com/",
	"sec-fetch-dest": "empty",
	"sec-fetch-mode": "cors",
	"sec-fetch-site": "cross-site",
}

// randomHeaders returns browser-like headers with a randomized User-Agent and
// Accept-Language.
func randomHeaders() http.Header {
	h := make(http.Header)
	for k, v := range baseHeaders {
		h.Set(k, v)
	}
	h.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	h.Set("Accept-Language", acceptLanguages[rand.IntN(len(acceptLanguages))])
	return h
}
