package bing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ManifestQuery holds the query parameters sent to the archive endpoint.
type ManifestQuery struct {
	Count     int
	Market    string
	Language  string
	UHDWidth  int
	UHDHeight int
}

// ManifestURL builds the HPImageArchive request URL.
//
// The result always asks for JSON starting at idx=0, so the response covers
// today and the preceding Count-1 days:
//
//	https://global.bing.com/HPImageArchive.aspx?FORM=BEHPTB&format=js&idx=0&n=8&...
func ManifestURL(endpoint string, q ManifestQuery) string {
	values := url.Values{}
	values.Set("format", "js")
	values.Set("idx", "0")
	values.Set("n", strconv.Itoa(q.Count))
	values.Set("pid", "hp")
	values.Set("FORM", "BEHPTB")
	if q.UHDWidth > 0 && q.UHDHeight > 0 {
		values.Set("uhd", "1")
		values.Set("uhdwidth", strconv.Itoa(q.UHDWidth))
		values.Set("uhdheight", strconv.Itoa(q.UHDHeight))
	}
	if q.Market != "" {
		values.Set("setmkt", q.Market)
	}
	if q.Language != "" {
		values.Set("setlang", q.Language)
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + values.Encode()
}

// ResolveURL joins the image host and a relative manifest path verbatim.
func ResolveURL(host, relative string) string {
	return host + relative
}

// ThumbnailURL derives a width-constrained URL from an absolute image URL.
//
// "&w=<width>" is inserted before the first '&', or appended when the URL
// has none. The parameter is not encoded and an existing w= is left alone.
//
//	ThumbnailURL("https://host/img.jpg", 1000)     // "https://host/img.jpg&w=1000"
//	ThumbnailURL("https://host/img.jpg&x=1", 1000) // "https://host/img.jpg&w=1000&x=1"
func ThumbnailURL(absolute string, width int) string {
	param := fmt.Sprintf("&w=%d", width)
	idx := strings.Index(absolute, "&")
	if idx == -1 {
		return absolute + param
	}
	return absolute[:idx] + param + absolute[idx:]
}
