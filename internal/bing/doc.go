// Package bing talks the Bing image archive format.
//
// The HPImageArchive endpoint returns a JSON manifest describing up to
// eight daily images. This package builds the request URL, decodes the
// manifest into model.Entry values, and derives the URLs the rest of the
// application needs.
//
// # Manifest Parsing
//
//	raw, _ := client.GetString(ctx, bing.ManifestURL(endpoint, query), timeout)
//	entries, err := bing.ParseManifest(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Selecting an Entry
//
// Offsets are clamped to [0, 7] once, then used to index the manifest:
//
//	offset := bing.ClampOffset(requested)
//	entry, err := bing.SelectEntry(entries, offset)
//
// # URLs
//
// Manifest paths are relative to the image host and are joined verbatim:
//
//	full := bing.ResolveURL("https://cn.bing.com", entry.ImagePath)
//	thumb := bing.ThumbnailURL(full, 1000)
package bing
