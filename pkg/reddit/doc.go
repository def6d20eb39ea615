// Package reddit talks to Reddit's public JSON listing endpoint.
//
// It provides:
//   - Client, an HTTP client that sends a browser-like User-Agent and the
//     session cookies from a Netscape cookie jar
//   - Listing and PostData, the wire types of a listing page
//   - ListingURL and PermalinkURL for building endpoint and post links
//
// Example usage:
//
//	jar, err := cookies.LoadFile("cookies.txt")
//	client := reddit.NewClient(30*time.Second, jar, "", logger.GetLogger())
//
//	status, body, err := client.FetchPage(reddit.ListingURL("", "EarthPorn", "top", "", 100))
//	if err == nil && status == http.StatusOK {
//	    listing, err := reddit.DecodeListing(body)
//	    // ...
//	}
//
// Gallery metadata is decoded into MediaMetadata, which remembers the order
// of keys in the response so gallery images keep their upstream order.
package reddit
