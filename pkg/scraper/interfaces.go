package scraper

// PageFetcher performs one GET against a listing URL. A non-200 status is
// reported through status, not err; err is reserved for transport failures.
type PageFetcher interface {
	FetchPage(url string) (status int, body []byte, err error)
}
