package docmerge

// CrawlRequest identifies the listing page to crawl and the literal prefix
// that discovered links must start with. An empty prefix matches every link.
type CrawlRequest struct {
	StartURL string `json:"start_url"`
	Prefix   string `json:"prefix"`
}

// Validate returns an error if the request contains invalid fields. A start
// URL the browser cannot load is not rejected here; it yields no links.
func (r *CrawlRequest) Validate() error {
	if r.StartURL == "" {
		return Errorf(EINVALID, "start URL required")
	}
	return nil
}
