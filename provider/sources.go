package provider

import (
	"fmt"
	"strings"

	"llmux/model"
)

// WebSource is one citation entry surfaced by a grounded response.
type WebSource struct {
	Title   string
	URL     string
	Snippet string
}

// sourceCollector gathers citation URLs and richer search-result entries seen
// while normalizing a response, then renders them as a single markdown block.
type sourceCollector struct {
	urls []string
	rich []WebSource
	seen map[string]bool
}

func newSourceCollector() *sourceCollector {
	return &sourceCollector{seen: make(map[string]bool)}
}

// addURL records a bare citation URL, deduplicated, order preserved.
func (c *sourceCollector) addURL(url string) {
	if url == "" || c.seen["u:"+url] {
		return
	}
	c.seen["u:"+url] = true
	c.urls = append(c.urls, url)
}

// addRich records a (title, url, snippet) entry, deduplicated by URL.
func (c *sourceCollector) addRich(src WebSource) {
	if src.URL == "" || c.seen["r:"+src.URL] {
		return
	}
	c.seen["r:"+src.URL] = true
	c.rich = append(c.rich, src)
}

// block renders the "### Sources" markdown block, or "" when nothing was
// collected. Richer entries win over bare URLs when both are present.
func (c *sourceCollector) block() string {
	entries := c.rich
	if len(entries) == 0 {
		for _, url := range c.urls {
			entries = append(entries, WebSource{URL: url})
		}
	}
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n---\n\n### Sources")
	for i, src := range entries {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		fmt.Fprintf(&b, "\n%d. [%s](<%s>)", i+1, title, src.URL)
		if src.Snippet != "" {
			b.WriteString(" — " + src.Snippet)
		}
	}
	return b.String()
}

// flush emits the sources block as one final text delta if any sources were
// collected. Called by normalizers immediately before closing the stream.
func (c *sourceCollector) flush(e *eventEmitter) error {
	block := c.block()
	if block == "" {
		return nil
	}
	return e.delta(model.TextDelta(block))
}
