package aggregator

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/facetlab/gemfeed/app/article"
)

// Deduplicator collapses records that point at the same page (by
// normalized URL) or carry the same picture at different resolutions
// (by image fingerprint).
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Run returns the deduplicated records in processing order. Records
// without a URL are dropped: they cannot be matched safely and a
// citable reference needs one.
func (d *Deduplicator) Run(records []article.Article) []article.Article {
	byURL := make(map[string]int)
	byImage := make(map[string]int)
	kept := make([]article.Article, 0, len(records))

	for _, record := range records {
		if record.URL == "" {
			continue
		}

		urlKey := normalizeURL(record.URL)
		imageKey := imageFingerprint(record.Image)

		if idx, ok := byURL[urlKey]; ok {
			// Same page: the more complete content wins, source-agnostic
			if len(record.Extract) > len(kept[idx].Extract) {
				d.replace(kept, byURL, byImage, idx, record, urlKey, imageKey)
			}
			continue
		}

		if imageKey != "" {
			if idx, ok := byImage[imageKey]; ok {
				if d.imageConflictWinner(record, kept[idx]) {
					oldKey := normalizeURL(kept[idx].URL)
					delete(byURL, oldKey)
					byURL[urlKey] = idx
					d.replace(kept, byURL, byImage, idx, record, urlKey, imageKey)
				}
				continue
			}
		}

		kept = append(kept, record)
		byURL[urlKey] = len(kept) - 1
		if imageKey != "" {
			byImage[imageKey] = len(kept) - 1
		}
	}

	return kept
}

// imageConflictWinner reports whether the candidate beats the holder of
// an image-fingerprint slot: lower source priority wins, tie goes to
// the longer extract.
func (d *Deduplicator) imageConflictWinner(candidate, holder article.Article) bool {
	cp, hp := candidate.Source.Priority(), holder.Source.Priority()
	if cp != hp {
		return cp < hp
	}
	return len(candidate.Extract) > len(holder.Extract)
}

func (d *Deduplicator) replace(kept []article.Article, byURL, byImage map[string]int, idx int, record article.Article, urlKey, imageKey string) {
	oldImageKey := imageFingerprint(kept[idx].Image)
	if oldImageKey != "" && oldImageKey != imageKey {
		delete(byImage, oldImageKey)
	}
	kept[idx] = record
	byURL[urlKey] = idx
	if imageKey != "" {
		byImage[imageKey] = idx
	}
}

// normalizeURL canonicalizes for dedup: lowercase host without a
// leading www, path without a trailing slash; scheme and query are
// ignored.
func normalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimSuffix(parsed.EscapedPath(), "/")

	return host + path
}

var (
	resolutionRe = regexp.MustCompile(`\d{2,4}x\d{2,4}|[wh]\d{2,4}|thumbnail|small|large`)
	cdnPrefixRe  = regexp.MustCompile(`^(cdn|images|img|media|static)\d*\.`)
)

// imageFingerprint collapses near-identical asset URLs that serve the
// same picture at different resolutions or from different CDN hosts.
func imageFingerprint(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = cdnPrefixRe.ReplaceAllString(host, "")

	path := strings.ToLower(parsed.EscapedPath())
	path = resolutionRe.ReplaceAllString(path, "")

	return host + path
}
