package http

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// decodeText converts a text body to UTF-8. The declared charset wins;
// otherwise the content is sniffed.
func decodeText(body []byte, contentType string) (string, string) {
	_, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain {
		if result, err := chardet.NewTextDetector().DetectBest(body); err == nil && result != nil && result.Confidence >= 50 {
			name = strings.ToLower(result.Charset)
		}
	}
	r, err := charset.NewReaderLabel(name, bytes.NewReader(body))
	if err != nil {
		return string(body), "utf-8"
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body), "utf-8"
	}
	return string(decoded), name
}

func isText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType == ""
	}
	return strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/json" ||
		mediaType == "application/xml" ||
		mediaType == "application/xhtml+xml" ||
		strings.HasSuffix(mediaType, "+json") ||
		strings.HasSuffix(mediaType, "+xml")
}

// selectText returns the trimmed text of every element matching selector.
func selectText(body, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	out := []string{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out, nil
}

// queryXPath returns text and outer HTML of every node matching expr.
func queryXPath(body, expr string) ([]map[string]interface{}, error) {
	doc, err := htmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]interface{}{
			"text": strings.TrimSpace(htmlquery.InnerText(n)),
			"html": htmlquery.OutputHTML(n, true),
		})
	}
	return out, nil
}

var sanitizer = bluemonday.UGCPolicy()

func sanitize(body string) string {
	return sanitizer.Sanitize(body)
}
