package help

import (
	_ "embed"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/edutune/internal/logger"
)

//go:embed reference.html
var referenceHTML string

// Summary is the one line version of the reference
const Summary = "Supported commands: f(x) = ..., y = ..., (x,y), Segment[(x1,y1), (x2,y2)], Circle[(x,y), r], Curve[x(t), y(t), t, start, end]"

// HTML returns the full command reference
func HTML() string {
	return referenceHTML
}

// Markdown converts the command reference for clients that cannot show HTML
func Markdown() (string, error) {
	md, err := htmltomarkdown.ConvertString(referenceHTML)
	if err != nil {
		logger.Error("Failed to convert help to Markdown:", err)
		return "", fmt.Errorf("failed to convert help: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// Topics lists the command names the reference documents
func Topics() []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(referenceHTML))
	if err != nil {
		return nil
	}
	var topics []string
	seen := map[string]bool{}
	doc.Find("li.command").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("data-name")
		if name != "" && !seen[name] {
			seen[name] = true
			topics = append(topics, name)
		}
	})
	return topics
}

// Topic returns the Markdown entries for one command, matched case-insensitively
func Topic(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Markdown()
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(referenceHTML))
	if err != nil {
		return "", fmt.Errorf("failed to read help: %w", err)
	}
	var items []string
	doc.Find("li.command").Each(func(_ int, s *goquery.Selection) {
		if n, _ := s.Attr("data-name"); n == name {
			h, err := goquery.OuterHtml(s)
			if err == nil {
				items = append(items, h)
			}
		}
	})
	if len(items) == 0 {
		return "", fmt.Errorf("no help for %q, topics are %s", name, strings.Join(Topics(), ", "))
	}
	md, err := htmltomarkdown.ConvertString("<ul>" + strings.Join(items, "") + "</ul>")
	if err != nil {
		return "", fmt.Errorf("failed to convert help: %w", err)
	}
	return strings.TrimSpace(md), nil
}
