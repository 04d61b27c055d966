package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// fmpTimeLayout matches the timestamp format used by FMP JSON endpoints.
const fmpTimeLayout = "2006-01-02 15:04:05"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run decodes raw feed data into normalized items according to the source's
// wire format. Every returned item is tagged with the source name.
func (p *Parser) Run(data []byte, config *Config) ([]Item, error) {
	var items []Item
	var err error

	switch config.Format {
	case FormatRSS:
		items, err = p.decodeRSS(data)
	case FormatFMP:
		items, err = p.decodeFMP(data)
	case FormatFMPPress:
		items, err = p.decodeFMPPress(data)
	default:
		return nil, fmt.Errorf("unsupported source format: %s", config.Format)
	}

	if err != nil {
		return nil, err
	}

	if config.Settings.MaxItems > 0 && len(items) > config.Settings.MaxItems {
		items = items[:config.Settings.MaxItems]
	}

	for i := range items {
		items[i].Source = config.Name
	}

	return items, nil
}

func (p *Parser) decodeRSS(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}

		item := Item{
			Title:   entry.Title,
			Summary: entry.Description,
			Link:    entry.Link,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
	}

	return items, nil
}

// fmpEntry covers the FMP stock-news and general-news JSON shapes.
type fmpEntry struct {
	Title         string `json:"title"`
	Text          string `json:"text"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
}

func (p *Parser) decodeFMP(data []byte) ([]Item, error) {
	var entries []fmpEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse FMP response: %w", err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{
			Title:       entry.Title,
			Summary:     entry.Text,
			Link:        entry.URL,
			PublishedAt: parseFMPTime(entry.PublishedDate),
		})
	}

	return items, nil
}

// fmpPressEntry covers the FMP press-release JSON shape, which carries its
// timestamp under "date" instead of "publishedDate".
type fmpPressEntry struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

func (p *Parser) decodeFMPPress(data []byte) ([]Item, error) {
	var entries []fmpPressEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse FMP press release response: %w", err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{
			Title:       entry.Title,
			Summary:     entry.Text,
			Link:        entry.URL,
			PublishedAt: parseFMPTime(entry.Date),
		})
	}

	return items, nil
}

func parseFMPTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(fmpTimeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
