package bot

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/scraper"
)

const (
	cmdStart      = "/start"
	cmdCrawl      = "/crawl"
	cmdJS         = "/js"
	cmdScrape     = "/scrape"
	cmdScreenshot = "/screenshot"
	cmdLeads      = "/leads"
	cmdHistory    = "/history"
)

var commands = []string{cmdStart, cmdCrawl, cmdJS, cmdScrape, cmdScreenshot, cmdLeads, cmdHistory}

// historyLimit caps how many records /history lists.
const historyLimit = 10

const welcomeMessage = `Welcome! Send me a link and I'll crawl it through Crawlbase.

/crawl <url> - fetch the page HTML
/js <url> - fetch the page after JavaScript rendering
/scrape <url> - extract structured data
/screenshot <url> - capture the page
/leads <domain> - find e-mail leads
/history - your recent requests`

// reply is what the bot sends back for one message.
type reply struct {
	text     string
	photo    []byte
	document []byte
	filename string
}

// parseCommand splits "/cmd arg" into its parts. Telegram may append the bot
// name to commands ("/crawl@SomeBot"); that suffix is dropped.
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ = strings.Cut(text, " ")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// respond runs the command in text for userID and builds the reply.
func respond(ctx context.Context, s scraper.Scraper, userID int64, text string) reply {
	cmd, arg := parseCommand(text)
	if cmd == "" {
		if !looksLikeURL(arg) {
			return reply{text: welcomeMessage}
		}
		cmd = cmdCrawl
	}

	switch cmd {
	case cmdStart:
		return reply{text: welcomeMessage}
	case cmdCrawl, cmdJS:
		res, err := s.Crawl(ctx, userID, arg, nil, cmd == cmdJS)
		if err != nil {
			return errorReply(err)
		}
		return bodyReply(res, "page.html")
	case cmdScrape:
		res, err := s.Scrape(ctx, userID, arg, nil)
		if err != nil {
			return errorReply(err)
		}
		return bodyReply(res, "data.json")
	case cmdScreenshot:
		res, err := s.Screenshot(ctx, userID, arg, nil)
		if err != nil {
			return errorReply(err)
		}
		img, err := base64.StdEncoding.DecodeString(res.Body)
		if err != nil {
			return errorReply(fmt.Errorf("decode screenshot: %w", err))
		}
		return reply{text: summary(res), photo: img, filename: "screenshot.jpg"}
	case cmdLeads:
		res, err := s.Leads(ctx, userID, arg)
		if err != nil {
			return errorReply(err)
		}
		return bodyReply(res, "leads.json")
	case cmdHistory:
		return historyReply(ctx, s, userID)
	}
	return reply{text: welcomeMessage}
}

func summary(res *crawlbase.Result) string {
	parts := []string{fmt.Sprintf("%s: HTTP %d", res.Variant, res.StatusCode)}
	if res.CrawlbaseStatus != "" {
		parts = append(parts, "crawlbase "+res.CrawlbaseStatus)
	}
	if res.OriginalStatus != "" {
		parts = append(parts, "original "+res.OriginalStatus)
	}
	if res.RemainingRequests > 0 {
		parts = append(parts, fmt.Sprintf("%d requests left", res.RemainingRequests))
	}
	if res.URL != "" {
		parts = append(parts, res.URL)
	}
	return strings.Join(parts, ", ")
}

func bodyReply(res *crawlbase.Result, filename string) reply {
	if res.Body == "" {
		return reply{text: summary(res)}
	}
	return reply{text: summary(res), document: []byte(res.Body), filename: filename}
}

func errorReply(err error) reply {
	switch {
	case crawlbase.IsValidation(err):
		return reply{text: err.Error()}
	case errors.Is(err, scraper.ErrNoJavaScriptToken):
		return reply{text: "JavaScript rendering is not enabled on this bot."}
	}
	return reply{text: "Request failed: " + err.Error()}
}

func historyReply(ctx context.Context, s scraper.Scraper, userID int64) reply {
	records, err := s.History(ctx, userID)
	if err != nil {
		return errorReply(err)
	}
	if len(records) == 0 {
		return reply{text: "No requests yet."}
	}
	if len(records) > historyLimit {
		records = records[:historyLimit]
	}
	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "%s %s %s (%s)\n", r.Timestamp.Format("2006-01-02 15:04"), r.Variant, r.Target, r.Status())
	}
	return reply{text: strings.TrimRight(sb.String(), "\n")}
}
