// Package trends scans community chatter for player mentions, sentiment
// and recurring talking points using an external web search API.
package trends

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
	"github.com/vongohren/fpl-ai-assist/internal/logging"
	"github.com/vongohren/fpl-ai-assist/internal/websearch"
)

// Topics accepted by Analyze.
const (
	TopicTransfers     = "transfers"
	TopicCaptaincy     = "captaincy"
	TopicDifferentials = "differentials"
	TopicPlayer        = "player"
)

const (
	maxMentions        = 10
	maxKeywordsPerMent = 5
	maxSourcesPerMent  = 3
	maxHotTopics       = 5

	// Names shorter than this never match; two-letter names collide with
	// ordinary English too often.
	minNameLen = 3

	// sentimentNeutral labels a mention whose snippets carry no sentiment
	// keyword at all.
	sentimentNeutral = "neutral"
)

// Searcher is the slice of the web-search client Analyze needs.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string, count int) ([]websearch.Result, error)
}

// Request selects what to scan for.
type Request struct {
	Topic      string
	PlayerName string
	Position   string
	Gameweek   int
}

// Mention is one player the community is talking about.
type Mention struct {
	PlayerID  int      `json:"player_id"`
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Position  string   `json:"position"`
	Count     int      `json:"count"`
	Sentiment string   `json:"sentiment"`
	Keywords  []string `json:"keywords,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}

// Report is the full trend extraction result.
type Report struct {
	Configured bool      `json:"configured"`
	Message    string    `json:"message,omitempty"`
	Topic      string    `json:"topic"`
	Gameweek   int       `json:"gameweek"`
	Queries    []string  `json:"queries,omitempty"`
	Results    int       `json:"results_scanned"`
	Mentions   []Mention `json:"mentions"`
	HotTopics  []string  `json:"hot_topics,omitempty"`
}

var sentimentBuckets = []struct {
	name     string
	keywords []string
}{
	// Order is the tie-break priority.
	{"buy", []string{"buy", "bring in", "transfer in", "sign", "target", "bandwagon", "must have", "get him in"}},
	{"sell", []string{"sell", "transfer out", "ship out", "get rid", "avoid", "dump", "offload"}},
	{"hold", []string{"hold", "keep", "stick with", "retain", "don't sell"}},
	{"watch", []string{"watch", "monitor", "consider", "shortlist", "one to watch", "keep an eye"}},
}

var hotTopicPatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"captaincy debate", regexp.MustCompile(`(?i)\b(captain|armband|\(c\))\b`)},
	{"blank/double gameweek planning", regexp.MustCompile(`(?i)\b(blank gameweek|double gameweek|bgw ?\d*|dgw ?\d*)\b`)},
	{"chip strategy", regexp.MustCompile(`(?i)\b(wildcard|free hit|bench boost|triple captain|assistant manager)\b`)},
	{"price changes", regexp.MustCompile(`(?i)\bprice (rise|rises|fall|falls|drop|drops|change|changes)\b`)},
	{"injury news", regexp.MustCompile(`(?i)\b(injur(y|ies|ed)|fitness doubt|knock|hamstring|suspended)\b`)},
	{"differential hunting", regexp.MustCompile(`(?i)\b(differential|low[- ]owned|under the radar|template)\b`)},
}

// Analyzer joins web search results against the player catalog.
type Analyzer struct {
	search Searcher
	log    *logging.Logger
}

func NewAnalyzer(search Searcher, log *logging.Logger) *Analyzer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Analyzer{search: search, log: log}
}

// BuildQueries returns the free-text queries for a request.
func BuildQueries(req Request) []string {
	gw := req.Gameweek
	switch req.Topic {
	case TopicCaptaincy:
		return []string{
			fmt.Sprintf("FPL gameweek %d captain picks", gw),
			fmt.Sprintf("FPL GW%d captaincy poll", gw),
		}
	case TopicDifferentials:
		return []string{
			fmt.Sprintf("FPL gameweek %d differentials", gw),
			fmt.Sprintf("FPL GW%d low ownership picks", gw),
		}
	case TopicPlayer:
		return []string{
			fmt.Sprintf("FPL %s transfer advice", req.PlayerName),
			fmt.Sprintf("%s FPL gameweek %d", req.PlayerName, gw),
		}
	default: // transfers
		qs := []string{
			fmt.Sprintf("FPL gameweek %d transfer targets", gw),
			fmt.Sprintf("best FPL transfers GW%d", gw),
		}
		if req.Position != "" {
			qs = append(qs, fmt.Sprintf("best FPL %s picks gameweek %d", req.Position, gw))
		}
		return qs
	}
}

// NotConfigured is the structured payload returned when no search API key
// is present; missing optional credentials are not an error.
func NotConfigured(req Request) Report {
	return Report{
		Configured: false,
		Topic:      req.Topic,
		Gameweek:   req.Gameweek,
		Mentions:   []Mention{},
		Message:    "Community trends need a web search API key. Set BRAVE_API_KEY to enable this tool.",
	}
}

// Analyze runs the topic queries and scans the combined snippets.
func (a *Analyzer) Analyze(ctx context.Context, req Request, players []fplapi.Player, teams map[int]fplapi.Team) (Report, error) {
	if a.search == nil || !a.search.Configured() {
		return NotConfigured(req), nil
	}

	queries := BuildQueries(req)
	var results []websearch.Result
	for _, q := range queries {
		hits, err := a.search.Search(ctx, q, 10)
		if err != nil {
			return Report{}, errors.Wrapf(err, "trends: query %q", q)
		}
		results = append(results, hits...)
	}

	report := ScanResults(req, results, players, teams)
	report.Queries = queries
	a.log.Debug("trend scan complete",
		"topic", req.Topic, "results", len(results), "mentions", len(report.Mentions))
	return report, nil
}

// ScanResults is the pure scanning core, separated from I/O for tests.
func ScanResults(req Request, results []websearch.Result, players []fplapi.Player, teams map[int]fplapi.Team) Report {
	report := Report{
		Configured: true,
		Topic:      req.Topic,
		Gameweek:   req.Gameweek,
		Results:    len(results),
		Mentions:   []Mention{},
	}

	combined := make([]string, 0, len(results))
	for _, r := range results {
		combined = append(combined, r.Title+" "+r.Description)
	}
	allText := strings.Join(combined, "\n")

	type tally struct {
		player    fplapi.Player
		count     int
		sentiment map[string]int
		keywords  map[string]struct{}
		sources   map[string]struct{}
		order     int
	}
	tallies := make(map[int]*tally)

	for _, p := range players {
		if req.Position != "" && fplapi.PositionName(p.ElementType) != req.Position {
			continue
		}
		pattern := nameMatcher(p)
		if pattern == nil {
			continue
		}
		for i, r := range results {
			text := r.Title + " " + r.Description
			n := len(pattern.FindAllStringIndex(text, -1))
			if n == 0 {
				continue
			}
			tl, ok := tallies[p.ID]
			if !ok {
				tl = &tally{
					player:    p,
					sentiment: make(map[string]int),
					keywords:  make(map[string]struct{}),
					sources:   make(map[string]struct{}),
					order:     i,
				}
				tallies[p.ID] = tl
			}
			tl.count += n
			if r.URL != "" {
				tl.sources[r.URL] = struct{}{}
			}
			lower := strings.ToLower(text)
			for _, bucket := range sentimentBuckets {
				for _, kw := range bucket.keywords {
					hits := strings.Count(lower, kw)
					if hits == 0 {
						continue
					}
					tl.sentiment[bucket.name] += hits
					tl.keywords[kw] = struct{}{}
				}
			}
		}
	}

	mentions := make([]Mention, 0, len(tallies))
	for _, tl := range tallies {
		team := teams[tl.player.Team]
		mentions = append(mentions, Mention{
			PlayerID:  tl.player.ID,
			Name:      tl.player.WebName,
			Team:      team.ShortName,
			Position:  fplapi.PositionName(tl.player.ElementType),
			Count:     tl.count,
			Sentiment: dominantSentiment(tl.sentiment),
			Keywords:  capSorted(tl.keywords, maxKeywordsPerMent),
			Sources:   capSorted(tl.sources, maxSourcesPerMent),
		})
	}
	sort.SliceStable(mentions, func(i, j int) bool {
		if mentions[i].Count != mentions[j].Count {
			return mentions[i].Count > mentions[j].Count
		}
		return mentions[i].PlayerID < mentions[j].PlayerID
	})
	if len(mentions) > maxMentions {
		mentions = mentions[:maxMentions]
	}
	report.Mentions = mentions

	for _, ht := range hotTopicPatterns {
		if ht.pattern.MatchString(allText) {
			report.HotTopics = append(report.HotTopics, ht.label)
			if len(report.HotTopics) == maxHotTopics {
				break
			}
		}
	}
	return report
}

// nameMatcher builds a word-boundary matcher over every usable name
// variant. Variants shorter than minNameLen are dropped; a player with no
// usable variant is never matched.
func nameMatcher(p fplapi.Player) *regexp.Regexp {
	variants := make([]string, 0, 3)
	for _, name := range []string{p.WebName, p.FullName(), p.SecondName} {
		name = strings.TrimSpace(name)
		if len([]rune(name)) < minNameLen {
			continue
		}
		variants = append(variants, regexp.QuoteMeta(name))
	}
	if len(variants) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(variants, "|") + `)\b`)
}

// dominantSentiment picks the bucket with the most keyword hits; ties fall
// to the earlier bucket in priority order (buy > sell > hold > watch). No
// keyword hits at all is "neutral", distinct from a watch consensus.
func dominantSentiment(counts map[string]int) string {
	best := sentimentNeutral
	bestCount := 0
	// Walk in priority order so a tie keeps the higher-priority bucket.
	for _, bucket := range sentimentBuckets {
		if counts[bucket.name] > bestCount {
			best = bucket.name
			bestCount = counts[bucket.name]
		}
	}
	return best
}

func capSorted(set map[string]struct{}, limit int) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CacheKey identifies one scan result for the shared cache.
func CacheKey(req Request) string {
	player := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.PlayerName), " ", "-"))
	return fmt.Sprintf("trends:%s:%s:%s:gw%d", req.Topic, req.Position, player, req.Gameweek)
}
