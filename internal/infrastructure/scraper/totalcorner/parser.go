package totalcorner

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
)

const (
	labelShotsOnTarget  = "Shoot on target"
	labelShotsOffTarget = "Shoot off target"
	labelScore          = "Score:"
	labelStatsButton    = "Stats"
)

// ParseTeamPage extracts one row per fixture of a team page. Missing cells
// are left empty for row validation to reject. Details links are resolved
// against baseURL.
func ParseTeamPage(r io.Reader, baseURL string) ([]match.ScrapedRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read team page: %w", err)
	}

	rows := make([]match.ScrapedRow, 0)
	doc.Find("tbody.tbody_match > tr").Each(func(_ int, tr *goquery.Selection) {
		row := match.ScrapedRow{
			DateTime:        dateCell(tr),
			HomeTeam:        cellText(tr.Find("td.match_home a span").First()),
			AwayTeam:        cellText(tr.Find("td.match_away a span").First()),
			CompetitionType: string(competitionFromLeague(cellText(tr.Find("td.td_league").First()))),
		}
		if href, ok := statsLink(tr); ok {
			row.DetailsLink = resolveLink(baseURL, href)
		}
		rows = append(rows, row)
	})
	return rows, nil
}

// ParseStatsPage extracts the score line and the shot bars of a match page.
// Home values sit left of the label cell, away values right of it.
func ParseStatsPage(r io.Reader) (matchstats.Fields, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read stats page: %w", err)
	}

	fields := matchstats.Fields{}
	doc.Find("div.panel-body p span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := cellText(span)
		if strings.Contains(text, labelScore) {
			fields[matchstats.FieldScore] = text
			return false
		}
		return true
	})

	doc.Find("div.score-bar-item div.row > div").Each(func(_ int, label *goquery.Selection) {
		text := cellText(label)
		switch {
		case strings.Contains(text, labelShotsOnTarget):
			setSides(fields, label, matchstats.FieldHomeShotsOnTarget, matchstats.FieldAwayShotsOnTarget)
		case strings.Contains(text, labelShotsOffTarget):
			setSides(fields, label, matchstats.FieldHomeShotsOffTarget, matchstats.FieldAwayShotsOffTarget)
		}
	})
	return fields, nil
}

func setSides(fields matchstats.Fields, label *goquery.Selection, homeKey, awayKey string) {
	if home := label.PrevFiltered("div"); home.Length() > 0 {
		fields[homeKey] = cellText(home)
	}
	if away := label.NextFiltered("div"); away.Length() > 0 {
		fields[awayKey] = cellText(away)
	}
}

// dateCell is the first cell whose class is exactly text-center.
func dateCell(tr *goquery.Selection) string {
	var out string
	tr.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if class, _ := td.Attr("class"); strings.TrimSpace(class) == "text-center" {
			out = cellText(td)
			return false
		}
		return true
	})
	return out
}

func statsLink(tr *goquery.Selection) (string, bool) {
	var href string
	var found bool
	tr.Find("td.td_analysis a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(a.Find("button").Text(), labelStatsButton) {
			return true
		}
		href, found = a.Attr("href")
		return !found
	})
	return strings.TrimSpace(href), found && strings.TrimSpace(href) != ""
}

func competitionFromLeague(league string) match.CompetitionType {
	lower := strings.ToLower(league)
	switch {
	case strings.Contains(lower, "champions league"):
		return match.CompetitionChampionsLeague
	case strings.Contains(lower, "cup"), strings.Contains(lower, "copa"), strings.Contains(lower, "pokal"):
		return match.CompetitionCup
	default:
		return match.CompetitionDefault
	}
}

func resolveLink(baseURL, link string) string {
	link = strings.TrimSpace(link)
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
