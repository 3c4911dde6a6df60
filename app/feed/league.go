package feed

import (
	"regexp"
	"strings"
)

const (
	LeagueNFL      = "NFL"
	LeagueNBA      = "NBA"
	LeagueMLB      = "MLB"
	LeagueNHL      = "NHL"
	LeagueWNBA     = "WNBA"
	LeagueNCAA     = "NCAA"
	LeagueEPL      = "EPL"
	LeagueUEFA     = "UEFA"
	LeagueMLS      = "MLS"
	LeagueF1       = "F1"
	LeagueNASCAR   = "NASCAR"
	LeagueGolf     = "Golf"
	LeagueTennis   = "Tennis"
	LeagueSoccer   = "Football/Soccer"
	LeagueCricket  = "Cricket"
	LeagueRugby    = "Rugby"
	LeagueOlympics = "Olympics"

	// LeagueOther is the display label for unclassified sports items.
	LeagueOther = "Other"
)

type leagueRule struct {
	league  string
	pattern *regexp.Regexp
}

func rule(league string, terms ...string) leagueRule {
	return leagueRule{
		league:  league,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(terms, "|") + `)\b`),
	}
}

// First match wins, so specific leagues precede generic sport words.
var leagueRules = []leagueRule{
	rule(LeagueWNBA, `wnba`, `las vegas aces`, `new york liberty`, `minnesota lynx`, `indiana fever`, `caitlin clark`),
	rule(LeagueNFL, `nfl`, `super bowl`, `touchdowns?`, `quarterbacks?`, `wide receiver`, `afc`, `nfc`,
		`chiefs`, `eagles`, `cowboys`, `patriots`, `packers`, `steelers`, `49ers`, `niners`, `ravens`,
		`bills`, `bengals`, `broncos`, `dolphins`, `jets`, `giants`, `commanders`, `seahawks`, `vikings`,
		`bears`, `lions`, `saints`, `falcons`, `buccaneers`, `panthers`, `texans`, `colts`, `jaguars`,
		`titans`, `raiders`, `chargers`, `rams`, `cardinals`, `browns`),
	rule(LeagueNBA, `nba`, `lakers`, `celtics`, `warriors`, `knicks`, `bucks`, `nuggets`, `76ers`,
		`sixers`, `mavericks`, `heat`, `suns`, `clippers`, `timberwolves`, `thunder`, `cavaliers`,
		`lebron`, `curry`, `jokic`, `giannis`, `wembanyama`),
	rule(LeagueMLB, `mlb`, `world series`, `home runs?`, `yankees`, `dodgers`, `red sox`, `mets`,
		`cubs`, `astros`, `braves`, `phillies`, `padres`, `orioles`, `mariners`, `ohtani`, `baseball`),
	rule(LeagueNHL, `nhl`, `stanley cup`, `hockey`, `maple leafs`, `canadiens`, `oilers`, `bruins`,
		`rangers`, `penguins`, `blackhawks`, `avalanche`, `mcdavid`),
	rule(LeagueNCAA, `ncaa`, `college football`, `college basketball`, `march madness`, `final four`,
		`heisman`, `sec`, `big ten`, `big 12`, `acc`),
	rule(LeagueEPL, `premier league`, `epl`, `arsenal`, `chelsea`, `liverpool`, `manchester united`,
		`man utd`, `manchester city`, `man city`, `tottenham`, `spurs`, `newcastle`, `aston villa`, `everton`),
	rule(LeagueUEFA, `uefa`, `champions league`, `europa league`, `conference league`, `euro 20\d\d`,
		`la liga`, `serie a`, `bundesliga`, `ligue 1`, `real madrid`, `barcelona`, `bayern`, `juventus`, `psg`),
	rule(LeagueMLS, `mls`, `major league soccer`, `inter miami`, `la galaxy`, `lafc`),
	rule(LeagueF1, `f1`, `formula 1`, `formula one`, `grand prix`, `verstappen`, `hamilton`, `ferrari`,
		`mclaren`, `red bull racing`),
	rule(LeagueNASCAR, `nascar`, `daytona 500`, `cup series`),
	rule(LeagueGolf, `golf`, `pga`, `lpga`, `liv golf`, `masters`, `ryder cup`, `open championship`, `scheffler`, `mcilroy`),
	rule(LeagueTennis, `tennis`, `wimbledon`, `us open`, `french open`, `roland garros`, `australian open`,
		`atp`, `wta`, `djokovic`, `alcaraz`, `sinner`, `sabalenka`, `swiatek`),
	rule(LeagueSoccer, `soccer`, `football`, `fifa`, `world cup`, `striker`, `goalkeeper`),
	rule(LeagueCricket, `cricket`, `ipl`, `test match`, `odi`, `t20`, `the ashes`, `wicket`),
	rule(LeagueRugby, `rugby`, `six nations`, `all blacks`, `springboks`),
	rule(LeagueOlympics, `olympics?`, `olympian`, `paralympics?`, `ioc`),
}

// ClassifyLeague maps free text to a league tag, or "" when nothing matches.
func ClassifyLeague(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, r := range leagueRules {
		if r.pattern.MatchString(text) {
			return r.league
		}
	}
	return ""
}

// LeagueLabel returns the display label for a possibly empty league tag.
func LeagueLabel(league string) string {
	if league == "" {
		return LeagueOther
	}
	return league
}
