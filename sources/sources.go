// Package sources holds the table of known news sources and the adapter
// each one is extracted with. Source IDs match the backlog's source keys.
package sources

import (
	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/goquery"
	"github.com/fwojciec/newsgrab/readability"
	"github.com/fwojciec/newsgrab/trafilatura"
)

// Layout options applied on top of newsgrab.StandardLayout.
type option func(*newsgrab.Layout)

func withSummary(l *newsgrab.Layout)   { l.Summary = newsgrab.Text() }
func noKeywords(l *newsgrab.Layout)    { l.Keywords = newsgrab.FieldRule{} }
func noDescription(l *newsgrab.Layout) { l.Description = newsgrab.FieldRule{} }

// hashtagKeywords reads tag links such as "#SUV" as "SUV, EV".
func hashtagKeywords(l *newsgrab.Layout) {
	l.Keywords = newsgrab.FieldRule{
		Mode:       newsgrab.ModeJoinTextOfMany,
		Separator:  ", ",
		TrimPrefix: "#",
	}
}

// multiMetaKeywords joins the content of several keyword meta tags.
func multiMetaKeywords(l *newsgrab.Layout) {
	l.Keywords = newsgrab.JoinAttribute("content", ",")
}

// articleBodyText reads the body as the text of the schema.org article
// element, whatever content selector is configured.
func articleBodyText(l *newsgrab.Layout) {
	l.Content = newsgrab.FieldRule{
		Mode:     newsgrab.ModeTextOfOne,
		Selector: `article[itemprop="articleBody"]`,
	}
}

func layout(opts ...option) newsgrab.Layout {
	l := newsgrab.StandardLayout()
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func generic(opts ...option) newsgrab.SourceAdapter {
	return newsgrab.NewGenericAdapter(layout(opts...))
}

// article extracts the body by content detection, for pages whose body has
// no stable selector.
func article(opts ...option) newsgrab.SourceAdapter {
	return trafilatura.NewArticleAdapter(layout(opts...))
}

// social extracts the body of social and video pages with readability.
func social(opts ...option) newsgrab.SourceAdapter {
	return readability.NewArticleAdapter(layout(opts...))
}

// Table returns the adapter of every known source.
func Table() map[string]newsgrab.SourceAdapter {
	return map[string]newsgrab.SourceAdapter{
		"2gamesomeComTw":     generic(withSummary, noKeywords),
		"AutoLtnComTw":       generic(noKeywords),
		"AutosChinatimesCom": generic(),
		"AutosUdnCom":        generic(),
		"AutosYahooComTw":    generic(noKeywords),
		"C8891ComTw":         generic(withSummary),
		"Car2dudeCom":        generic(),
		"CarfunTw":           generic(noKeywords),
		"CarfuroshaCom":      generic(noKeywords),
		"CarsTvbsComTw":      generic(noKeywords),
		"CnWsjCom":           generic(withSummary),
		"CteeComTw": goquery.NewParagraphAdapter(layout(noKeywords, noDescription),
			"article > div.entry-content.clearfix.single-post-content", ""),
		"DigimobeeComTw":   generic(noKeywords),
		"ForumJorsindoCom": generic(noKeywords),
		"GarageSicarComTw": generic(noKeywords),
		"IncarTw":          generic(multiMetaKeywords),
		"MoneyUdnCom":      generic(withSummary),
		"MotormagComTw":    generic(withSummary, noKeywords),
		"NYamCom":          generic(hashtagKeywords),
		"NewsCnyesCom":     generic(noKeywords),
		"NewsPchomeComTw":  generic(),
		"NewsUcarComTw":    generic(noKeywords),
		"SpeedEttodayNet":  generic(),
		"TalkLtnComTw":     generic(),
		"TodayLineMe":      generic(noKeywords),
		"TwNewsYahooCom":   generic(noKeywords, noDescription),
		"TwNextappleCom":   generic(),
		"UdnCom":           generic(),
		"Www7carTw":        generic(withSummary, hashtagKeywords),
		"WwwAutonetComTw": goquery.NewTableAdapter(layout(noDescription),
			"#newsContent", "tr > td > table"),
		"WwwAutoonlineComTw": generic(withSummary),
		"WwwBuycartvCom":     generic(),
		"WwwCarexpertComTw":  generic(noKeywords),
		"WwwCarimageComTw":   generic(),
		"WwwCarnewsCom":      generic(noKeywords),
		"WwwCarstuffComTw":   generic(withSummary),
		"WwwCartureComTw":    generic(withSummary, noKeywords),
		"WwwCarvideoComTw":   generic(),
		"WwwChinatimesCom":   generic(withSummary),
		"WwwCnaComTw":        generic(hashtagKeywords, noDescription),
		"WwwCvnComTw":        generic(noKeywords, noDescription),
		"WwwDigitimesComTw":  generic(),
		"WwwEttodayNet":      generic(),
		"WwwFacebookCom":     social(noKeywords),
		"WwwFindcarComTw":    generic(noKeywords),
		"WwwGochoiceComTw":   generic(),
		"WwwKingautosNet": goquery.NewParagraphAdapter(layout(),
			"div.article_content", "<strong>編輯精選</strong>"),
		"WwwLiancarCom":     generic(),
		"WwwMirrormediaMg":  generic(withSummary),
		"WwwMobile01Com":    generic(hashtagKeywords),
		"WwwMoto7Net":       generic(noKeywords),
		"WwwMotoruncleNet":  generic(noKeywords),
		"WwwMsnCom":         article(noKeywords, noDescription),
		"WwwMsnCom2":        article(noKeywords, noDescription),
		"WwwNownewsCom":     generic(articleBodyText),
		"WwwPlaycarOrg":     generic(),
		"WwwSetnCom":        generic(),
		"WwwSupermoto8Com":  generic(),
		"WwwTaipeitimesCom": generic(),
		"WwwTaiwannewsComTw": goquery.NewParagraphAdapter(layout(noKeywords),
			`article.container-fluid.article div[itemprop="articleBody"]`, ""),
		"WwwTcarTv":       generic(),
		"WwwTopcarTw":     generic(withSummary),
		"WwwTopgeartwCom": generic(),
		"WwwTwmotorComTw": generic(),
		"WwwYoutubeCom":   social(noKeywords, noDescription),
	}
}

// Register installs every known source into reg.
func Register(reg newsgrab.AdapterRegistry) {
	for id, adapter := range Table() {
		reg.Register(id, adapter)
	}
}
