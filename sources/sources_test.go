package sources_test

import (
	"context"
	"testing"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/extract"
	"github.com/fwojciec/newsgrab/goquery"
	"github.com/fwojciec/newsgrab/readability"
	"github.com/fwojciec/newsgrab/sources"
	"github.com/fwojciec/newsgrab/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	reg := extract.NewRegistry()
	sources.Register(reg)

	ids := reg.List()
	assert.Len(t, ids, 65)
	for _, id := range ids {
		adapter, err := reg.Resolve(id)
		require.NoError(t, err, id)
		assert.NotNil(t, adapter, id)
	}

	_, err := reg.Resolve("WwwUnknownCom")
	assert.Equal(t, newsgrab.EUNKNOWNSOURCE, newsgrab.ErrorCode(err))
}

func TestTable_AdapterKinds(t *testing.T) {
	t.Parallel()

	table := sources.Table()

	assert.IsType(t, &goquery.ParagraphAdapter{}, table["WwwKingautosNet"])
	assert.IsType(t, &goquery.ParagraphAdapter{}, table["CteeComTw"])
	assert.IsType(t, &goquery.ParagraphAdapter{}, table["WwwTaiwannewsComTw"])
	assert.IsType(t, &goquery.TableAdapter{}, table["WwwAutonetComTw"])
	assert.IsType(t, &trafilatura.ArticleAdapter{}, table["WwwMsnCom"])
	assert.IsType(t, &readability.ArticleAdapter{}, table["WwwYoutubeCom"])
	assert.IsType(t, &readability.ArticleAdapter{}, table["WwwFacebookCom"])
	assert.IsType(t, &newsgrab.GenericAdapter{}, table["WwwTaipeitimesCom"])
}

const sourceHTML = `<html><head>
<title> Road test </title>
<meta name="keywords" content="suv">
<meta name="keywords" content="hybrid">
<meta name="description" content="A long drive">
</head><body>
<p class="lead">Short version</p>
<div class="tags"><a>#SUV</a><a> #Hybrid </a></div>
<article itemprop="articleBody">
Line one


Line two
</article>
<div class="body"><p>Para</p></div>
</body></html>`

func extractFrom(t *testing.T, sourceID string, spec newsgrab.FieldSpec) *newsgrab.RawFields {
	t.Helper()

	page, err := goquery.NewPage(sourceHTML)
	require.NoError(t, err)

	adapter, ok := sources.Table()[sourceID]
	require.True(t, ok, sourceID)

	raw, err := adapter.Extract(context.Background(), page, spec)
	require.NoError(t, err)
	return raw
}

func TestTable_Layouts(t *testing.T) {
	t.Parallel()

	spec := newsgrab.FieldSpec{
		TitleSelector:       "title",
		KeywordSelector:     `meta[name="keywords"]`,
		DescriptionSelector: `meta[name="description"]`,
		SummarySelector:     "p.lead",
		ContentSelector:     "div.body",
	}

	t.Run("standard layout ignores summary", func(t *testing.T) {
		t.Parallel()

		raw := extractFrom(t, "WwwTaipeitimesCom", spec)
		assert.Equal(t, " Road test ", raw.Title)
		assert.Equal(t, "suv", raw.Keywords)
		assert.Equal(t, "A long drive", raw.Description)
		assert.Empty(t, raw.Summary)
		assert.Equal(t, "<p>Para</p>", raw.Content)
	})

	t.Run("summary sources read it", func(t *testing.T) {
		t.Parallel()

		raw := extractFrom(t, "CnWsjCom", spec)
		assert.Equal(t, "Short version", raw.Summary)
	})

	t.Run("keywordless sources ignore the keyword selector", func(t *testing.T) {
		t.Parallel()

		raw := extractFrom(t, "AutoLtnComTw", spec)
		assert.Empty(t, raw.Keywords)
		assert.Equal(t, "A long drive", raw.Description)
	})

	t.Run("hashtag keywords", func(t *testing.T) {
		t.Parallel()

		hashtags := spec
		hashtags.KeywordSelector = "div.tags a"
		raw := extractFrom(t, "Www7carTw", hashtags)
		assert.Equal(t, "SUV, Hybrid", raw.Keywords)
		assert.Equal(t, "Short version", raw.Summary)
	})

	t.Run("multiple keyword meta tags", func(t *testing.T) {
		t.Parallel()

		raw := extractFrom(t, "IncarTw", spec)
		assert.Equal(t, "suv,hybrid", raw.Keywords)
	})

	t.Run("article body text overrides configured content", func(t *testing.T) {
		t.Parallel()

		raw := extractFrom(t, "WwwNownewsCom", spec)
		assert.Equal(t, "Line one\nLine two", newsgrab.Normalize(raw.Content))
	})

	t.Run("descriptionless sources ignore the description selector", func(t *testing.T) {
		t.Parallel()

		raw := extractFrom(t, "WwwCvnComTw", spec)
		assert.Empty(t, raw.Description)
		assert.Empty(t, raw.Keywords)
		assert.Equal(t, "<p>Para</p>", raw.Content)
	})
}
