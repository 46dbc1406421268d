package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/pkg/mark"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/diff"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 9, 12, 0, 0, 0, time.Local)
}

func newRenderer() *report.Renderer {
	return &report.Renderer{
		Title:   "Ending Offers",
		Heading: "Rainbow Ending Offers",
		Now:     fixedNow,
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender_FallbackDocument(t *testing.T) {
	t.Parallel()

	hotel := offer.New("Hotel X", "Warsaw", "999", "https://x/1")
	msg, err := newRenderer().Render([]diff.Classified{{Offer: hotel, Kind: diff.Unchanged}})
	require.NoError(t, err)

	assert.Equal(t, "Ending Offers - 2024-03-09", msg.Subject)
	assert.Equal(t,
		"<h1>Rainbow Ending Offers</h1>"+
			"<h2>Hotel X</h2>"+
			"<p>Location: Warsaw</p>"+
			"<p>Price: 999 PLN</p>"+
			"<p>Link: <a href='https://x/1'>View Offer</a></p>"+
			"<hr>",
		msg.HTMLBody)

	for _, m := range []mark.Mark{mark.New, mark.Down, mark.Up, mark.Alert} {
		assert.NotContains(t, msg.HTMLBody, m.String(), "변동 없는 오퍼에는 마커가 없어야 합니다")
	}
}

func TestRender_Emphasis(t *testing.T) {
	t.Parallel()

	hotel := offer.New("Hotel X", "Warsaw", "1100", "https://x/1")

	tests := []struct {
		name        string
		classified  diff.Classified
		contains    []string
		notContains []string
	}{
		{
			name:       "신규 오퍼는 제목에 마커와 강조 색상",
			classified: diff.Classified{Offer: hotel, Kind: diff.NewOffer},
			contains:   []string{"<h2 style='color: #d9534f'>🆕 Hotel X</h2>", "<p>Price: 1100 PLN</p>"},
		},
		{
			name:       "가격 하락",
			classified: diff.Classified{Offer: hotel, Kind: diff.PriceChanged, PreviousPrice: "1 200", Direction: diff.Down},
			contains:   []string{"<h2>Hotel X</h2>", "<p>Price: 1100 PLN (1 200 PLN 🔻)</p>"},
		},
		{
			name:       "가격 상승",
			classified: diff.Classified{Offer: hotel, Kind: diff.PriceChanged, PreviousPrice: "1 000", Direction: diff.Up},
			contains:   []string{"<p>Price: 1100 PLN (1 000 PLN 🔺)</p>"},
		},
		{
			name:        "방향이 없는 가격 변동은 그대로 표시",
			classified:  diff.Classified{Offer: hotel, Kind: diff.PriceChanged, PreviousPrice: "brak", Direction: diff.None},
			contains:    []string{"<p>Price: 1100 PLN</p>"},
			notContains: []string{"brak", "🔻", "🔺"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := newRenderer().Render([]diff.Classified{tt.classified})
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, msg.HTMLBody, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, msg.HTMLBody, s)
			}
		})
	}
}

func TestRender_EscapesValues(t *testing.T) {
	t.Parallel()

	o := offer.New("<b>Hotel</b> & Spa", "Kraków <script>", "1 000", "https://x/1?a=1&b='2'")
	r := newRenderer()
	r.Heading = "Oferty <Last Minute>"

	msg, err := r.Render([]diff.Classified{{Offer: o, Kind: diff.Unchanged}})
	require.NoError(t, err)

	assert.Contains(t, msg.HTMLBody, "<h1>Oferty &lt;Last Minute&gt;</h1>")
	assert.Contains(t, msg.HTMLBody, "<h2>&lt;b&gt;Hotel&lt;/b&gt; &amp; Spa</h2>")
	assert.Contains(t, msg.HTMLBody, "Kraków &lt;script&gt;")
	assert.Contains(t, msg.HTMLBody, "href='https://x/1?a=1&amp;b=&#39;2&#39;'")
	assert.NotContains(t, msg.HTMLBody, "<script>")
}

func TestRender_PreservesOrder(t *testing.T) {
	t.Parallel()

	classified := []diff.Classified{
		{Offer: offer.New("C", "l", "1", "https://x/c")},
		{Offer: offer.New("A", "l", "1", "https://x/a")},
		{Offer: offer.New("B", "l", "1", "https://x/b")},
	}

	msg, err := newRenderer().Render(classified)
	require.NoError(t, err)

	c := strings.Index(msg.HTMLBody, "<h2>C</h2>")
	a := strings.Index(msg.HTMLBody, "<h2>A</h2>")
	b := strings.Index(msg.HTMLBody, "<h2>B</h2>")
	assert.True(t, c < a && a < b, "입력 순서대로 렌더링되어야 합니다")
}

func TestRender_Hooks(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	r.Currency = "zł"
	r.Hooks = report.Hooks{
		FormatPrice: func(p string) string { return "~" + offer.NormalizePrice(p) },
		FormatTitle: func(o offer.Offer) string { return strings.ToUpper(o.DisplayTitle()) },
	}

	o := offer.New("Hotel X", "Warsaw", "1 100", "https://x/1")
	msg, err := r.Render([]diff.Classified{{Offer: o, Kind: diff.PriceChanged, PreviousPrice: "1 200", Direction: diff.Down}})
	require.NoError(t, err)

	assert.Contains(t, msg.HTMLBody, "<h2>HOTEL X</h2>")
	assert.Contains(t, msg.HTMLBody, "<p>Price: ~1100 zł (~1200 zł 🔻)</p>")
}

func TestRender_Template(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "<html><body><div class='offers'>{{offers}}</div></body></html>")
	r := newRenderer()
	r.TemplateFile = path

	o := offer.New("Hotel X", "Warsaw", "999", "https://x/1")
	msg, err := r.Render([]diff.Classified{{Offer: o}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(msg.HTMLBody, "<html><body><div class='offers'><h2>Hotel X</h2>"))
	assert.True(t, strings.HasSuffix(msg.HTMLBody, "<hr></div></body></html>"))
	assert.NotContains(t, msg.HTMLBody, report.Placeholder)
	assert.NotContains(t, msg.HTMLBody, "<h1>")
}

func TestRender_TemplateMissing(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	r.TemplateFile = filepath.Join(t.TempDir(), "missing.html")

	_, err := r.Render(nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
}

func TestRender_TextBody(t *testing.T) {
	t.Parallel()

	classified := []diff.Classified{
		{Offer: offer.New("Hotel X", "Warsaw", "999", "https://x/1"), Kind: diff.NewOffer},
		{Offer: offer.New("Hotel Y", "Gdańsk", "1100", "https://x/2"), Kind: diff.PriceChanged, PreviousPrice: "1 200", Direction: diff.Down},
	}

	msg, err := newRenderer().Render(classified)
	require.NoError(t, err)

	assert.Equal(t,
		"Rainbow Ending Offers\n\n"+
			"🆕 Hotel X\nLocation: Warsaw\nPrice: 999 PLN\nLink: https://x/1\n\n"+
			"Hotel Y\nLocation: Gdańsk\nPrice: 1100 PLN (1 200 PLN 🔻)\nLink: https://x/2",
		msg.TextBody)
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantType apperrors.ErrorType
	}{
		{"자리 표시자 하나", "<p>{{offers}}</p>", false, apperrors.Unknown},
		{"자리 표시자 없음", "<p>empty</p>", true, apperrors.InvalidInput},
		{"자리 표시자 두 개", "{{offers}}{{offers}}", true, apperrors.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := report.LoadTemplate(writeFile(t, tt.content))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.content, doc)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantType))
		})
	}
}
