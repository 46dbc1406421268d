// Package report 분류된 오퍼 목록을 알림 메시지(제목, HTML 본문, 텍스트 본문)로 렌더링합니다.
package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/pkg/mark"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/diff"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
)

const (
	DefaultCurrency  = "PLN"
	DefaultLinkLabel = "View Offer"
	DefaultNewColor  = "#d9534f"
)

// Message 렌더링 결과입니다.
type Message struct {
	Subject  string
	HTMLBody string

	// TextBody 채팅 채널 등 HTML을 표시할 수 없는 곳에 사용하는 일반 텍스트 본문
	TextBody string
}

// Hooks 소스별로 표시 형식을 바꾸기 위한 함수들입니다. nil인 항목은 기본 동작을 사용합니다.
type Hooks struct {
	// FormatPrice 표시용 가격 문자열을 변환합니다. 현재 가격과 이전 가격 모두에 적용됩니다.
	FormatPrice func(price string) string

	// FormatTitle 오퍼 블록의 제목을 결정합니다. 기본값은 Offer.DisplayTitle입니다.
	FormatTitle func(o offer.Offer) string
}

// Renderer 한 소스의 알림 메시지를 만듭니다.
type Renderer struct {
	// Title 메일 제목의 앞부분
	Title string

	// Heading 템플릿이 없을 때 사용하는 기본 문서의 제목
	Heading string

	// TemplateFile 오퍼 목록이 들어갈 자리({{offers}})를 하나 가진 템플릿 문서 경로입니다.
	// 비어 있으면 기본 문서를 사용합니다. 렌더링할 때마다 다시 읽습니다.
	TemplateFile string

	Currency  string
	LinkLabel string
	NewColor  string

	// Now 제목의 날짜를 정하는 시계입니다. nil이면 time.Now를 사용합니다.
	Now func() time.Time

	Hooks Hooks
}

// Render 분류된 오퍼 목록을 입력 순서대로 렌더링합니다.
func (r *Renderer) Render(classified []diff.Classified) (Message, error) {
	fragment := r.renderFragment(classified)

	body := "<h1>" + html.EscapeString(r.Heading) + "</h1>" + fragment
	if r.TemplateFile != "" {
		tmpl, err := LoadTemplate(r.TemplateFile)
		if err != nil {
			return Message{}, err
		}
		body = strings.Replace(tmpl, Placeholder, fragment, 1)
	}

	return Message{
		Subject:  r.Subject(),
		HTMLBody: body,
		TextBody: r.renderText(classified),
	}, nil
}

// Subject "{Title} - YYYY-MM-DD" 형식의 제목을 반환합니다. 날짜는 로컬 시간 기준입니다.
func (r *Renderer) Subject() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return fmt.Sprintf("%s - %s", r.Title, now().Local().Format("2006-01-02"))
}

func (r *Renderer) renderFragment(classified []diff.Classified) string {
	var sb strings.Builder
	for _, c := range classified {
		r.writeBlock(&sb, c)
	}
	return sb.String()
}

func (r *Renderer) writeBlock(sb *strings.Builder, c diff.Classified) {
	title := html.EscapeString(r.formatTitle(c.Offer))
	if c.Kind == diff.NewOffer {
		fmt.Fprintf(sb, "<h2 style='color: %s'>%s %s</h2>", html.EscapeString(r.newColor()), mark.New, title)
	} else {
		fmt.Fprintf(sb, "<h2>%s</h2>", title)
	}

	fmt.Fprintf(sb, "<p>Location: %s</p>", html.EscapeString(c.Offer.Location))

	currency := html.EscapeString(r.currency())
	price := html.EscapeString(r.formatPrice(c.Offer.Price))
	if marker, ok := directionMark(c); ok {
		prev := html.EscapeString(r.formatPrice(c.PreviousPrice))
		fmt.Fprintf(sb, "<p>Price: %s %s (%s %s%s)</p>", price, currency, prev, currency, marker.WithSpace())
	} else {
		fmt.Fprintf(sb, "<p>Price: %s %s</p>", price, currency)
	}

	fmt.Fprintf(sb, "<p>Link: <a href='%s'>%s</a></p>", html.EscapeString(c.Offer.Link), html.EscapeString(r.linkLabel()))
	sb.WriteString("<hr>")
}

// renderText HTML 블록과 같은 내용을 일반 텍스트로 만듭니다. 링크는 URL 그대로 표시합니다.
func (r *Renderer) renderText(classified []diff.Classified) string {
	var sb strings.Builder
	sb.WriteString(r.Heading)

	currency := r.currency()
	for _, c := range classified {
		sb.WriteString("\n\n")

		if c.Kind == diff.NewOffer {
			sb.WriteString(mark.New.String() + " ")
		}
		sb.WriteString(r.formatTitle(c.Offer))

		fmt.Fprintf(&sb, "\nLocation: %s", c.Offer.Location)
		if marker, ok := directionMark(c); ok {
			fmt.Fprintf(&sb, "\nPrice: %s %s (%s %s%s)", r.formatPrice(c.Offer.Price), currency, r.formatPrice(c.PreviousPrice), currency, marker.WithSpace())
		} else {
			fmt.Fprintf(&sb, "\nPrice: %s %s", r.formatPrice(c.Offer.Price), currency)
		}
		fmt.Fprintf(&sb, "\nLink: %s", c.Offer.Link)
	}

	return sb.String()
}

// directionMark PriceChanged이면서 방향이 정해진 경우에만 마커를 반환합니다.
func directionMark(c diff.Classified) (mark.Mark, bool) {
	if c.Kind != diff.PriceChanged {
		return "", false
	}
	switch c.Direction {
	case diff.Down:
		return mark.Down, true
	case diff.Up:
		return mark.Up, true
	default:
		return "", false
	}
}

func (r *Renderer) formatTitle(o offer.Offer) string {
	if r.Hooks.FormatTitle != nil {
		return r.Hooks.FormatTitle(o)
	}
	return o.DisplayTitle()
}

func (r *Renderer) formatPrice(price string) string {
	if r.Hooks.FormatPrice != nil {
		return r.Hooks.FormatPrice(price)
	}
	return price
}

func (r *Renderer) currency() string {
	if r.Currency == "" {
		return DefaultCurrency
	}
	return r.Currency
}

func (r *Renderer) linkLabel() string {
	if r.LinkLabel == "" {
		return DefaultLinkLabel
	}
	return r.LinkLabel
}

func (r *Renderer) newColor() string {
	if r.NewColor == "" {
		return DefaultNewColor
	}
	return r.NewColor
}
