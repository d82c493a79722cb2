package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// Newsletter is a rendered email ready to send
type Newsletter struct {
	Subject string
	HTML    string
}

type newsletterCard struct {
	Title    string
	Host     string
	Deadline string
	Period   string
	Prize    string
	Link     string
	Urgent   bool
}

type newsletterData struct {
	SentDate string
	SentAt   string
	Stats    contest.Stats
	Cards    []newsletterCard
}

// RenderNewsletter builds the HTML newsletter for records as of now
func RenderNewsletter(records []*contest.Record, now time.Time) (*Newsletter, error) {
	data := newsletterData{
		SentDate: now.Format("01.02"),
		SentAt:   now.Format("2006년 01월 02일 15:04"),
		Stats:    contest.Summarize(records, now),
	}

	for _, rec := range records {
		card := newsletterCard{
			Title:    rec.Title,
			Host:     rec.Host,
			Deadline: contest.FormatDeadline(rec.Deadline, now),
			Period:   rec.Period,
			Link:     rec.Link,
			Urgent:   rec.IsClosingSoon(now, contest.UrgentDays),
		}
		if rec.Prize != contest.Unknown {
			card.Prize = rec.Prize
		}
		data.Cards = append(data.Cards, card)
	}

	var buf bytes.Buffer
	if err := newsletterTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering newsletter: %w", err)
	}

	return &Newsletter{
		Subject: Subject(len(records), now),
		HTML:    buf.String(),
	}, nil
}

// Subject returns the newsletter subject line
func Subject(count int, now time.Time) string {
	return fmt.Sprintf("🏆 공모전 뉴스레터 - %d개 공모전 (%s)", count, now.Format(contest.DateLayout))
}

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; background: #f5f7fa; padding: 20px; line-height: 1.6; }
.container { max-width: 800px; margin: 0 auto; background: #fff; border-radius: 20px; overflow: hidden; }
.header { background: #e2cdf7; padding: 40px 30px; text-align: center; }
.header h1 { font-size: 28px; color: #2c3e50; }
.stat-item { display: inline-block; background: #fff; padding: 15px 25px; margin: 10px; border-radius: 50px; }
.stat-number { font-size: 24px; font-weight: bold; color: #8224e3; display: block; }
.stat-label { font-size: 12px; color: #666; }
.content { padding: 30px; }
.contest-card { border-left: 4px solid #8224e3; margin: 20px 0; padding: 25px; border-radius: 15px; background: #f8fafc; }
.contest-card.urgent { border-left-color: #e74c3c; }
.contest-title { font-size: 20px; font-weight: 700; color: #2c3e50; margin-bottom: 15px; }
.info-label { font-weight: 600; color: #555; display: inline-block; min-width: 50px; }
.contest-link { display: inline-block; background: #8224e3; color: #fff !important; text-decoration: none; padding: 12px 25px; border-radius: 25px; margin-top: 15px; }
.footer { background: #2c3e50; color: #fff; padding: 30px; text-align: center; }
.footer a { color: #a058e9 !important; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>🏆 공모전 뉴스레터</h1>
<div class="stat-item"><span class="stat-number">{{.Stats.Total}}</span><div class="stat-label">총 공모전</div></div>
<div class="stat-item"><span class="stat-number">{{.Stats.Urgent}}</span><div class="stat-label">7일 내 마감</div></div>
<div class="stat-item"><span class="stat-number">{{.SentDate}}</span><div class="stat-label">발송일</div></div>
</div>
<div class="content">
{{- range .Cards}}
<div class="contest-card{{if .Urgent}} urgent{{end}}">
<div class="contest-title">{{.Title}}</div>
<div><span class="info-label">🏢 주최</span> {{.Host}}</div>
<div><span class="info-label">📅 마감일</span> {{.Deadline}}</div>
<div><span class="info-label">⏰ 기간</span> {{.Period}}</div>
{{- if .Prize}}
<div><span class="info-label">💰 상금</span> {{.Prize}}</div>
{{- end}}
<a href="{{.Link}}" class="contest-link" target="_blank">공모전 바로가기 →</a>
</div>
{{- else}}
<p>조건에 맞는 공모전이 없습니다.</p>
{{- end}}
</div>
<div class="footer">
<p>📧 이 이메일은 wevity-contests를 통해 자동 발송되었습니다.</p>
<p>더 많은 공모전 정보는 <a href="https://www.wevity.com">Wevity</a>에서 확인하세요.</p>
<p style="font-size: 12px; opacity: 0.7;">발송시간: {{.SentAt}}</p>
</div>
</div>
</body>
</html>
`))
