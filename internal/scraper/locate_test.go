package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestLocator_FixturePage(t *testing.T) {
	doc := parseHTML(t, loadFixture(t))

	fragments := NewLocator().Locate(doc)

	// the header row and the banner are skipped
	assert.Len(t, fragments, 5)
	for _, f := range fragments {
		assert.NotContains(t, f.AttrOr("class", ""), "banner")
		assert.NotContains(t, f.AttrOr("class", ""), "top")
	}
}

func TestLocator_FallsThroughToLaterCandidate(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
			<ul class="list">
				<li class="banner"><a href="/ad">지금 바로 확인하세요 특별 광고</a></li>
				<li>짧은 글</li>
			</ul>
			<div class="item"><a href="/?c=find&ix=1">첫 번째 공모전 안내문</a></div>
			<div class="item"><a href="/?c=find&ix=2">두 번째 공모전 안내문</a></div>
			<div class="item"><a href="/?c=find&ix=3">세 번째 공모전 안내문</a></div>
		</body></html>`)

	fragments := NewLocator().Locate(doc)

	require.Len(t, fragments, 3)
	assert.Equal(t, "/?c=find&ix=1", fragments[0].Find("a").AttrOr("href", ""))
	assert.Equal(t, "/?c=find&ix=3", fragments[2].Find("a").AttrOr("href", ""))
}

func TestLocator_ValidityRules(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   int
	}{
		{
			name:   "text too short",
			markup: `<ul class="list"><li><a href="/a">짧다</a></li></ul>`,
			want:   0,
		},
		{
			name:   "no link",
			markup: `<ul class="list"><li>링크가 없는 공모전 설명 텍스트</li></ul>`,
			want:   0,
		},
		{
			name:   "anchor without href",
			markup: `<ul class="list"><li><a>링크가 없는 공모전 설명 텍스트</a></li></ul>`,
			want:   0,
		},
		{
			name:   "notice class",
			markup: `<ul class="list"><li class="Notice"><a href="/n">공지사항 안내 텍스트입니다</a></li></ul>`,
			want:   0,
		},
		{
			name:   "class containing a chrome word is kept",
			markup: `<ul class="list"><li class="ad-free topic"><a href="/c">정상적인 공모전 항목입니다</a></li></ul>`,
			want:   1,
		},
		{
			name:   "nothing matches",
			markup: `<p>검색 결과가 없습니다.</p>`,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments := NewLocator().Locate(parseHTML(t, "<html><body>"+tt.markup+"</body></html>"))
			assert.Len(t, fragments, tt.want)
		})
	}
}

func TestLocator_CustomSelectors(t *testing.T) {
	doc := parseHTML(t, `<section><article class="card"><a href="/x">맞춤 선택자로 찾은 공모전</a></article></section>`)

	assert.Empty(t, NewLocator().Locate(doc))
	assert.Len(t, NewLocator("article.card").Locate(doc), 1)
}

func TestLocator_NilDocument(t *testing.T) {
	assert.Empty(t, NewLocator().Locate(nil))
}
