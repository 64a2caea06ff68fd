package generator

import (
	"fmt"
	"unicode/utf8"
)

const systemPrompt = `You are a senior news editor. You write clear, neutral articles in simple English for a general audience. You only use the facts you are given and never invent quotes, numbers or names. You always answer with a single JSON object and nothing else.`

const articleTemplate = `Write a long-form news article based on the facts below.

Structure the "content" field as HTML, in exactly this order:
1. An opening <p> paragraph that states the news in two or three sentences.
2. <h2>What Happened</h2> followed by paragraphs describing the events.
3. <h2>Key Highlights</h2> followed by a <ul> with 4 to 6 <li> bullet points.
4. <h2>Why Does This Matter</h2> followed by paragraphs on the impact.
5. <h2>Reactions</h2> followed by paragraphs on how people, officials or experts responded, only if the facts mention it.
6. <h2>What Happens Next</h2> followed by paragraphs on expected developments.
7. <h2>FAQ</h2> followed by 3 questions as <h3> each answered in a <p>.
8. <h2>Conclusion</h2> followed by a short closing paragraph.

Return JSON with exactly these keys:
{
  "title": "a clear headline, at most 90 characters",
  "content": "the HTML article",
  "summary": "one or two sentences, at most 300 characters",
  "tags": ["exactly", "five", "short", "topic", "tags"],
  "subCategory": "one word or short phrase naming the sub-section"
}

Facts:
%s`

// BuildPrompt returns the user prompt for facts, truncated to maxChars runes.
func BuildPrompt(facts string, maxChars int) string {
	if maxChars > 0 && utf8.RuneCountInString(facts) > maxChars {
		facts = string([]rune(facts)[:maxChars])
	}
	return fmt.Sprintf(articleTemplate, facts)
}
