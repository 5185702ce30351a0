package enrich

import (
	"fmt"
	"regexp"
	"strings"
)

// Deterministic template layer. Every function here is a pure function of
// (title, summary) or of the normalized text, so two degraded runs over the
// same input produce identical bundles.

const (
	maxTitleChars    = 100
	summaryWordLimit = 200
	summarySentences = 3
	defaultTitle     = "Session Recap"
)

var fileTokenRe = regexp.MustCompile(`(?i)\.(pdf|docx?|txt|pptx?|md)\b`)

// sanitizeSpoken keeps file-derived tokens out of text meant to be read
// aloud: underscores become spaces and extensions are dropped.
func sanitizeSpoken(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = fileTokenRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// FallbackTitle prefers a known title; otherwise the first line of the
// normalized text, truncated to 100 characters.
func FallbackTitle(knownTitle, content string) string {
	if t := sanitizeSpoken(knownTitle); t != "" {
		return truncate(t, maxTitleChars)
	}

	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncate(sanitizeSpoken(line), maxTitleChars)
		}
	}

	return defaultTitle
}

// FallbackSummary returns the first three sentences of long content and short
// content verbatim.
func FallbackSummary(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	if len(strings.Fields(content)) <= summaryWordLimit {
		return content
	}

	return firstSentences(content, summarySentences)
}

// GenericSummary covers the empty-input corner where no text survived any
// upstream stage.
func GenericSummary(title string) string {
	return fmt.Sprintf("This session, %s, walked through practical strategies "+
		"the speaker has applied in their own work, with concrete examples and "+
		"lessons worth revisiting.", sanitizeSpoken(title))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}

func firstSentences(content string, n int) string {
	var b strings.Builder
	count := 0

	runes := []rune(content)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			followedByBreak := !atEnd && (runes[i+1] == ' ' || runes[i+1] == '\n')
			if atEnd || followedByBreak {
				count++
				if count == n {
					break
				}
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// PodcastScript renders the fixed first-person narrative used when the
// provider contributed no script of its own.
func PodcastScript(title, summary string) string {
	t := sanitizeSpoken(title)
	s := sanitizeSpoken(summary)

	return fmt.Sprintf(`Hey everyone, thanks for tuning in. I just walked out of a session called %s, and I wanted to get my thoughts down while everything is still fresh, because there was a lot in there worth sharing.

Let me start with the big picture. %s

That framing stuck with me, and here's why. We all sit through a lot of content in this industry, and most of it washes over you. The sessions that stay with you are the ones that change how you look at a problem you already had, and this was one of those. Walking in, I expected a familiar rundown of ideas I'd heard before. Walking out, I had three pages of notes and a couple of assumptions I need to go re-examine.

The first thing that stood out was how grounded the material was. This wasn't theory for theory's sake. Every point came back to something concrete, something you could try on Monday morning. I find that's the real test of a session like this: can you translate it into action without a committee and a quarter of planning? Here, the answer was yes, repeatedly.

The second thing was the honesty about trade-offs. It's easy to present a framework as if it has no costs. What I appreciated was the willingness to say where the approach breaks down, where the edge cases live, and what it looks like when you apply the idea badly. That kind of candor is rare, and it's exactly what makes advice usable rather than aspirational.

And the third thing, the one I keep coming back to, is how much of this comes down to consistency rather than brilliance. The compounding effect of doing the fundamentals well, over and over, showed up in every example. Nobody wants to hear that the secret is patience and repetition, but the evidence keeps pointing the same way.

If you only take one thing from my recap, make it this: go back to the core idea in the title, sit with it for ten minutes, and ask where it applies in your own work. That exercise alone is worth more than most of what I could summarize here.

I'll put my full notes in the write-up that goes with this episode, so check that out if you want the details. If this was useful, share it with someone who would have wanted to be in the room. Thanks for listening, and I'll catch you after the next session.`, t, s)
}

// LinkedInPost renders the professional-network fallback post.
func LinkedInPost(title, summary string) string {
	t := sanitizeSpoken(title)
	s := sanitizeSpoken(summary)

	return fmt.Sprintf(`I just attended "%s" and it delivered more than I expected.

%s

Three takeaways I'm bringing back to my team:

1. The fundamentals compound. Consistency beats brilliance over any meaningful time horizon.
2. Every framework has trade-offs. Knowing where an idea breaks down is as valuable as the idea itself.
3. If you can't act on it Monday morning, it's entertainment, not insight.

What's the best session you've attended recently?

#ProfessionalDevelopment #ContinuousLearning #Leadership`, t, s)
}

// TwitterThread renders the short-form fallback thread.
func TwitterThread(title, summary string) string {
	t := sanitizeSpoken(title)
	s := sanitizeSpoken(summary)

	return fmt.Sprintf(`Just out of "%s" — quick thread on what stood out 🧵

1/ The core idea: %s

2/ What made it land: every point was something you could act on immediately. No theory without a next step.

3/ The part nobody wants to hear: the secret is consistency, not brilliance. The fundamentals compound.

4/ Worth your time if you get the chance to catch a recording.

#learning #conference`, t, truncate(s, 180))
}

// BlogContent renders the sectioned long-form fallback article.
func BlogContent(title, summary string) string {
	t := sanitizeSpoken(title)
	s := sanitizeSpoken(summary)

	return fmt.Sprintf(`# %s: Notes and Takeaways

## Overview

%s

## Why This Session Mattered

I attend a lot of sessions, and most of them blur together within a week. This one didn't, and it's worth unpacking why. The material was grounded in practice rather than theory: every framework came attached to a concrete example, and every recommendation came with an honest account of where it breaks down.

## The Key Ideas

The through-line of the session was that durable results come from compounding fundamentals, not one-off heroics. That sounds obvious written down, but the session earned the claim with evidence — examples where patient, repeated execution of simple ideas outperformed more sophisticated approaches that couldn't be sustained.

A second idea worth holding onto: trade-offs are information. A framework presented without costs is marketing. The most useful parts of the session were the moments of candor about edge cases and failure modes, because that is what makes advice transferable to your own context.

## What I'm Doing Differently

The test of any session is what changes afterward. For me, the action items are: re-examine the assumptions I've been carrying about my current project, pick one fundamental to execute more consistently, and schedule time to revisit these notes in a month — because the value of notes decays fast if you never return to them.

## Closing Thought

If the title resonates with a problem you already have, find the recording. Ten minutes with the core idea will repay the time.`, t, s)
}

// KeyQuotes renders the fallback pull-quotes.
func KeyQuotes(title, summary string) []string {
	t := sanitizeSpoken(title)

	return []string{
		fmt.Sprintf("The session %s reframed a problem I thought I already understood.", t),
		"Consistency beats brilliance over any meaningful time horizon.",
		"A framework presented without trade-offs is marketing, not advice.",
		"If you can't act on it Monday morning, it's entertainment, not insight.",
	}
}
