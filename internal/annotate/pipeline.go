// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotate

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jeranaias/fontweave/internal/host"
	"github.com/jeranaias/fontweave/internal/resolve"
	"github.com/jeranaias/fontweave/internal/settings"
)

// Host DOM structure the pipeline reads and writes.
const (
	messageSelector  = ".mes"
	messageIndexAttr = "mesid"
	textSelector     = ".mes_text"

	// Translation overlays render the message as nested original and
	// translated blocks. Each block is annotated independently.
	splitSelector = ".original-text, .translated-text"
)

// compiledRule is one tag rule ready to run: pattern compiled, family
// resolved.
type compiledRule struct {
	rule   settings.CustomTagRule
	re     *regexp.Regexp
	family string
}

// tagMatch is one captured tag occurrence in message source text.
type tagMatch struct {
	rule    compiledRule
	content string
}

// Pipeline runs annotation passes over the chat DOM. Safe for use from one
// goroutine at a time per document; the internal lock only guards the rule
// cache.
type Pipeline struct {
	mu          sync.Mutex
	cached      []compiledRule
	fingerprint string
}

// NewPipeline returns a pipeline with an empty rule cache.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Annotate runs one pass over doc: every unprocessed or stale message gets
// its tag rules applied, processed messages are skipped, and messages under
// edit are left alone and forced back to unprocessed. When styling or tag
// rules are disabled, existing annotation spans are unwrapped instead.
//
// Returns the number of elements whose DOM was written. A missing chat-data
// source aborts the pass as a no-op.
func (p *Pipeline) Annotate(doc *goquery.Document, chat host.ChatSource, r *resolve.Resolved) int {
	if !r.Enabled || !r.CustomTagsEnabled || len(r.CustomTags) == 0 {
		return p.unwrapAll(doc)
	}

	messages := chat.Messages()
	if messages == nil {
		return 0
	}

	rules, fp := p.compile(r)
	if len(rules) == 0 {
		return p.unwrapAll(doc)
	}

	changed := 0
	doc.Find(messageSelector).Each(func(_ int, sel *goquery.Selection) {
		idxRaw, ok := sel.Attr(messageIndexAttr)
		if !ok {
			return
		}
		idx, err := strconv.Atoi(idxRaw)
		if err != nil || idx < 0 || idx >= len(messages) {
			return
		}
		source := messages[idx].SourceText()
		if source == "" {
			return
		}

		dg := digest(source, fp)
		switch elementState(sel, dg) {
		case StateEditing:
			// Force reprocessing once the edit control goes away.
			sel.RemoveAttr(AttrDigest)
			return
		case StateProcessed:
			return
		}

		if p.annotateElement(sel, source, rules) {
			changed++
		}
		// Mark processed even without a match so unmatched messages are
		// not rescanned every cycle.
		sel.SetAttr(AttrDigest, dg)
	})
	return changed
}

// compile returns the cached rule set when the fingerprint matches,
// recompiling otherwise. A pattern that fails to compile is logged and
// skipped; one bad tag name never blocks the others.
func (p *Pipeline) compile(r *resolve.Resolved) ([]compiledRule, string) {
	fp := ruleFingerprint(r)

	p.mu.Lock()
	defer p.mu.Unlock()
	if fp == p.fingerprint {
		return p.cached, fp
	}

	rules := make([]compiledRule, 0, len(r.CustomTags))
	for _, tag := range r.CustomTags {
		if tag.TagName == "" || tag.FontName == "" {
			continue
		}
		re, err := regexp.Compile(`(?is)<` + regexp.QuoteMeta(tag.TagName) + `>(.*?)</` + regexp.QuoteMeta(tag.TagName) + `>`)
		if err != nil {
			log.Printf("annotate: skipping tag %q: %v", tag.TagName, err)
			continue
		}
		rules = append(rules, compiledRule{
			rule:   tag,
			re:     re,
			family: r.FamilyFor(tag.FontName),
		})
	}
	p.cached = rules
	p.fingerprint = fp
	return rules, fp
}

func ruleFingerprint(r *resolve.Resolved) string {
	var b strings.Builder
	for _, tag := range r.CustomTags {
		fmt.Fprintf(&b, "%s|%s|%d|%s;", strings.ToLower(tag.TagName), tag.FontName, tag.FontSize, r.FamilyFor(tag.FontName))
	}
	return b.String()
}

// annotateElement applies rules to one message element. Reports whether the
// DOM was written.
func (p *Pipeline) annotateElement(sel *goquery.Selection, source string, rules []compiledRule) bool {
	text := sel.Find(textSelector).First()
	if text.Length() == 0 {
		return false
	}

	if splits := text.Find(splitSelector); splits.Length() > 0 {
		return annotateSplits(splits, source, rules)
	}

	rendered, matched := renderSource(source, rules)
	if !matched {
		return false
	}
	current, err := text.Html()
	if err == nil && current == rendered {
		return false
	}
	text.SetHtml(rendered)
	return true
}

// renderSource applies every rule's pattern to the source text, wrapping
// captured content in annotation spans and converting newlines to explicit
// breaks. matched is false when no rule hit, in which case the rendered
// output must not replace host markup.
func renderSource(source string, rules []compiledRule) (rendered string, matched bool) {
	out := source
	for _, cr := range rules {
		out = cr.re.ReplaceAllStringFunc(out, func(m string) string {
			sub := cr.re.FindStringSubmatch(m)
			if sub == nil {
				return m
			}
			matched = true
			content := strings.ReplaceAll(sub[1], "\n", "<br>")
			return wrapSpan(cr, content)
		})
	}
	if !matched {
		return "", false
	}
	return strings.ReplaceAll(out, "\n", "<br>"), true
}

// annotateSplits handles the host's original/translated nesting: each split
// keeps its own markup and is wrapped whole when its plain text corresponds
// to a captured tag content.
func annotateSplits(splits *goquery.Selection, source string, rules []compiledRule) bool {
	matches := collectMatches(source, rules)
	if len(matches) == 0 {
		return false
	}

	changed := false
	splits.Each(func(_ int, split *goquery.Selection) {
		if split.ChildrenFiltered("span[" + AttrTag + "]").Length() > 0 {
			return
		}
		m := matchForText(matches, split.Text())
		if m == nil {
			return
		}
		inner, err := split.Html()
		if err != nil {
			return
		}
		split.SetHtml(wrapSpan(m.rule, inner))
		changed = true
	})
	return changed
}

func collectMatches(source string, rules []compiledRule) []tagMatch {
	var matches []tagMatch
	for _, cr := range rules {
		for _, sub := range cr.re.FindAllStringSubmatch(source, -1) {
			matches = append(matches, tagMatch{rule: cr, content: sub[1]})
		}
	}
	return matches
}

// matchForText picks the captured tag content corresponding to one rendered
// text block: exact match first, then longest containment in either
// direction. Translation overlays trim and re-wrap text, so exact equality
// is the exception, not the rule.
func matchForText(matches []tagMatch, text string) *tagMatch {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for i := range matches {
		if strings.TrimSpace(matches[i].content) == text {
			return &matches[i]
		}
	}
	var best *tagMatch
	for i := range matches {
		c := strings.TrimSpace(matches[i].content)
		if c == "" {
			continue
		}
		if strings.Contains(text, c) || strings.Contains(c, text) {
			if best == nil || len(c) > len(strings.TrimSpace(best.content)) {
				best = &matches[i]
			}
		}
	}
	return best
}

func wrapSpan(cr compiledRule, innerHTML string) string {
	style := fmt.Sprintf("font-family: '%s', sans-serif !important;", cr.family)
	if cr.rule.FontSize > 0 {
		style += fmt.Sprintf(" font-size: %dpx !important;", cr.rule.FontSize)
	}
	return fmt.Sprintf(`<span %s="%s" style="%s">%s</span>`, AttrTag, strings.ToLower(cr.rule.TagName), style, innerHTML)
}

// Invalidate clears every processed mark so the next pass rescans all
// messages, annotated or not.
func (p *Pipeline) Invalidate(doc *goquery.Document) {
	doc.Find("[" + AttrDigest + "]").Each(func(_ int, sel *goquery.Selection) {
		sel.RemoveAttr(AttrDigest)
	})
}

// unwrapAll flattens every annotation span back to its content and clears
// processing marks, so disabling tag rules leaves no stale styling behind.
func (p *Pipeline) unwrapAll(doc *goquery.Document) int {
	changed := 0
	doc.Find("span[" + AttrTag + "]").Each(func(_ int, span *goquery.Selection) {
		for _, node := range span.Nodes {
			unwrapNode(node)
		}
		changed++
	})
	doc.Find("[" + AttrDigest + "]").Each(func(_ int, sel *goquery.Selection) {
		sel.RemoveAttr(AttrDigest)
	})
	return changed
}

// unwrapNode lifts a node's children into its place. Moving the existing
// nodes keeps text intact without a serialize-and-reparse round trip.
func unwrapNode(node *html.Node) {
	parent := node.Parent
	if parent == nil {
		return
	}
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		node.RemoveChild(child)
		parent.InsertBefore(child, node)
		child = next
	}
	parent.RemoveChild(node)
}
