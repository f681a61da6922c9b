// Package tagparse turns free-text LLM responses into clean tag lists.
// It implements comma/newline splitting with a whitespace fallback, the
// generic-tag filter, and a stricter variant for Stage 2 selection output.
package tagparse

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxTags is the hard ceiling on any parsed tag list.
const MaxTags = 300

// Options tunes a parse. MinViable is the count below which the strict
// generic filter falls back to the loose filter; callers that know the
// expected batch size set it so that a strict pass over mostly-generic
// output cannot empty the whole batch. Zero disables the fallback.
// MaxTags of zero uses the package ceiling.
type Options struct {
	MinViable int
	MaxTags   int
}

// Numeric-quantifier phrases ("3つの要素" and friends) carry no search
// value regardless of the noun that follows.
var quantifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[0-9０-９]+つの`),
	regexp.MustCompile(`^[0-9０-９]+個の`),
	regexp.MustCompile(`^[0-9０-９]+の`),
}

// Bare category nouns and process verbs that the upstream models keep
// emitting despite prompt instructions.
var genericWords = map[string]struct{}{
	"要素": {}, "分類": {}, "ポイント": {}, "手法": {}, "方法": {}, "技術": {},
	"基本": {}, "応用": {}, "実践": {}, "理論": {}, "概要": {}, "入門": {},
	"初級": {}, "中級": {}, "上級": {}, "基礎": {}, "発展": {}, "活用": {},
	"ステップ": {}, "段階": {}, "項目": {}, "観点": {}, "視点": {}, "条件": {},
	"特徴": {}, "要因": {}, "基準": {}, "原則": {},
	"改善": {}, "最適化": {}, "強化": {}, "向上": {}, "推進": {}, "展開": {},
	"構築": {}, "確立": {}, "設計": {}, "運用": {}, "管理": {}, "分析": {},
	"実務スキル": {}, "思考法": {}, "業界知識": {}, "ツール活用": {},
	"人材育成": {}, "スキル開発": {}, "成果向上": {}, "効率化": {},
	"戦術": {}, "手順": {}, "方法論": {},
	"element": {}, "point": {}, "method": {}, "step": {}, "basic": {},
}

// stopWords are particles and fillers dropped from keyword pools.
var stopWords = map[string]struct{}{
	"について": {}, "による": {}, "ため": {}, "ための": {}, "こと": {},
	"もの": {}, "とは": {}, "です": {}, "ます": {},
}

// Parse extracts a deduplicated tag list from raw model output with the
// strict generic filter and the package ceiling.
func Parse(raw string) []string {
	return ParseWith(raw, Options{MaxTags: MaxTags})
}

// ParseWith extracts a deduplicated tag list from raw model output.
// Splits on commas and newlines, then whitespace when neither appears.
func ParseWith(raw string, opts Options) []string {
	limit := opts.MaxTags
	if limit <= 0 || limit > MaxTags {
		limit = MaxTags
	}

	candidates := splitCandidates(raw)

	var strict, loose []string
	for _, c := range candidates {
		tag := CleanTag(c)
		if tag == "" {
			continue
		}
		if passesLooseFilter(tag) {
			loose = append(loose, tag)
		}
		if !IsGenericTag(tag) {
			strict = append(strict, tag)
		}
	}

	result := dedupeFold(strict)
	if opts.MinViable > 0 && len(result) < opts.MinViable {
		looseResult := dedupeFold(loose)
		if len(looseResult) > len(result) {
			result = looseResult
		}
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// ParseSelection parses a Stage 2 selection response. Selection output is
// drawn from a pre-vetted vocabulary, so the generic filter is relaxed; in
// exchange, preamble lines and list markers the model likes to emit are
// stripped. The result is capped at maxTags.
func ParseSelection(raw string, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = MaxTags
	}

	var candidates []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = stripPreamblePrefix(line)
		if line == "" || isPreambleLine(line) {
			continue
		}
		line = stripListMarker(line)
		candidates = append(candidates, splitCommas(line)...)
	}

	var tags []string
	for _, c := range candidates {
		tag := CleanTag(c)
		if tag == "" || !passesLooseFilter(tag) {
			continue
		}
		tags = append(tags, tag)
	}

	tags = dedupeFold(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// Serialize joins tags with ", " so that Parse(Serialize(tags)) recovers
// the same set for tags free of delimiter characters.
func Serialize(tags []string) string {
	return strings.Join(tags, ", ")
}

// CleanTag trims whitespace and surrounding quote characters from a
// single candidate. Control characters become spaces rather than being
// deleted so that a stray carriage return never glues two words together.
func CleanTag(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'「」『』`)
	return strings.TrimSpace(s)
}

// IsGenericTag reports whether a tag should be dropped by the strict
// filter: numeric-quantifier phrases, bare category nouns, too-short or
// pure-numeric or punctuation-only tokens.
func IsGenericTag(tag string) bool {
	if len([]rune(tag)) < 2 {
		return true
	}
	if _, ok := genericWords[strings.ToLower(tag)]; ok {
		return true
	}
	if _, ok := stopWords[tag]; ok {
		return true
	}
	for _, p := range quantifierPatterns {
		if p.MatchString(tag) {
			return true
		}
	}
	if isAllDigits(tag) {
		return true
	}
	return !hasContentRune(tag)
}

// IsStopWord reports whether a keyword is a particle/filler that should
// never enter the pooled keyword set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// NormalizeKey returns the case-insensitive comparison form of a tag.
func NormalizeKey(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func passesLooseFilter(tag string) bool {
	return len([]rune(tag)) >= 2 && hasContentRune(tag)
}

// splitCandidates splits on commas and newlines together; models freely
// mix the two within one response. Whitespace splitting is the fallback
// when neither delimiter appears.
func splitCandidates(raw string) []string {
	if strings.ContainsAny(raw, ",、\n") {
		return strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == '、' || r == '\n'
		})
	}
	return strings.Fields(raw)
}

func splitCommas(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、'
	})
}

var listMarkerRe = regexp.MustCompile(`^(?:[0-9０-９]+[.)．、]\s*|[-*・]\s*)`)

func stripListMarker(line string) string {
	return listMarkerRe.ReplaceAllString(line, "")
}

// stripPreamblePrefix drops a leading "出力:" / "Selected tags:" style
// label when tags follow on the same line.
func stripPreamblePrefix(line string) string {
	for _, sep := range []string{"：", ":"} {
		idx := strings.Index(line, sep)
		if idx < 0 {
			continue
		}
		prefix := strings.TrimSpace(line[:idx])
		if prefix != "" && hasPreamblePrefix(prefix) {
			return strings.TrimSpace(line[idx+len(sep):])
		}
	}
	return line
}

// isPreambleLine detects framing text around a selection list, e.g.
// "The following tags were selected:" or 「選択したタグ:」.
func isPreambleLine(line string) bool {
	if strings.HasSuffix(line, ":") || strings.HasSuffix(line, "：") {
		return true
	}
	return hasPreamblePrefix(line)
}

var preamblePrefixes = []string{
	"the following", "here are", "selected tags", "output",
	"選択したタグ", "以下のタグ", "承認済み", "出力",
}

func hasPreamblePrefix(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range preamblePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func dedupeFold(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		key := NormalizeKey(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, t)
	}
	return result
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func hasContentRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
