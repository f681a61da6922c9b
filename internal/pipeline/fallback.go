package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/masato/tag-generator/internal/tagparse"
)

var (
	latinTermRe    = regexp.MustCompile(`[A-Z][A-Za-z0-9+#.-]{2,}`)
	katakanaTermRe = regexp.MustCompile(`[ァ-ヶー]{3,}`)
	kanjiTermRe    = regexp.MustCompile(`[一-龯]{2,}`)
)

// importantTerms are domain words promoted when present anywhere in the
// row text, regardless of the pattern matchers above.
var importantTerms = []string{
	"AI", "DX", "IT", "Web", "API", "SQL", "Excel",
	"マーケティング", "プログラミング", "デザイン", "マネジメント",
	"エンジニアリング", "コミュニケーション", "セキュリティ",
	"データ分析", "機械学習", "クラウド", "営業", "経理", "人事", "法務",
}

// OfflineService is a provider-free TagService for dry runs and air-gapped
// environments: pattern-matched keyword extraction, frequency-ordered
// vocabulary, containment-based selection. Deterministic by construction.
type OfflineService struct {
	cfg    Config
	logger *slog.Logger
}

// NewOfflineService creates an offline tag service.
func NewOfflineService(cfg Config, logger *slog.Logger) *OfflineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OfflineService{cfg: cfg, logger: logger}
}

// ExtractKeywordsLight extracts keywords without calling a provider:
// Latin acronyms and terms, katakana runs, kanji compounds, and a fixed
// list of important domain words, filtered and deduplicated the same way
// model output would be.
func (s *OfflineService) ExtractKeywordsLight(_ context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var found []string
	found = append(found, latinTermRe.FindAllString(text, -1)...)
	found = append(found, katakanaTermRe.FindAllString(text, -1)...)
	found = append(found, kanjiTermRe.FindAllString(text, -1)...)
	for _, term := range importantTerms {
		if strings.Contains(text, term) {
			found = append(found, term)
		}
	}

	var keywords []string
	seen := make(map[string]struct{}, len(found))
	for _, raw := range found {
		kw := tagparse.CleanTag(raw)
		if kw == "" || tagparse.IsStopWord(kw) || tagparse.IsGenericTag(kw) {
			continue
		}
		key := tagparse.NormalizeKey(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, kw)
	}
	if max := s.cfg.MaxHeuristicKeywords; max > 0 && len(keywords) > max {
		keywords = keywords[:max]
	}
	return keywords, nil
}

// OptimizeTags deduplicates and caps the keyword list at the target
// vocabulary size, preserving input order.
func (s *OfflineService) OptimizeTags(_ context.Context, keywords []string) ([]string, error) {
	tags := dedupeKeywords(keywords)
	if len(tags) > s.cfg.TargetVocabularySize {
		tags = tags[:s.cfg.TargetVocabularySize]
	}
	return tags, nil
}

// SelectTagsForVideo picks vocabulary entries that literally appear in
// the content, in vocabulary order, up to the assignment maximum.
func (s *OfflineService) SelectTagsForVideo(_ context.Context, content string, vocabulary []string) ([]string, error) {
	lower := strings.ToLower(content)
	var selected []string
	for _, v := range vocabulary {
		if len(selected) >= s.cfg.MaxAssignment {
			break
		}
		if strings.Contains(lower, tagparse.NormalizeKey(v)) {
			selected = append(selected, v)
		}
	}
	if len(selected) == 0 && len(vocabulary) > 0 {
		// Nothing matched; hand back the head of the vocabulary so the
		// row still gets a deterministic assignment.
		n := s.cfg.MinAssignment
		if n > len(vocabulary) {
			n = len(vocabulary)
		}
		selected = append(selected, vocabulary[:n]...)
	}
	return selected, nil
}
