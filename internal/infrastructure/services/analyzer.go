package services

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/logger"
)

// RequirementAnalyzer extracts test signals from free requirement text
type RequirementAnalyzer interface {
	Analyze(text string) *entity.Analysis
}

// EntityTagger is an optional named-entity pass layered over the regex entities
type EntityTagger interface {
	Tag(text string) ([]entity.Entity, error)
}

type keywordGroup struct {
	name     string
	keywords []string
}

var actionTable = []keywordGroup{
	{"NAVIGATE", []string{"git", "aç", "ziyaret et", "yönlendir", "page", "url", "tarayıcı"}},
	{"INPUT", []string{"gir", "yazı", "doldur", "form", "alanı", "şifre", "email", "text", "input"}},
	{"CLICK", []string{"tıkla", "klik", "basıl", "seç", "button", "buton", "link"}},
	{"VERIFY", []string{"doğrula", "kontrol", "kontrol et", "assert", "göster", "görün", "expect"}},
	{"WAIT", []string{"bekle", "yüklendi", "loading", "await"}},
	{"SCROLL", []string{"kaydır", "scroll", "aşağı", "yukarı"}},
	{"UPLOAD", []string{"yükle", "upload", "dosya", "attach"}},
	{"DELETE", []string{"sil", "delete", "remove", "kaldır"}},
	{"EDIT", []string{"düzenle", "edit", "update", "değiştir"}},
}

var riskTable = []struct {
	level    entity.Priority
	keywords []string
}{
	{entity.PriorityCritical, []string{"güvenlik", "şifre", "tokib", "ödeme", "kredi", "kart", "kimlik", "saldırı", "hack", "injection", "sql"}},
	{entity.PriorityHigh, []string{"oturum", "session", "login", "logout", "authorize", "permission", "hata", "error", "validation"}},
	{entity.PriorityMedium, []string{"arama", "search", "filtreleme", "sorting", "pagination"}},
	{entity.PriorityLow, []string{"görünüm", "ui", "layout", "display", "format"}},
}

var edgeCaseTable = []keywordGroup{
	{"BOUNDARY", []string{"sınır", "limit", "max", "min", "maksimum", "minimum"}},
	{"NULL", []string{"boş", "empty", "null", "none", "undefined"}},
	{"INVALID", []string{"geçersiz", "invalid", "hatalı", "wrong", "incorrect"}},
	{"SPECIAL_CHARS", []string{"özel karakter", "special", "simge", "symbol"}},
	{"LARGE_DATA", []string{"büyük", "large", "heavy", "massive"}},
	{"CONCURRENT", []string{"eşzamanlı", "concurrent", "parallel", "aynı anda"}},
	{"TIMEOUT", []string{"timeout", "time out", "uzun süre"}},
}

var defaultEdgeCases = []string{
	"BOUNDARY: Min/Max values",
	"NULL: Empty/null inputs",
	"INVALID: Invalid data types",
}

var testTypeTable = []keywordGroup{
	{"UI", []string{"klik", "click", "arayüz", "button", "form", "input", "görün"}},
	{"API", []string{"api", "endpoint", "request", "response", "json", "rest"}},
	{"SECURITY", []string{"güvenlik", "security", "şifre", "password", "token", "auth", "injection"}},
	{"PERFORMANCE", []string{"hız", "speed", "performance", "yavaş", "slow", "timeout"}},
	{"INTEGRATION", []string{"entegrasyon", "integration", "bağlantı", "connection", "database", "db"}},
}

var entityPatterns = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{"USER", regexp.MustCompile(`(?i)(kullanıcı|user|admin|guest)`)},
	{"PAGE", regexp.MustCompile(`(?i)(sayfa|page|dashboard|menu|panel)`)},
	{"FIELD", regexp.MustCompile(`(?i)(alanı|field|input|textbox)`)},
	{"PRODUCT", regexp.MustCompile(`(?i)(ürün|product|item|kategori)`)},
	{"ACTION", regexp.MustCompile(`(?i)(işlem|process|action|görev)`)},
}

var (
	flowStarters = []string{"flow", "senaryo", "scenario", "process", "workflow"}
	flowSteps    = []string{"then", "sonra", "after", "when", "eğer", "if"}
)

var sentenceSplit = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)

// KeywordAnalyzer is the keyword and regex requirement analyzer
type KeywordAnalyzer struct {
	tagger EntityTagger
	log    logger.Logger
}

// NewRequirementAnalyzer creates an analyzer. tagger may be nil.
func NewRequirementAnalyzer(tagger EntityTagger, log logger.Logger) RequirementAnalyzer {
	return &KeywordAnalyzer{
		tagger: tagger,
		log:    log,
	}
}

// Analyze never fails; missing optional signals reduce the output instead
func (a *KeywordAnalyzer) Analyze(text string) *entity.Analysis {
	sentences := splitSentences(text)
	lower := strings.ToLower(text)

	return &entity.Analysis{
		Entities:  a.extractEntities(text),
		Actions:   extractActions(sentences),
		Risks:     analyzeRisks(lower),
		Sentiment: analyzeSentiment(text),
		TestTypes: determineTestTypes(lower),
		EdgeCases: identifyEdgeCases(lower),
		UserFlows: extractUserFlows(sentences),
	}
}

func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(lower string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

func (a *KeywordAnalyzer) extractEntities(text string) []entity.Entity {
	var found []entity.Entity
	for _, p := range entityPatterns {
		for _, loc := range p.pattern.FindAllStringIndex(text, -1) {
			found = append(found, entity.Entity{Type: p.kind, Value: text[loc[0]:loc[1]], Position: loc[0]})
		}
	}

	if a.tagger == nil {
		a.log.Debug("No entity tagger configured, using regex entities only")
	} else if tagged, err := a.tagger.Tag(text); err != nil {
		a.log.Debug("Entity tagger failed, using regex entities only", logger.Error(err))
	} else {
		found = append(found, tagged...)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Position < found[j].Position })

	seen := make(map[string]bool, len(found))
	unique := make([]entity.Entity, 0, len(found))
	for _, e := range found {
		key := e.Type + "\x00" + strings.ToLower(e.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}
	return unique
}

func extractActions(sentences []string) []entity.Action {
	seen := make(map[string]bool)
	actions := []entity.Action{}
	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, group := range actionTable {
			kw, ok := containsAny(lower, group.keywords)
			if !ok {
				continue
			}
			key := group.name + "\x00" + kw
			if seen[key] {
				continue
			}
			seen[key] = true
			actions = append(actions, entity.Action{Type: group.name, Keyword: kw, Sentence: sentence, Order: i})
		}
	}
	return actions
}

func analyzeRisks(lower string) []entity.RiskBucket {
	buckets := []entity.RiskBucket{}
	for _, row := range riskTable {
		var hits []string
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > 0 {
			buckets = append(buckets, entity.RiskBucket{Level: row.level, Keywords: hits})
		}
	}
	return buckets
}

func determineTestTypes(lower string) []string {
	var types []string
	for _, group := range testTypeTable {
		if _, ok := containsAny(lower, group.keywords); ok {
			types = append(types, group.name)
		}
	}
	if len(types) == 0 {
		return []string{"UI"}
	}
	return types
}

func identifyEdgeCases(lower string) []string {
	var cases []string
	for _, group := range edgeCaseTable {
		if kw, ok := containsAny(lower, group.keywords); ok {
			cases = append(cases, group.name+": "+kw)
		}
	}
	if len(cases) == 0 {
		return append([]string(nil), defaultEdgeCases...)
	}
	return cases
}

func extractUserFlows(sentences []string) []entity.UserFlow {
	var flows []entity.UserFlow
	current := entity.UserFlow{}
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		if _, ok := containsAny(lower, flowStarters); ok {
			if len(current.Steps) > 0 {
				flows = append(flows, current)
			}
			current = entity.UserFlow{Description: sentence}
		}
		if _, ok := containsAny(lower, flowSteps); ok {
			current.Steps = append(current.Steps, sentence)
		}
	}
	if len(current.Steps) > 0 {
		flows = append(flows, current)
	}
	if len(flows) > 0 {
		return flows
	}

	n := len(sentences)
	if n > 3 {
		n = 3
	}
	return []entity.UserFlow{{Description: "Default Flow", Steps: append([]string{}, sentences[:n]...)}}
}

var sentimentLexicon = map[string]float64{
	"good": 1.9, "great": 3.1, "excellent": 3.2, "easy": 1.9, "fast": 1.3, "success": 2.7,
	"successful": 2.8, "secure": 1.4, "valid": 1.2, "correct": 1.8, "happy": 2.7, "works": 1.0,
	"başarılı": 2.7, "başarıyla": 2.5, "kolay": 1.9, "hızlı": 1.3, "güvenli": 1.4, "geçerli": 1.2,
	"doğru": 1.8, "iyi": 1.9, "mükemmel": 3.2,
	"bad": -2.5, "error": -1.6, "fail": -2.3, "failed": -2.3, "failure": -2.3, "slow": -1.1,
	"wrong": -2.1, "invalid": -1.3, "broken": -2.0, "crash": -2.6, "attack": -2.1, "problem": -1.7,
	"hata": -1.6, "hatalı": -2.1, "başarısız": -2.3, "yavaş": -1.1, "geçersiz": -1.3, "saldırı": -2.1,
	"sorun": -1.7, "kötü": -2.5,
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

// analyzeSentiment is a small valence-lexicon scorer. compound is normalized to [-1, 1].
func analyzeSentiment(text string) entity.Sentiment {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return entity.Sentiment{Neutral: 1}
	}

	var pos, neg, sum float64
	neutral := 0
	for _, w := range words {
		v, ok := sentimentLexicon[w]
		switch {
		case !ok:
			neutral++
		case v > 0:
			pos += v + 1
		default:
			neg += -v + 1
		}
		sum += v
	}

	total := pos + neg + float64(neutral)
	round := func(x float64) float64 { return math.Round(x*1000) / 1000 }
	return entity.Sentiment{
		Positive: round(pos / total),
		Negative: round(neg / total),
		Neutral:  round(float64(neutral) / total),
		Compound: round(sum / math.Sqrt(sum*sum+15)),
	}
}
