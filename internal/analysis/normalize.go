package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdflens/pdflens/internal/extract"
	"github.com/pdflens/pdflens/internal/readtime"
)

// topLevelSynonyms maps the Russian top-level keys models sometimes emit onto
// the schema keys.
var topLevelSynonyms = map[string]string{
	"объём":       "volume",
	"объем":       "volume",
	"сложность":   "complexity",
	"тематика":    "topics",
	"категория":   "category",
	"ограничения": "limitations",
}

var (
	volumeAliases = map[string][]string{
		"word_count": {"word_count", "количество_слов", "words"},
		"char_count": {"char_count", "количество_символов", "chars"},
		"page_count": {"page_count", "количество_страниц", "pages"},
		"byte_size":  {"byte_size", "размер_в_байтах", "size"},
		"reading_time_min": {
			"reading_time_min", "read_time_minutes", "reading_time_minutes",
			"время_чтения_минут", "time_to_read_minutes",
		},
	}
	complexityAliases = map[string][]string{
		"score":           {"score", "оценка", "оценка_1_5"},
		"level":           {"level", "label", "уровень"},
		"estimated_grade": {"estimated_grade", "grade", "класс"},
		"drivers":         {"drivers", "ключевые_слова", "keywords"},
		"notes":           {"notes", "description", "basis", "основание", "описание"},
	}
)

// Normalize coerces a loosely-shaped model response into a complete Result.
// Missing or malformed fields are backfilled from the document metadata and
// the first-page text; the returned Result always satisfies ResultSchema.
func Normalize(data map[string]any, meta *InternalMetadata, text string) Result {
	if meta == nil {
		meta = &InternalMetadata{}
	}
	norm := make(map[string]any, len(data))
	for k, v := range data {
		if canonical, ok := topLevelSynonyms[k]; ok {
			norm[canonical] = v
		} else {
			norm[k] = v
		}
	}

	var res Result
	res.DocLanguage = firstNonEmpty(
		asString(norm["doc_language"]),
		meta.LangHint,
		extract.DetectLanguage(text),
		"en",
	)
	res.Volume = normalizeVolume(asMap(norm["volume"]), meta, text, res.DocLanguage)
	res.Complexity = normalizeComplexity(norm["complexity"])
	res.Topics = normalizeTopics(norm["topics"])
	res.Category = normalizeCategory(asMap(norm["category"]))
	res.Limitations = normalizeLimitations(asMap(norm["limitations"]), text)
	return res
}

func normalizeVolume(raw map[string]any, meta *InternalMetadata, text, lang string) Volume {
	var vol Volume

	if v, ok := pickInt(raw, volumeAliases["word_count"]); ok {
		vol.WordCount = v
	} else {
		vol.WordCount = meta.PrecomputedWordCount
	}

	if v, ok := pickInt(raw, volumeAliases["char_count"]); ok && v > 0 {
		vol.CharCount = v
	} else {
		_, cc := extract.CountWordsAndChars(text)
		vol.CharCount = cc
	}

	if v, ok := pickInt(raw, volumeAliases["page_count"]); ok {
		vol.PageCount = &v
	} else if meta.PageCount > 0 {
		pc := meta.PageCount
		vol.PageCount = &pc
	}
	if v, ok := pickInt(raw, volumeAliases["byte_size"]); ok {
		vol.ByteSize = &v
	} else if meta.ByteSize > 0 {
		bs := meta.ByteSize
		vol.ByteSize = &bs
	}

	if v, ok := pickFloat(raw, volumeAliases["reading_time_min"]); ok && v > 0 {
		vol.ReadingTimeMin = v
	} else {
		vol.ReadingTimeMin = readingMinutes(lang, vol.WordCount)
	}

	wcMethod := MethodPrecomputed
	if meta.ReadingMetrics != nil {
		wcMethod = MethodContentScan
	}
	if m := asMap(raw["method"]); m != nil {
		vol.Method = VolumeMethod{
			WordCount: firstNonEmpty(asString(m["word_count"]), wcMethod),
			CharCount: firstNonEmpty(asString(m["char_count"]), MethodNoSpaces),
		}
	} else {
		vol.Method = VolumeMethod{WordCount: wcMethod, CharCount: MethodNoSpaces}
	}
	return vol
}

func normalizeComplexity(rawAny any) Complexity {
	raw := asMap(rawAny)
	// A bare string is treated as a level name.
	if raw == nil {
		if s := asString(rawAny); s != "" {
			raw = map[string]any{"level": s}
		} else {
			raw = map[string]any{}
		}
	}

	cx := Complexity{
		Score:          40,
		Level:          string(readtime.LevelMedium),
		EstimatedGrade: "school",
		Drivers:        []string{},
	}

	if v, found := pick(raw, complexityAliases["score"]); found {
		if f, ok := toFloat(v); ok {
			cx.Score = rescaleScore(f, v)
		}
	}
	if v, found := pick(raw, complexityAliases["level"]); found {
		if s := asString(v); s != "" {
			cx.Level = string(readtime.ParseLevel(s))
		}
	}
	if v, found := pick(raw, complexityAliases["estimated_grade"]); found {
		cx.EstimatedGrade = firstNonEmpty(coerceString(v), "school")
	}
	if v, found := pick(raw, complexityAliases["drivers"]); found {
		cx.Drivers = coerceStringList(v)
	}
	if v, found := pick(raw, complexityAliases["notes"]); found {
		cx.Notes = coerceString(v)
	}
	return cx
}

// rescaleScore maps the score scales models actually emit onto 1-100:
// fractions in [0,1] scale by 100, integers in 1..5 spread over the range,
// anything else truncates.
func rescaleScore(f float64, orig any) int {
	if f >= 0 && f <= 1 {
		return int(math.Round(f * 100))
	}
	if isIntValue(orig) && f >= 1 && f <= 5 {
		return int(math.Round(f / 5 * 100))
	}
	return int(f)
}

func normalizeTopics(rawAny any) []Topic {
	topics := []Topic{}

	switch raw := rawAny.(type) {
	case map[string]any:
		t := Topic{
			Label:     firstNonEmpty(asString(raw["label"]), asString(raw["major"])),
			Score:     floatOr(raw["score"], 0.5),
			Keywords:  coerceStringList(firstPresent(raw, "keywords", "minor")),
			Rationale: firstNonEmpty(asString(raw["rationale"]), asString(raw["basis"])),
		}
		if t.Label != "" {
			topics = append(topics, t)
		}
	case []any:
		for _, item := range raw {
			m := asMap(item)
			if m == nil {
				continue
			}
			t := Topic{
				Label:     asString(m["label"]),
				Score:     floatOr(m["score"], 0.5),
				Keywords:  coerceStringList(m["keywords"]),
				Rationale: asString(m["rationale"]),
			}
			if t.Label != "" {
				topics = append(topics, t)
			}
		}
	}

	if len(topics) > 6 {
		topics = topics[:6]
	}
	return topics
}

func normalizeCategory(raw map[string]any) Category {
	cat := Category{
		Label:    "uncategorized",
		Keywords: []string{},
	}
	if raw == nil {
		cat.Basis = "none"
		return cat
	}

	if label := firstNonEmpty(asString(raw["label"]), asString(raw["name"]), asString(raw["title"])); label != "" {
		cat.Label = label
	}
	if f, ok := toFloat(raw["score"]); ok {
		cat.Score = f
	} else if f, ok := toFloat(firstPresent(raw, "confidence", "уверенность")); ok {
		cat.Score = f
	}

	basis := firstNonEmpty(
		asString(raw["basis"]),
		asString(raw["description"]),
		asString(raw["основание"]),
		asString(raw["описание"]),
	)
	if basis == "" {
		if cat.Label != "uncategorized" {
			basis = "llm"
		} else {
			basis = "none"
		}
	}
	cat.Basis = basis

	if kw := coerceStringList(firstPresent(raw, "keywords", "ключевые_слова")); len(kw) > 0 {
		cat.Keywords = kw
	}
	return cat
}

func normalizeLimitations(raw map[string]any, text string) Limitations {
	w1, _ := extract.CountWordsAndChars(text)
	lim := Limitations{ShortOrNoisyInput: w1 < 150}
	if raw == nil {
		return lim
	}
	if b, ok := raw["short_or_noisy_input"].(bool); ok {
		lim.ShortOrNoisyInput = b
	}
	lim.Comments = firstNonEmpty(asString(raw["comments"]), asString(raw["description"]))
	return lim
}

// readingMinutes is the plain base-speed estimate used when no per-page
// breakdown is available, rounded to one decimal.
func readingMinutes(lang string, words int) float64 {
	wpm := readtime.BaseWPM(lang)
	return math.Round(float64(words)/float64(wpm)*10) / 10
}

// --- loose-value coercion helpers -----------------------------------------

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func isIntValue(v any) bool {
	switch n := v.(type) {
	case int:
		return true
	case float64:
		return n == math.Trunc(n)
	default:
		return false
	}
}

func floatOr(v any, def float64) float64 {
	if f, ok := toFloat(v); ok && f != 0 {
		return f
	}
	return def
}

func pick(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickInt(raw map[string]any, keys []string) (int, bool) {
	v, ok := pick(raw, keys)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func pickFloat(raw map[string]any, keys []string) (float64, bool) {
	v, ok := pick(raw, keys)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func firstPresent(raw map[string]any, keys ...string) any {
	v, _ := pick(raw, keys)
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// coerceString renders scalars and lists as a single string; lists join with
// commas.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		if t == math.Trunc(t) {
			return strconv.Itoa(int(t))
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func coerceStringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return []string{}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
