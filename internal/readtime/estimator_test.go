package readtime

import (
	"strings"
	"testing"
)

type stubSource struct {
	pages  []string
	images []int
}

func (s *stubSource) PageCount() int { return len(s.pages) }

func (s *stubSource) Page(i int) (string, int) {
	img := 0
	if i < len(s.images) {
		img = s.images[i]
	}
	return s.pages[i], img
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestClassifyPage(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		images int
		want   pageClass
	}{
		{"dense text", 250, 0, classText},
		{"text boundary", 200, 3, classText},
		{"mixed", 120, 1, classMixed},
		{"mixed boundary", 80, 0, classMixed},
		{"slide with words", 30, 1, classSlide},
		{"image only", 0, 2, classSlide},
		{"sparse no image", 50, 0, classEmpty},
		{"empty", 0, 0, classEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyPage(tt.words, tt.images); got != tt.want {
				t.Errorf("classifyPage(%d, %d) = %v, want %v", tt.words, tt.images, got, tt.want)
			}
		})
	}
}

func TestEstimateDeterministic(t *testing.T) {
	src := &stubSource{
		pages:  []string{words(300), words(100), words(25)},
		images: []int{0, 2, 1},
	}
	opts := Options{Mode: ModeAccurate, Lang: "en"}

	first := Estimate(src, opts)
	second := Estimate(src, opts)
	if first != second {
		t.Errorf("metrics differ across identical runs:\n%+v\n%+v", first, second)
	}
}

func TestEstimateAccurate(t *testing.T) {
	src := &stubSource{
		pages:  []string{words(300), words(100), words(25)},
		images: []int{0, 2, 1},
	}
	m := Estimate(src, Options{Mode: ModeAccurate, Lang: "en"})

	if m.Mode != ModeAccurate {
		t.Fatalf("mode = %q, want accurate", m.Mode)
	}
	if m.Pages.Text != 1 || m.Pages.Mixed != 1 || m.Pages.Slide != 1 {
		t.Errorf("page classes = %+v, want 1 text / 1 mixed / 1 slide", m.Pages)
	}
	if m.WordCount != 400 {
		t.Errorf("word count = %d, want 400 (slide words excluded)", m.WordCount)
	}
	// 2 images on the mixed page at the low bound of 3s each.
	if m.ImageSeconds != 6 {
		t.Errorf("image seconds = %d, want 6", m.ImageSeconds)
	}
	// Slide time is clamp(6 + 25/10, 8, 25) = 8.
	if m.SlideSeconds != 8 {
		t.Errorf("slide seconds = %d, want 8", m.SlideSeconds)
	}
	if m.TotalMinutes <= 0 {
		t.Errorf("total minutes = %v, want positive", m.TotalMinutes)
	}
}

func TestEstimateSlideClamp(t *testing.T) {
	src := &stubSource{pages: []string{words(50)}, images: []int{1}}
	m := Estimate(src, Options{Mode: ModeAccurate})
	if m.Pages.Slide != 1 {
		t.Fatalf("page classes = %+v, want one slide", m.Pages)
	}
	if m.SlideSeconds < 8 || m.SlideSeconds > 25 {
		t.Errorf("slide seconds = %d, want within [8, 25]", m.SlideSeconds)
	}
}

func TestEstimateForcedFastAboveCeiling(t *testing.T) {
	pages := make([]string, 5)
	for i := range pages {
		pages[i] = words(100)
	}
	src := &stubSource{pages: pages}

	m := Estimate(src, Options{Mode: ModeAccurate, MaxPages: 3})
	if m.Mode != ModeFast {
		t.Fatalf("mode = %q, want fast above the page ceiling", m.Mode)
	}
	// First page has 100 words >= 30, so projection is 100 words/page.
	if m.WordCount != 500 {
		t.Errorf("word count = %d, want 500", m.WordCount)
	}
	if m.NontextMinutes != 0 {
		t.Errorf("nontext minutes = %v, want 0 in fast mode", m.NontextMinutes)
	}
}

func TestEstimateFastSparseFirstPage(t *testing.T) {
	src := &stubSource{pages: []string{words(5), words(5), words(5)}}
	m := Estimate(src, Options{Mode: ModeFast})
	if m.WordCount != 900 {
		t.Errorf("word count = %d, want 300 per page", m.WordCount)
	}
}

func TestTableAndCodeCharges(t *testing.T) {
	text := words(250) + "\nTable 1 shows the results.\n" +
		"for (i := 0; i < n; i++) {\n" +
		"}\n"
	src := &stubSource{pages: []string{text}}
	m := Estimate(src, Options{Mode: ModeAccurate})

	if m.TableSeconds != 12 {
		t.Errorf("table seconds = %d, want 12", m.TableSeconds)
	}
	if m.CodeSeconds == 0 {
		t.Errorf("code seconds = 0, want positive for code-like lines")
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"hello world", 2},
		{"привет мир 42", 3},
		{"", 0},
		{"---", 0},
	}
	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"medium", LevelMedium},
		{"средняя", LevelMedium},
		{"Очень высокая", LevelVeryHigh},
		{"very high", LevelVeryHigh},
		{"nonsense", LevelMedium},
		{"", LevelMedium},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEffectiveWPM(t *testing.T) {
	if got := EffectiveWPM("en", LevelLow); got != 200 {
		t.Errorf("en/low = %d, want 200", got)
	}
	if got := EffectiveWPM("ru", LevelMedium); got != 153 {
		t.Errorf("ru/medium = %d, want 153", got)
	}
	if got := EffectiveWPM("ru", LevelVeryHigh); got < 60 {
		t.Errorf("effective wpm = %d, below the 60 floor", got)
	}
}
