package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/strrl/style-dna/internal/profile"
	"github.com/strrl/style-dna/internal/style"
)

const barWidth = 20

type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
	}
}

// Generate writes the report to <outputDir>/.style-dna/<user>.md and returns
// the file name.
func (g *Generator) Generate(p *profile.Profile) (string, error) {
	reportDir := filepath.Join(g.outputDir, ".style-dna")
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .style-dna directory: %w", err)
	}

	filename := filepath.Join(reportDir, sanitizeFilename(p.UserID)+".md")
	if err := os.WriteFile(filename, []byte(Render(p)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return filename, nil
}

func Render(p *profile.Profile) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Style DNA: %s\n\n", emptyFallback(p.UserID, "anonymous")))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", p.CreatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**Swipes:** %d\n", p.Swipes))
	if !p.TimeRange.Start.IsZero() {
		sb.WriteString(fmt.Sprintf("**Period:** %s to %s\n",
			p.TimeRange.Start.Format("2006-01-02"),
			p.TimeRange.End.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	sb.WriteString("## Personalization\n\n")
	if p.Readiness.Personalized {
		sb.WriteString("Your feed is personalized.\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("%d more swipes until your feed is personalized.\n\n",
			p.Readiness.Threshold-p.Readiness.Progress))
	}
	sb.WriteString(fmt.Sprintf("`%s` %d/%d\n\n", bar(p.Readiness.Fraction()), p.Readiness.Progress, p.Readiness.Threshold))

	sb.WriteString("## Top Styles\n\n")
	if len(p.TopStyles) == 0 {
		sb.WriteString("No clear preference yet. Keep swiping.\n\n")
	}
	for i, s := range p.TopStyles {
		sb.WriteString(fmt.Sprintf("%d. **%s** (%.0f%%) %s\n", i+1, displayName(s.Category), s.Score*100, style.ValidCategories[s.Category]))
	}
	if len(p.TopStyles) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("## All Categories\n\n")
	sb.WriteString("| Style | Score | Likes | Superlikes | Dislikes |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, s := range p.Styles {
		sb.WriteString(fmt.Sprintf("| %s | `%s` %.2f | %d | %d | %d |\n",
			displayName(s.Category), bar(s.Score), s.Score,
			s.Tally.Likes, s.Tally.Superlikes, s.Tally.Dislikes))
	}

	return sb.String()
}

func bar(fraction float64) string {
	filled := int(min(1, max(0, fraction))*barWidth + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

// displayName turns casual_chic into Casual Chic.
func displayName(c style.Category) string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func emptyFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeFilename(s string) string {
	result := unsafeFilenameChars.ReplaceAllString(s, "-")
	result = strings.Trim(result, "-")
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "unnamed"
	}
	return strings.ToLower(result)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
