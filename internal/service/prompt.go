package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/rainbowlistings/directory/internal/dto"
)

var (
	stopwordExpr    = regexp.MustCompile(`(?i)\b(find|show|me|i|im|i'm|need|want|looking|for|search|some|any|please|the|a|an|good|best|nearby|places?|spots?)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|near|around)\s+([\p{L}\s,.'-]+?)[\s?!.]*$`)
	queerWordsExpr  = regexp.MustCompile(`(?i)(?:\blgbtq\+|\b(?:lgbtq|lgbt|queer|gay|lesbian|trans|friendly|owned)\b)`)
)

// PromptService interprets free-form search prompts such as "bakery in Austin".
type PromptService struct{}

// PromptResult holds the search parameters derived from a prompt.
type PromptResult struct {
	Term     string
	Location string
}

// NewPromptService creates a prompt parser.
func NewPromptService() *PromptService {
	return &PromptService{}
}

// Parse splits a prompt into a search term and a location.
func (s *PromptService) Parse(req dto.PromptSearchRequest) (PromptResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return PromptResult{}, errors.New("prompt is required")
	}

	location, rest := extractLocation(prompt)
	term := queerWordsExpr.ReplaceAllString(rest, "")
	term = stopwordExpr.ReplaceAllString(term, "")
	term = collapseSpaces(strings.Trim(term, " ,.?!-"))

	return PromptResult{Term: term, Location: location}, nil
}

func extractLocation(prompt string) (string, string) {
	match := locationPattern.FindStringSubmatchIndex(prompt)
	if match == nil {
		return "", prompt
	}
	location := collapseSpaces(strings.Trim(prompt[match[2]:match[3]], " ,.?!"))
	return location, strings.TrimSpace(prompt[:match[0]])
}
