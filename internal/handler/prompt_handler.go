package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/service"
)

// PromptSearchHandler accepts free-form prompts and runs them as a listing search.
type PromptSearchHandler struct {
	prompt   *service.PromptService
	listings *service.ListingsService
}

// NewPromptSearchHandler wires the handler.
func NewPromptSearchHandler(prompt *service.PromptService, listings *service.ListingsService) *PromptSearchHandler {
	return &PromptSearchHandler{prompt: prompt, listings: listings}
}

// Search handles POST /search/prompt.
func (h *PromptSearchHandler) Search(c echo.Context) error {
	var req dto.PromptSearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return Error(c, http.StatusBadRequest, "prompt is required")
	}

	parsed, err := h.prompt.Parse(req)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	result, err := h.listings.Search(c.Request().Context(), dto.ListingQuery{Term: parsed.Term, Location: parsed.Location})
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load businesses")
	}

	return Success(c, http.StatusOK, "prompt search completed", dto.PromptSearchResponse{
		Prompt:       req.Prompt,
		SearchResult: result,
	})
}
