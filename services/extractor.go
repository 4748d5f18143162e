package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"showcase-backend/errs"
	"showcase-backend/models"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	defaultDeepSeekModel   = "deepseek-chat"

	// readmeCharBudget caps how much readme text goes into the prompt.
	// Everything past it is dropped; readmes that large are badges and
	// changelogs anyway.
	readmeCharBudget = 15000

	// extractTemperature keeps the output deterministic enough that the same
	// readme converges on the same project JSON.
	extractTemperature = 0.1
)

const extractionSystemPrompt = `You are an assistant that reads GitHub README files and produces structured portfolio metadata.
Respond with a single JSON object and nothing else: no prose, no markdown, no code fences.

The JSON object must have exactly these fields:
  "id": URL-safe slug derived from the repository name (lowercase, hyphen-separated)
  "title": short display name for the project
  "tagline": {"en": "...", "es": "..."} one-sentence hook, both languages required
  "description": {"en": "...", "es": "..."} one-paragraph summary, both languages required
  "tech_stack": array of technology names in the order the README presents them
  "primary_tech": the single technology that defines the project; prefer frameworks over languages (e.g. "Vue" over "JavaScript", "Django" over "Python")
  "img_url": absolute URL of the project screenshot, or null if the README shows no image
  "demo_url": absolute URL of the live demo, or null if none is linked
  "repo_url": the canonical repository URL you were given
  "origin": {"is_course": true/false, "name": "...", "author": "...", "course_url": "...", "author_url": "..."} or null

Rules:
- Translate the tagline and description yourself when the README covers only one language.
- When an image is referenced by a relative path, rewrite it to an absolute raw content URL of the form https://raw.githubusercontent.com/<owner>/<repo>/<branch>/<path>, taking owner and repo from the repository URL and defaulting the branch to "main".
- Set origin.is_course to true only when the README indicates the project comes from a course, bootcamp or tutorial, or is "based on" someone else's material. Fill in only the origin fields the README supports.
- Never invent URLs. Use null when the README gives no evidence for a field.`

// Extractor turns readme text into a project candidate through one LLM call.
type Extractor struct {
	model     llms.Model
	modelName string
	logger    zerolog.Logger
}

// NewExtractor wires the extractor to the DeepSeek chat-completions API,
// which is OpenAI-compatible. The API key is required; base URL and model
// name fall back to defaults.
func NewExtractor(apiKey, baseURL, modelName string) (*Extractor, error) {
	if apiKey == "" {
		return nil, errs.NewMissingEnvVarError("DEEPSEEK_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	if modelName == "" {
		modelName = defaultDeepSeekModel
	}

	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	return newExtractorWithModel(model, modelName), nil
}

func newExtractorWithModel(model llms.Model, modelName string) *Extractor {
	return &Extractor{
		model:     model,
		modelName: modelName,
		logger:    log.With().Str("serviceName", "extractor").Logger(),
	}
}

// Extract prompts the model with the readme and validates the reply into a
// Project. Parse and schema failures come back wrapped as extraction errors;
// an empty reply is its own error so callers can tell silence from garbage.
func (e *Extractor) Extract(ctx context.Context, readme, repoURL string) (*models.Project, error) {
	truncated := truncateRunes(readme, readmeCharBudget)
	repoName := repoNameFromURL(repoURL)

	resp, err := e.model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, extractionSystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, buildExtractionPrompt(truncated, repoName, repoURL)),
		},
		llms.WithTemperature(extractTemperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return nil, errs.NewEmptyModelResponseError(e.modelName)
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return nil, errs.NewEmptyModelResponseError(e.modelName)
	}

	payload, err := models.ValidateProjectPayload([]byte(stripCodeFences(content)))
	if err != nil {
		e.logger.Warn().Err(err).Str("repo", repoURL).Msg("Model reply rejected")
		return nil, errs.NewExtractionError(err)
	}

	return payload.ToProject(repoName, repoURL), nil
}

func buildExtractionPrompt(readme, repoName, repoURL string) string {
	return fmt.Sprintf("Repository: %s\nRepository URL: %s\n\nREADME:\n%s", repoName, repoURL, readme)
}

// truncateRunes caps s at max runes. Truncation is by rune, not byte, so a
// multi-byte character at the boundary is never split.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// stripCodeFences unwraps a fenced block when the model adds one despite the
// JSON-only instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repoNameFromURL pulls the repository name off a canonical repo URL.
func repoNameFromURL(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
