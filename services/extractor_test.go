package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"showcase-backend/errs"
)

const validModelJSON = `{
	"id": "weather-dashboard",
	"title": "Weather Dashboard",
	"tagline": {"en": "Live weather at a glance", "es": "El clima en vivo de un vistazo"},
	"description": {"en": "A dashboard that pulls current conditions.", "es": "Un panel que muestra las condiciones actuales."},
	"tech_stack": ["Vue", "TypeScript"],
	"primary_tech": "Vue",
	"img_url": "https://raw.githubusercontent.com/octocat/weather-dashboard/main/docs/shot.png",
	"demo_url": "https://weather.example.com",
	"repo_url": "https://github.com/octocat/weather-dashboard",
	"origin": null
}`

type fakeModel struct {
	content   string
	err       error
	emptyResp bool

	calls        int
	lastOptions  llms.CallOptions
	lastMessages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.lastMessages = messages

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	f.lastOptions = opts

	if f.err != nil {
		return nil, f.err
	}
	if f.emptyResp {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.content}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.content, f.err
}

func (f *fakeModel) humanPrompt(t *testing.T) string {
	t.Helper()
	require.Len(t, f.lastMessages, 2)
	part, ok := f.lastMessages[1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestExtractValidResponse(t *testing.T) {
	model := &fakeModel{content: validModelJSON}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	project, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

	require.NoError(t, err)
	assert.Equal(t, "weather-dashboard", project.ID)
	assert.Equal(t, "Weather Dashboard", project.Title)
	assert.Equal(t, "Vue", project.PrimaryTech)
	require.NotNil(t, project.ImgURL)
	require.NotNil(t, project.DemoURL)
	assert.Equal(t, "El clima en vivo de un vistazo", project.Tagline.Data().Es)
}

func TestExtractUsesLowTemperatureAndJSONMode(t *testing.T) {
	model := &fakeModel{content: validModelJSON}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	_, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

	require.NoError(t, err)
	assert.InDelta(t, 0.1, model.lastOptions.Temperature, 0.001)
	assert.True(t, model.lastOptions.JSONMode)
}

func TestExtractStripsCodeFences(t *testing.T) {
	model := &fakeModel{content: "```json\n" + validModelJSON + "\n```"}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	project, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

	require.NoError(t, err)
	assert.Equal(t, "weather-dashboard", project.ID)
}

func TestExtractEmptyResponse(t *testing.T) {
	for name, model := range map[string]*fakeModel{
		"no choices":    {emptyResp: true},
		"blank content": {content: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			extractor := newExtractorWithModel(model, "deepseek-chat")

			_, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

			assert.True(t, errs.IsEmptyModelResponse(err))
		})
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	model := &fakeModel{content: "Sure! Here is the project description you asked for."}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	_, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

	assert.True(t, errs.IsExtractionFailed(err))
	assert.False(t, errs.IsSchemaValidation(err))
}

func TestExtractSchemaViolation(t *testing.T) {
	model := &fakeModel{content: strings.Replace(validModelJSON, `"es": "El clima en vivo de un vistazo"`, `"es": ""`, 1)}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	_, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

	assert.True(t, errs.IsExtractionFailed(err))
	assert.True(t, errs.IsSchemaValidation(err))
	assert.Contains(t, err.Error(), "tagline.es")
}

func TestExtractPropagatesModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("429 too many requests")}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	_, err := extractor.Extract(context.Background(), sampleReadme, "https://github.com/octocat/weather-dashboard")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call failed")
}

func TestExtractTruncatesLongReadme(t *testing.T) {
	longReadme := strings.Repeat("a", readmeCharBudget+500) + "SENTINEL"
	model := &fakeModel{content: validModelJSON}
	extractor := newExtractorWithModel(model, "deepseek-chat")

	_, err := extractor.Extract(context.Background(), longReadme, "https://github.com/octocat/weather-dashboard")

	require.NoError(t, err)
	prompt := model.humanPrompt(t)
	assert.NotContains(t, prompt, "SENTINEL")
	assert.Contains(t, prompt, strings.Repeat("a", 100))
}

func TestTruncateRunesKeepsMultibyteBoundary(t *testing.T) {
	s := strings.Repeat("é", 20)

	got := truncateRunes(s, 10)

	assert.Equal(t, strings.Repeat("é", 10), got)
}

func TestRepoNameFromURL(t *testing.T) {
	assert.Equal(t, "weather-dashboard", repoNameFromURL("https://github.com/octocat/weather-dashboard"))
	assert.Equal(t, "weather-dashboard", repoNameFromURL("https://github.com/octocat/weather-dashboard/"))
	assert.Equal(t, "bare", repoNameFromURL("bare"))
}
