package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/datatypes"

	"showcase-backend/errs"
)

// ExtractedProject is the raw payload the language model produces for one
// readme. It is validated against the project schema before anything touches
// storage.
type ExtractedProject struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Tagline     LocalizedText `json:"tagline"`
	Description LocalizedText `json:"description"`
	TechStack   []string      `json:"tech_stack"`
	PrimaryTech string        `json:"primary_tech"`
	ImgURL      *string       `json:"img_url"`
	DemoURL     *string       `json:"demo_url"`
	RepoURL     string        `json:"repo_url"`
	Origin      *Origin       `json:"origin"`
}

func (t LocalizedText) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.En, validation.Required),
		validation.Field(&t.Es, validation.Required),
	)
}

func (p ExtractedProject) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Tagline, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.TechStack, validation.Required, validation.Each(validation.Required)),
		validation.Field(&p.PrimaryTech, validation.Required),
		validation.Field(&p.ImgURL, is.URL),
		validation.Field(&p.DemoURL, is.URL),
		validation.Field(&p.RepoURL, is.URL),
	)
}

// ValidateProjectPayload decodes raw JSON into an ExtractedProject and runs
// the schema rules. Wrong-typed and rule-violating fields come back as a
// *errs.ValidationError naming the offending field; malformed JSON is
// returned as-is so the caller can treat it as a parse failure.
func ValidateProjectPayload(raw []byte) (*ExtractedProject, error) {
	var payload ExtractedProject
	if err := json.Unmarshal(raw, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errs.NewValidationError(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
		}
		return nil, err
	}

	if err := payload.Validate(); err != nil {
		field, reason := firstRuleViolation(err)
		return nil, errs.NewValidationError(field, reason)
	}

	return &payload, nil
}

// firstRuleViolation flattens nested ozzo errors into a single dotted field
// path plus message. Map iteration is randomized, so keys are sorted to keep
// the reported field deterministic.
func firstRuleViolation(err error) (field, reason string) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return "", err.Error()
	}

	keys := make([]string, 0, len(verrs))
	for key := range verrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	key := keys[0]
	nestedField, nestedReason := "", verrs[key].Error()
	var nested validation.Errors
	if errors.As(verrs[key], &nested) {
		nestedField, nestedReason = firstRuleViolation(nested)
	}

	if nestedField != "" {
		return key + "." + nestedField, nestedReason
	}
	return key, nestedReason
}

// ToProject converts a validated payload into the persisted form. The id is
// always recomputed from the repository name so re-ingesting the same
// repository lands on the same row no matter what the model put in the id
// field. Empty optional URLs normalize to nil so the quality gate and the
// JSON representation agree on what "missing" means.
func (p *ExtractedProject) ToProject(repoName, repoURL string) *Project {
	canonicalURL := p.RepoURL
	if canonicalURL == "" {
		canonicalURL = repoURL
	}

	project := &Project{
		ID:          Slugify(repoName),
		Title:       p.Title,
		Tagline:     datatypes.NewJSONType(p.Tagline),
		Description: datatypes.NewJSONType(p.Description),
		TechStack:   datatypes.NewJSONSlice(p.TechStack),
		PrimaryTech: p.PrimaryTech,
		ImgURL:      normalizeURL(p.ImgURL),
		DemoURL:     normalizeURL(p.DemoURL),
		RepoURL:     canonicalURL,
	}

	if p.Origin != nil {
		origin := datatypes.NewJSONType(*p.Origin)
		project.Origin = &origin
	}

	return project
}

func normalizeURL(u *string) *string {
	if u == nil || strings.TrimSpace(*u) == "" {
		return nil
	}
	return u
}
