package fieldroles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for role suggestions.
const DefaultModelName = "gemini-2.0-flash"

// GeminiSuggester asks Gemini to map field names to roles when the name
// heuristics leave mandatory roles unresolved (e.g. localized or renamed
// columns). It is an optional collaborator; Discover alone is enough for
// sheets following the documented naming.
type GeminiSuggester struct {
	model string
}

// NewGeminiSuggester creates a suggester using the default model.
func NewGeminiSuggester() *GeminiSuggester {
	return &GeminiSuggester{model: DefaultModelName}
}

// SuggestRoles returns a RoleMap proposed by the model. Only known roles
// referencing fields that actually exist are kept.
func (s *GeminiSuggester) SuggestRoles(ctx context.Context, fields []datasheet.Field) (RoleMap, error) {
	prompt := buildRolePrompt(fields)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("SuggestRoles: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("SuggestRoles: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("SuggestRoles: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var suggested map[string]string
	if err := json.Unmarshal([]byte(clean), &suggested); err != nil {
		return nil, fmt.Errorf("SuggestRoles: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[strings.ToLower(f.Name)] = f.ID
	}

	known := make(map[Role]bool, len(AllRoles))
	for _, r := range AllRoles {
		known[r] = true
	}

	roles := RoleMap{}
	for roleName, fieldName := range suggested {
		role := Role(strings.ToLower(strings.TrimSpace(roleName)))
		if !known[role] {
			continue
		}
		if id, ok := byName[strings.ToLower(strings.TrimSpace(fieldName))]; ok {
			roles[role] = id
		}
	}
	return roles, nil
}

func buildRolePrompt(fields []datasheet.Field) string {
	var b strings.Builder
	b.WriteString("You map datasheet columns to semantic roles for a personal finance widget.\n\n")
	b.WriteString("Roles: title, type, amount, category, merchant, date, product, reconciled.\n\n")
	b.WriteString("Columns:\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "- %q (type %s)\n", f.Name, f.Type)
	}
	b.WriteString("\nReturn STRICT JSON only: an object mapping role name to column name.\n")
	b.WriteString("Omit roles with no plausible column. Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"{\" and end with \"}\".\n")
	return b.String()
}

// cleanModelJSON strips Markdown fences and surrounding junk from a model
// response that should be a single JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
