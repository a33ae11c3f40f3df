package domain

// CollectionProjectBrief is the collection ProjectBrief documents live in.
const CollectionProjectBrief = "projectbrief"

// ProjectBrief is a project request submitted by someone who wants a website
// or an app built.
type ProjectBrief struct {
	Title          string   `json:"title"`
	Type           string   `json:"type"` // "website" or "app", not enforced
	Description    string   `json:"description"`
	TargetAudience *string  `json:"target_audience"`
	KeyFeatures    []string `json:"key_features"`
	Style          *string  `json:"style"`
	Budget         *string  `json:"budget"`
	Deadline       *string  `json:"deadline"`
	ContactEmail   *string  `json:"contact_email"`
}

// ParseProjectBrief validates a decoded JSON object. title and description
// must be non-blank; type must be present. Every failing field is reported.
func ParseProjectBrief(in map[string]any) (ProjectBrief, error) {
	r := newFieldReader(in)
	b := ProjectBrief{
		Title:          r.requiredString("title", true),
		Type:           r.requiredString("type", false),
		Description:    r.requiredString("description", true),
		TargetAudience: r.optionalString("target_audience"),
		KeyFeatures:    r.stringList("key_features"),
		Style:          r.optionalString("style"),
		Budget:         r.optionalString("budget"),
		Deadline:       r.optionalString("deadline"),
		ContactEmail:   r.optionalString("contact_email"),
	}
	if err := r.result("ProjectBrief"); err != nil {
		return ProjectBrief{}, err
	}
	return b, nil
}

func (b ProjectBrief) Collection() string { return CollectionProjectBrief }

// Document returns the stored representation. Optional fields are kept as
// explicit nulls and key_features is never null.
func (b ProjectBrief) Document() map[string]any {
	features := b.KeyFeatures
	if features == nil {
		features = []string{}
	}
	return map[string]any{
		"title":           b.Title,
		"type":            b.Type,
		"description":     b.Description,
		"target_audience": nullable(b.TargetAudience),
		"key_features":    features,
		"style":           nullable(b.Style),
		"budget":          nullable(b.Budget),
		"deadline":        nullable(b.Deadline),
		"contact_email":   nullable(b.ContactEmail),
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
