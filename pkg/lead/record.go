package lead

import (
	"strings"
	"unicode"
)

// User groups the contact person's identity and professional context.
type User struct {
	Name          string
	Phone         string
	Email         string
	Position      string
	OtherPosition string
	Note          string
	Tags          string
	Perspective   string
	PhotoURL      string
}

// Company groups the lead company's identity and profile.
type Company struct {
	Name               string
	LogoURL            string
	Website            string
	WebpageInfo        string
	WebpageTags        string
	Info               string
	EmployeeRange      string
	Industry           string
	Tags               string
	TechnologyName     string
	CompetitorCaseTags string
	SimilarCustomers   string
	FormMessage        string
}

// Evaluation groups lead scoring output.
type Evaluation struct {
	LeadRating      string
	LastMonthPV     string
	EstimatedMRR    string
	PositiveFactors string
	NegativeFactors string
}

// MentionTarget identifies a chat user to "@" in the card. Key is the
// identity the chat client resolves (an email address for Teams).
type MentionTarget struct {
	Name string
	Key  string
}

// Record is a decoded lead. Every field is either empty (absent) or a
// non-empty string.
type Record struct {
	User       User
	Company    Company
	Evaluation Evaluation
	Mention    MentionTarget
	SourceURL  string
}

// Get returns the value stored under the given wire name.
func (r Record) Get(field Field) string {
	for _, b := range bindings {
		if b.field == field {
			return *b.ref(&r)
		}
	}
	return ""
}

// ToMap renders the record back to wire names, omitting empty fields.
func (r Record) ToMap() map[string]string {
	out := make(map[string]string)
	for _, b := range bindings {
		if v := *b.ref(&r); v != "" {
			out[string(b.field)] = v
		}
	}
	return out
}

// IsEmpty reports whether no field carries a value.
func (r Record) IsEmpty() bool {
	return len(r.ToMap()) == 0
}

// MentionTarget resolves the mention binding. It is present only when an
// identity key was supplied; the display name falls back to one derived from
// the key.
func (r Record) MentionTarget() (MentionTarget, bool) {
	key := strings.TrimSpace(r.Mention.Key)
	if key == "" {
		return MentionTarget{}, false
	}
	name := strings.TrimSpace(r.Mention.Name)
	if name == "" {
		name = DeriveDisplayName(key)
	}
	return MentionTarget{Name: name, Key: key}, true
}

// DeriveDisplayName turns an identity key such as "jane.doe_smith@example.com"
// into "Jane Doe Smith": the local part before the first '@', with '.' and '_'
// replaced by spaces, title-cased word by word.
func DeriveDisplayName(key string) string {
	local, _, _ := strings.Cut(key, "@")
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	return titleCase(local)
}

// titleCase upper-cases a letter that follows a non-letter and lower-cases
// every other letter.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
