package card

import (
	"fmt"
	"strings"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/lead"
)

const (
	// StarGlyph is counted in the lead rating to pick the evaluation style.
	StarGlyph = "★"
	// WarningStars is the star count from which the evaluation is highlighted.
	WarningStars = 4
	// DefaultUserImage is shown when the lead has no photo.
	DefaultUserImage = "https://i.imgur.com/Nho5TnJb.jpg"

	labelWidth        = "80px"
	contactLabelWidth = "50px"
)

// Composer turns lead records into Adaptive Card documents. It holds only
// immutable settings and is safe for concurrent use.
type Composer struct {
	labels           labeler
	defaultSourceURL string
	defaultUserImage string
	logger           logger.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithLocale selects the label catalogue (e.g. "ja"). Unknown locales fall
// back to the generic labels.
func WithLocale(locale string) Option {
	return func(c *Composer) {
		c.labels.locale = strings.TrimSpace(locale)
	}
}

// WithTranslator replaces the built-in label catalogues.
func WithTranslator(t i18n.Translator) Option {
	return func(c *Composer) {
		if t != nil {
			c.labels.translator = t
		}
	}
}

// WithDefaultSourceURL sets the source action URL used when the record has none.
func WithDefaultSourceURL(url string) Option {
	return func(c *Composer) {
		c.defaultSourceURL = strings.TrimSpace(url)
	}
}

// WithDefaultUserImage overrides the placeholder user photo.
func WithDefaultUserImage(url string) Option {
	return func(c *Composer) {
		if strings.TrimSpace(url) != "" {
			c.defaultUserImage = strings.TrimSpace(url)
		}
	}
}

// WithLogger sets the composer logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Composer) {
		c.logger = logger.Ensure(l)
	}
}

// NewComposer builds a composer with generic labels unless configured otherwise.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		labels:           labeler{locale: DefaultLocale},
		defaultUserImage: DefaultUserImage,
		logger:           &logger.Nop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.labels.translator == nil {
		translator, err := NewTranslator()
		if err != nil {
			c.logger.Warn("card labels: built-in translator unavailable", logger.Err(err))
		} else {
			c.labels.translator = translator
		}
	}
	return c
}

// Compose renders the record. Sections appear in fixed order (header,
// company identity, user identity, user details, company details,
// evaluation, mention) and only when one of their anchor fields is set.
func (c *Composer) Compose(rec lead.Record) Document {
	sections := []func(lead.Record) (Element, bool){
		c.header,
		c.companyIdentity,
		c.userIdentity,
		c.userDetails,
		c.companyDetails,
		c.evaluation,
		c.mentionText,
	}

	body := make([]Element, 0, len(sections))
	for _, build := range sections {
		if el, ok := build(rec); ok {
			body = append(body, el)
		}
	}

	return NewDocument(Card{
		Type:    AdaptiveCardType,
		Body:    body,
		Actions: c.actions(rec),
		Schema:  AdaptiveCardSchema,
		Version: AdaptiveCardVer,
		MSTeams: HostHints{
			Width:    "Full",
			Entities: c.entities(rec),
		},
	})
}

func (c *Composer) header(lead.Record) (Element, bool) {
	return TextBlock{
		Text:     c.labels.text(KeyTitle),
		Size:     "Large",
		Weight:   "Bolder",
		IsSubtle: true,
	}, true
}

func (c *Composer) companyIdentity(rec lead.Record) (Element, bool) {
	co := rec.Company
	var columns []Column
	if co.Name != "" {
		columns = append(columns, Column{
			Width:                    "stretch",
			Items:                    []Element{TextBlock{Text: co.Name, Wrap: true, Size: "ExtraLarge"}},
			HorizontalAlignment:      "Left",
			VerticalContentAlignment: "Center",
		})
	}
	if co.LogoURL != "" {
		columns = append(columns, Column{
			Width: "stretch",
			Items: []Element{Image{
				URL:                 co.LogoURL,
				Height:              "100px",
				HorizontalAlignment: "Right",
				AltText:             co.Name + "_logo",
			}},
		})
	}
	if len(columns) == 0 {
		return nil, false
	}
	return ColumnSet{Columns: columns, Style: "emphasis"}, true
}

func (c *Composer) userIdentity(rec lead.Record) (Element, bool) {
	u := rec.User
	if u.Name == "" {
		return nil, false
	}
	photo := u.PhotoURL
	if photo == "" {
		photo = c.defaultUserImage
	}

	nameItems := []Element{TextBlock{Text: u.Name, Weight: "Bolder", Size: "Large", Wrap: true}}
	if contact, ok := c.contact(u); ok {
		nameItems = append(nameItems, contact)
	}

	return ColumnSet{
		Separator: true,
		Columns: []Column{
			{
				Width:                    labelWidth,
				VerticalContentAlignment: "Top",
				Items: []Element{Image{
					URL:                 photo,
					AltText:             u.Name,
					Spacing:             "None",
					HorizontalAlignment: "Left",
					Size:                "Medium",
					Style:               "Person",
					Width:               labelWidth,
				}},
			},
			{Width: "stretch", Items: nameItems},
		},
	}, true
}

func (c *Composer) contact(u lead.User) (Element, bool) {
	rows := section{}.
		add(u.Phone != "", func() Element { return c.labeledRowWidth(contactLabelWidth, KeyPhone, text(u.Phone)) }).
		add(u.Email != "", func() Element { return c.labeledRowWidth(contactLabelWidth, KeyEmail, text(u.Email)) })
	return rows.container(Container{})
}

func (c *Composer) userDetails(rec lead.Record) (Element, bool) {
	u := rec.User
	rows := section{}.
		add(u.Position != "", func() Element {
			return c.labeledRow(KeyPosition, lines(u.Position, u.OtherPosition)...)
		}).
		add(u.Note != "", func() Element {
			return c.labeledRow(KeyNote, lines(u.Note, u.Tags)...)
		}).
		add(u.Perspective != "", func() Element {
			return c.labeledRow(KeyPerspective, text(u.Perspective))
		})
	return rows.container(Container{})
}

func (c *Composer) companyDetails(rec lead.Record) (Element, bool) {
	co := rec.Company
	rows := section{}.
		add(co.Website != "", func() Element {
			return c.labeledRow(KeyWebsite, lines(markdownLink(co.Website), co.WebpageInfo, co.WebpageTags)...)
		}).
		add(co.Info != "", func() Element {
			return c.labeledRow(KeyCompanyInfo, c.companyInfoLines(co)...)
		}).
		add(co.CompetitorCaseTags != "", func() Element {
			return c.labeledRow(KeyCompetitorCases, text(co.CompetitorCaseTags))
		}).
		add(co.SimilarCustomers != "", func() Element {
			return c.labeledRow(KeySimilarCustomers, text(co.SimilarCustomers))
		}).
		add(co.FormMessage != "", func() Element {
			return c.labeledRow(KeyFormMessage, text(co.FormMessage))
		})
	return rows.container(Container{})
}

func (c *Composer) companyInfoLines(co lead.Company) []Element {
	var employees, technology string
	if co.EmployeeRange != "" {
		employees = c.labels.text(KeyEmployeeRange, co.EmployeeRange)
	}
	if co.TechnologyName != "" {
		technology = c.labels.text(KeyTechnology, co.TechnologyName)
	}
	return lines(co.Info, employees, joinNonEmpty(" ", co.Industry, co.Tags), technology)
}

func (c *Composer) evaluation(rec lead.Record) (Element, bool) {
	ev := rec.Evaluation
	website := rec.Company.Website
	rows := section{}.
		add(ev.LeadRating != "", func() Element {
			return c.labeledRow(KeyLeadRating, text(ev.LeadRating))
		}).
		add(ev.LastMonthPV != "", func() Element {
			return c.labeledRow(KeyLastMonthPV, text(pageViews(ev.LastMonthPV, website)))
		}).
		add(ev.EstimatedMRR != "", func() Element {
			return c.labeledRow(KeyEstimatedMRR, text(ev.EstimatedMRR))
		}).
		add(ev.PositiveFactors != "", func() Element {
			return c.labeledRow(KeyPositiveFactors, text(ev.PositiveFactors))
		}).
		add(ev.NegativeFactors != "", func() Element {
			return c.labeledRow(KeyNegativeFactors, text(ev.NegativeFactors))
		})
	return rows.container(Container{Bleed: true, Style: RatingStyle(ev.LeadRating)})
}

func (c *Composer) mentionText(rec lead.Record) (Element, bool) {
	target, ok := rec.MentionTarget()
	if !ok {
		return nil, false
	}
	return text(MentionText(target.Name)), true
}

func (c *Composer) entities(rec lead.Record) []Entity {
	target, ok := rec.MentionTarget()
	if !ok {
		return []Entity{}
	}
	return []Entity{{
		Type:      MentionEntityType,
		Text:      MentionText(target.Name),
		Mentioned: Mentioned{ID: target.Key, Name: target.Name},
	}}
}

func (c *Composer) actions(rec lead.Record) []Action {
	url := strings.TrimSpace(rec.SourceURL)
	if url == "" {
		url = c.defaultSourceURL
	}
	if url == "" {
		return []Action{}
	}
	return []Action{{
		Type:  "Action.OpenUrl",
		Title: c.labels.text(KeySourceAction),
		URL:   url,
	}}
}

func (c *Composer) labeledRow(key string, items ...Element) ColumnSet {
	return c.labeledRowWidth(labelWidth, key, items...)
}

func (c *Composer) labeledRowWidth(width, key string, items ...Element) ColumnSet {
	return ColumnSet{Columns: []Column{
		{
			Width: width,
			Items: []Element{TextBlock{Text: c.labels.text(key), Weight: "Bolder", Size: "Medium", Wrap: true}},
		},
		{Width: "stretch", Items: items},
	}}
}

// RatingStyle returns "warning" when the rating holds WarningStars or more
// star glyphs.
func RatingStyle(rating string) string {
	if strings.Count(rating, StarGlyph) >= WarningStars {
		return "warning"
	}
	return ""
}

// MentionText renders the inline mention markup for a display name.
func MentionText(name string) string {
	return "<at>" + name + "</at>"
}

func pageViews(pv, website string) string {
	if website == "" {
		return pv
	}
	return fmt.Sprintf("%s (%s)", pv, markdownLink(website))
}

func markdownLink(url string) string {
	return fmt.Sprintf("[%s](%s)", url, url)
}

func text(s string) TextBlock {
	return TextBlock{Text: s, Wrap: true}
}

// lines keeps the first value as the anchor and appends the non-empty rest.
func lines(anchor string, rest ...string) []Element {
	out := []Element{text(anchor)}
	for _, v := range rest {
		if v != "" {
			out = append(out, text(v))
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

// section accumulates independently gated rows.
type section []Element

func (s section) add(present bool, build func() Element) section {
	if !present {
		return s
	}
	return append(s, build())
}

func (s section) container(base Container) (Element, bool) {
	if len(s) == 0 {
		return nil, false
	}
	base.Items = []Element(s)
	return base, true
}
