package card

import (
	"fmt"
	"strings"

	i18n "github.com/goliatone/go-i18n"
)

// Label keys used by the composer.
const (
	KeyTitle            = "leadcard.title"
	KeySourceAction     = "leadcard.action.source"
	KeyPhone            = "leadcard.label.phone"
	KeyEmail            = "leadcard.label.email"
	KeyPosition         = "leadcard.label.position"
	KeyNote             = "leadcard.label.note"
	KeyPerspective      = "leadcard.label.perspective"
	KeyWebsite          = "leadcard.label.website"
	KeyCompanyInfo      = "leadcard.label.company_info"
	KeyCompetitorCases  = "leadcard.label.competitor_cases"
	KeySimilarCustomers = "leadcard.label.similar_customers"
	KeyFormMessage      = "leadcard.label.form_message"
	KeyLeadRating       = "leadcard.label.lead_rating"
	KeyLastMonthPV      = "leadcard.label.last_month_pv"
	KeyEstimatedMRR     = "leadcard.label.estimated_mrr"
	KeyPositiveFactors  = "leadcard.label.positive_factors"
	KeyNegativeFactors  = "leadcard.label.negative_factors"
	KeyEmployeeRange    = "leadcard.line.employee_range"
	KeyTechnology       = "leadcard.line.technology"
)

// DefaultLocale selects the generic labels.
const DefaultLocale = "en"

var englishLabels = map[string]string{
	KeyTitle:            "New Lead - User Sign up (via Research Agent)",
	KeySourceAction:     "Source Info (if available)",
	KeyPhone:            "Phone",
	KeyEmail:            "Email",
	KeyPosition:         "Position",
	KeyNote:             "Notes",
	KeyPerspective:      "Perspective",
	KeyWebsite:          "Website",
	KeyCompanyInfo:      "Company",
	KeyCompetitorCases:  "Competitor Cases",
	KeySimilarCustomers: "Similar Customers",
	KeyFormMessage:      "Inquiry",
	KeyLeadRating:       "Lead Rating",
	KeyLastMonthPV:      "Last Month PV",
	KeyEstimatedMRR:     "Estimated MRR",
	KeyPositiveFactors:  "Positives",
	KeyNegativeFactors:  "Negatives",
	KeyEmployeeRange:    "Employees: %s",
	KeyTechnology:       "Website technologies: %s",
}

var japaneseLabels = map[string]string{
	KeyTitle:            "New Lead - User Sign up (via Research Agent)",
	KeySourceAction:     "Source Info (if available)",
	KeyPhone:            "電話",
	KeyEmail:            "メール",
	KeyPosition:         "職位情報",
	KeyNote:             "備考情報",
	KeyPerspective:      "個人観点",
	KeyWebsite:          "サイト",
	KeyCompanyInfo:      "会社情報",
	KeyCompetitorCases:  "競合事例",
	KeySimilarCustomers: "類似顧客",
	KeyFormMessage:      "問合せ",
	KeyLeadRating:       "リード評価",
	KeyLastMonthPV:      "先月PV",
	KeyEstimatedMRR:     "推定MRR",
	KeyPositiveFactors:  "加点要素",
	KeyNegativeFactors:  "減点要素",
	KeyEmployeeRange:    "社員規模：%s",
	KeyTechnology:       "会社サイト採用技術: %s",
}

// Translations returns the built-in label catalogues (en, ja).
func Translations() i18n.Translations {
	return i18n.Translations{
		"en": newCatalog("en", englishLabels),
		"ja": newCatalog("ja", japaneseLabels),
	}
}

// NewTranslator builds a translator over the built-in catalogues.
func NewTranslator() (i18n.Translator, error) {
	store := i18n.NewStaticStore(Translations())
	return i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale(DefaultLocale))
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}

// labeler resolves labels for one locale: requested locale first, then the
// generic catalogue, then the compiled-in English text.
type labeler struct {
	translator i18n.Translator
	locale     string
}

func (l labeler) text(key string, args ...any) string {
	if l.translator != nil {
		for _, locale := range []string{l.locale, DefaultLocale} {
			if strings.TrimSpace(locale) == "" {
				continue
			}
			if out, err := l.translator.Translate(locale, key, args...); err == nil && out != "" {
				return out
			}
		}
	}
	tpl, ok := englishLabels[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tpl
	}
	return fmt.Sprintf(tpl, args...)
}
