package card

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-leadcards/pkg/lead"
)

func collectTexts(el Element) []string {
	var out []string
	switch v := el.(type) {
	case TextBlock:
		out = append(out, v.Text)
	case Image:
		out = append(out, "image:"+v.URL)
	case ColumnSet:
		for _, col := range v.Columns {
			for _, item := range col.Items {
				out = append(out, collectTexts(item)...)
			}
		}
	case Container:
		for _, item := range v.Items {
			out = append(out, collectTexts(item)...)
		}
	}
	return out
}

func documentTexts(doc Document) []string {
	var out []string
	for _, el := range doc.Body() {
		out = append(out, collectTexts(el)...)
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func decode(t *testing.T, input map[string]any) lead.Record {
	t.Helper()
	rec, err := lead.Decode(input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec
}

func TestComposeEmptyRecordOnlyHeader(t *testing.T) {
	doc := NewComposer().Compose(lead.Record{})
	body := doc.Body()
	if len(body) != 1 {
		t.Fatalf("expected only header, got %d sections", len(body))
	}
	header, ok := body[0].(TextBlock)
	if !ok || header.Text != englishLabels[KeyTitle] || header.Size != "Large" {
		t.Fatalf("unexpected header %#v", body[0])
	}
	if len(doc.Entities()) != 0 || len(doc.Actions()) != 0 {
		t.Fatalf("expected no entities or actions")
	}
}

func TestComposeAnchorsGateRows(t *testing.T) {
	anchors := []struct {
		field lead.Field
		label string
	}{
		{lead.FieldUserPosition, "Position"},
		{lead.FieldUserNote, "Notes"},
		{lead.FieldUserPerspective, "Perspective"},
		{lead.FieldWebsite, "Website"},
		{lead.FieldCompanyInfo, "Company"},
		{lead.FieldCompetitorCaseTags, "Competitor Cases"},
		{lead.FieldSimilarCustomers, "Similar Customers"},
		{lead.FieldFormMessage, "Inquiry"},
		{lead.FieldLeadRating, "Lead Rating"},
		{lead.FieldLastMonthPV, "Last Month PV"},
		{lead.FieldEstimatedMRR, "Estimated MRR"},
		{lead.FieldPositiveFactors, "Positives"},
		{lead.FieldNegativeFactors, "Negatives"},
	}
	composer := NewComposer()
	for _, anchor := range anchors {
		t.Run(string(anchor.field), func(t *testing.T) {
			doc := composer.Compose(decode(t, map[string]any{string(anchor.field): "value"}))
			if len(doc.Body()) != 2 {
				t.Fatalf("expected header plus one section, got %d", len(doc.Body()))
			}
			if !contains(documentTexts(doc), anchor.label) {
				t.Fatalf("expected label %q in %v", anchor.label, documentTexts(doc))
			}

			for _, other := range anchors {
				if other.field == anchor.field {
					continue
				}
				if contains(documentTexts(doc), other.label) {
					t.Fatalf("label %q rendered without its anchor", other.label)
				}
			}
		})
	}
}

func TestComposeDependentLinesNeedAnchor(t *testing.T) {
	doc := NewComposer().Compose(decode(t, map[string]any{
		"UserTitle_OtherCompany": "Former CTO",
		"UserTags":               "decision-maker",
		"WebPageInfo_Short":      "Analytics vendor",
		"WebPageTags":            "saas",
		"employee_range":         "50-100",
		"CompanyIndustry":        "Software",
		"CompanyTags":            "B2B",
		"technology_name":        "GA4",
		"account_phone":          "+81 3 0000",
		"userEmail":              "jane@example.com",
		"Image_URL_userPhoto":    "https://cdn.example.com/jane.png",
	}))
	if len(doc.Body()) != 1 {
		t.Fatalf("dependent fields must not open sections, got %v", documentTexts(doc))
	}
}

func TestComposeCompanyIdentityColumns(t *testing.T) {
	composer := NewComposer()

	nameOnly := composer.Compose(decode(t, map[string]any{"LeadCompanyName": "Acme"}))
	set, ok := nameOnly.Body()[1].(ColumnSet)
	if !ok || len(set.Columns) != 1 || set.Style != "emphasis" {
		t.Fatalf("expected single name column, got %#v", nameOnly.Body()[1])
	}
	if _, isText := set.Columns[0].Items[0].(TextBlock); !isText {
		t.Fatalf("expected name text column")
	}

	logoOnly := composer.Compose(decode(t, map[string]any{"Image_URL_companyLogo": "https://cdn.example.com/logo.png"}))
	set = logoOnly.Body()[1].(ColumnSet)
	if len(set.Columns) != 1 {
		t.Fatalf("expected single logo column, got %d", len(set.Columns))
	}
	img, isImage := set.Columns[0].Items[0].(Image)
	if !isImage || img.URL != "https://cdn.example.com/logo.png" || img.AltText != "_logo" {
		t.Fatalf("unexpected logo column %#v", set.Columns[0].Items[0])
	}

	both := composer.Compose(decode(t, map[string]any{
		"LeadCompanyName":       "Acme",
		"Image_URL_companyLogo": "https://cdn.example.com/logo.png",
	}))
	set = both.Body()[1].(ColumnSet)
	if len(set.Columns) != 2 {
		t.Fatalf("expected two columns, got %d", len(set.Columns))
	}
	if set.Columns[1].Items[0].(Image).AltText != "Acme_logo" {
		t.Fatalf("unexpected alt text")
	}
}

func TestComposeUserIdentityAndContact(t *testing.T) {
	composer := NewComposer()

	doc := composer.Compose(decode(t, map[string]any{"userName": "Jane Doe"}))
	set := doc.Body()[1].(ColumnSet)
	if !set.Separator || len(set.Columns) != 2 {
		t.Fatalf("unexpected user row %#v", set)
	}
	photo := set.Columns[0].Items[0].(Image)
	if photo.URL != DefaultUserImage || photo.Style != "Person" {
		t.Fatalf("expected default photo, got %#v", photo)
	}
	if len(set.Columns[1].Items) != 1 {
		t.Fatalf("no contact block expected without phone/email")
	}

	doc = composer.Compose(decode(t, map[string]any{
		"userName":            "Jane Doe",
		"userEmail":           "jane@example.com",
		"Image_URL_userPhoto": "https://cdn.example.com/jane.png",
	}))
	set = doc.Body()[1].(ColumnSet)
	if set.Columns[0].Items[0].(Image).URL != "https://cdn.example.com/jane.png" {
		t.Fatalf("expected supplied photo")
	}
	contact, ok := set.Columns[1].Items[1].(Container)
	if !ok || len(contact.Items) != 1 {
		t.Fatalf("expected one contact row, got %#v", set.Columns[1].Items)
	}
	texts := collectTexts(contact)
	if !contains(texts, "Email") || contains(texts, "Phone") || !contains(texts, "jane@example.com") {
		t.Fatalf("unexpected contact texts %v", texts)
	}
}

func TestComposeJapaneseLabels(t *testing.T) {
	doc := NewComposer(WithLocale("ja")).Compose(decode(t, map[string]any{
		"userName":          "山田太郎",
		"account_phone":     "03-0000-0000",
		"CompanyInfo_Short": "分析ツール",
		"employee_range":    "50-100",
		"technology_name":   "GA4",
	}))
	texts := documentTexts(doc)
	for _, want := range []string{"電話", "会社情報", "社員規模：50-100", "会社サイト採用技術: GA4"} {
		if !contains(texts, want) {
			t.Fatalf("expected %q in %v", want, texts)
		}
	}
}

func TestComposeUnknownLocaleFallsBack(t *testing.T) {
	doc := NewComposer(WithLocale("xx")).Compose(decode(t, map[string]any{"account_phone": "1", "userName": "A"}))
	if !contains(documentTexts(doc), "Phone") {
		t.Fatalf("expected generic label, got %v", documentTexts(doc))
	}
}

func TestComposeCompanyInfoLines(t *testing.T) {
	doc := NewComposer().Compose(decode(t, map[string]any{
		"CompanyInfo_Short": "Analytics vendor",
		"employee_range":    "50-100",
		"CompanyTags":       "B2B",
		"technology_name":   "GA4",
	}))
	texts := documentTexts(doc)
	for _, want := range []string{"Analytics vendor", "Employees: 50-100", "B2B", "Website technologies: GA4"} {
		if !contains(texts, want) {
			t.Fatalf("expected %q in %v", want, texts)
		}
	}

	doc = NewComposer().Compose(decode(t, map[string]any{
		"CompanyInfo_Short": "Analytics vendor",
		"CompanyIndustry":   "Software",
		"CompanyTags":       "B2B",
	}))
	if !contains(documentTexts(doc), "Software B2B") {
		t.Fatalf("expected industry and tags joined, got %v", documentTexts(doc))
	}
}

func TestComposeWebsiteLines(t *testing.T) {
	doc := NewComposer().Compose(decode(t, map[string]any{
		"refinedURL":  "https://acme.example.com",
		"WebPageTags": "saas",
	}))
	texts := documentTexts(doc)
	if !contains(texts, "[https://acme.example.com](https://acme.example.com)") || !contains(texts, "saas") {
		t.Fatalf("unexpected website texts %v", texts)
	}
}

func TestRatingStyle(t *testing.T) {
	tests := map[string]string{
		"★★★★★":         "warning",
		"★★★★☆":         "warning",
		"★★★☆☆":         "",
		"High priority": "",
		"":              "",
	}
	for rating, want := range tests {
		if got := RatingStyle(rating); got != want {
			t.Fatalf("RatingStyle(%q) = %q, want %q", rating, got, want)
		}
	}

	doc := NewComposer().Compose(decode(t, map[string]any{"LeadScoreLevel": "★★★★☆"}))
	eval := doc.Body()[1].(Container)
	if eval.Style != "warning" || !eval.Bleed {
		t.Fatalf("expected warning evaluation, got %#v", eval)
	}
	doc = NewComposer().Compose(decode(t, map[string]any{"LeadScoreLevel": "★★★☆☆"}))
	if doc.Body()[1].(Container).Style != "" {
		t.Fatalf("three stars must not escalate")
	}
}

func TestComposePageViews(t *testing.T) {
	plain := NewComposer().Compose(decode(t, map[string]any{"LastMonthPV": 12000}))
	if !contains(documentTexts(plain), "12000") {
		t.Fatalf("expected plain page views, got %v", documentTexts(plain))
	}

	linked := NewComposer().Compose(decode(t, map[string]any{
		"LastMonthPV": "12000",
		"refinedURL":  "https://acme.example.com",
	}))
	want := "12000 ([https://acme.example.com](https://acme.example.com))"
	if !contains(documentTexts(linked), want) {
		t.Fatalf("expected %q in %v", want, documentTexts(linked))
	}
}

func TestComposeMentionBinding(t *testing.T) {
	doc := NewComposer().Compose(decode(t, map[string]any{"mention_email": "jane.doe_smith@example.com"}))
	body := doc.Body()
	last, ok := body[len(body)-1].(TextBlock)
	if !ok {
		t.Fatalf("expected mention text block last")
	}
	entities := doc.Entities()
	if len(entities) != 1 {
		t.Fatalf("expected one entity, got %d", len(entities))
	}
	if last.Text != "<at>Jane Doe Smith</at>" {
		t.Fatalf("unexpected mention text %q", last.Text)
	}
	if entities[0].Text != last.Text || entities[0].Mentioned.Name != "Jane Doe Smith" {
		t.Fatalf("mention text and entity diverge: %#v vs %q", entities[0], last.Text)
	}
	if entities[0].Mentioned.ID != "jane.doe_smith@example.com" || entities[0].Type != "mention" {
		t.Fatalf("unexpected entity %#v", entities[0])
	}
}

func TestComposeSectionOrder(t *testing.T) {
	doc := NewComposer().Compose(decode(t, map[string]any{
		"mention_email":   "owner@example.com",
		"LeadScoreLevel":  "★★",
		"formMessage":     "Please call",
		"UserInfo_Short":  "Marketing lead",
		"userName":        "Jane",
		"LeadCompanyName": "Acme",
	}))
	body := doc.Body()
	if len(body) != 7 {
		t.Fatalf("expected 7 sections, got %d", len(body))
	}
	wantFirstTexts := []string{englishLabels[KeyTitle], "Acme", "image:" + DefaultUserImage, "Notes", "Inquiry", "Lead Rating", "<at>Owner</at>"}
	for i, el := range body {
		if got := collectTexts(el)[0]; got != wantFirstTexts[i] {
			t.Fatalf("section %d starts with %q, want %q", i, got, wantFirstTexts[i])
		}
	}
}

func TestComposeActions(t *testing.T) {
	doc := NewComposer(WithDefaultSourceURL("https://app.example.com/")).Compose(lead.Record{})
	if len(doc.Actions()) != 1 || doc.Actions()[0].URL != "https://app.example.com/" {
		t.Fatalf("expected default source action, got %#v", doc.Actions())
	}
	doc = NewComposer(WithDefaultSourceURL("https://app.example.com/")).Compose(lead.Record{SourceURL: "https://news.example.com/a"})
	if doc.Actions()[0].URL != "https://news.example.com/a" || doc.Actions()[0].Type != "Action.OpenUrl" {
		t.Fatalf("expected record source action, got %#v", doc.Actions())
	}
}

func TestDocumentWireShape(t *testing.T) {
	doc := NewComposer().Compose(decode(t, map[string]any{
		"LeadCompanyName": "Acme",
		"mention_email":   "owner@example.com",
	}))
	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if wire["type"] != "message" {
		t.Fatalf("unexpected envelope type %v", wire["type"])
	}
	attachment := wire["attachments"].([]any)[0].(map[string]any)
	if attachment["contentType"] != AdaptiveCardMIME {
		t.Fatalf("unexpected content type %v", attachment["contentType"])
	}
	content := attachment["content"].(map[string]any)
	if content["type"] != "AdaptiveCard" || content["version"] != "1.2" || content["$schema"] != AdaptiveCardSchema {
		t.Fatalf("unexpected content header %v", content)
	}
	if _, ok := content["actions"].([]any); !ok {
		t.Fatalf("actions must serialize as an array")
	}
	msteams := content["msteams"].(map[string]any)
	if msteams["width"] != "Full" || len(msteams["entities"].([]any)) != 1 {
		t.Fatalf("unexpected msteams %v", msteams)
	}
	body := content["body"].([]any)
	company := body[1].(map[string]any)
	if company["type"] != "ColumnSet" {
		t.Fatalf("expected ColumnSet, got %v", company["type"])
	}
	column := company["columns"].([]any)[0].(map[string]any)
	if column["type"] != "Column" {
		t.Fatalf("expected Column type tag, got %v", column["type"])
	}
	if !strings.Contains(string(data), `"text":"<at>Owner</at>"`) {
		t.Fatalf("expected escaped mention text in %s", data)
	}
}
