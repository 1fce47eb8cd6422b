package lead

// Field is the wire name of an inbound lead attribute.
type Field string

const (
	FieldCompanyName        Field = "LeadCompanyName"
	FieldCompanyInfo        Field = "CompanyInfo_Short"
	FieldUserEmail          Field = "userEmail"
	FieldUserName           Field = "userName"
	FieldUserNote           Field = "UserInfo_Short"
	FieldUserPosition       Field = "UserTitle_ThisCompany"
	FieldUserPerspective    Field = "PersonalOpinionPreference"
	FieldSimilarCustomers   Field = "Top5Cases_Name"
	FieldUserPhone          Field = "account_phone"
	FieldCompanyLogoURL     Field = "Image_URL_companyLogo"
	FieldLeadRating         Field = "LeadScoreLevel"
	FieldPositiveFactors    Field = "ReasonforPrioritization"
	FieldNegativeFactors    Field = "ReasonforDeprioritization"
	FieldLastMonthPV        Field = "LastMonthPV"
	FieldEstimatedMRR       Field = "potential_mrr"
	FieldWebsite            Field = "refinedURL"
	FieldTechnologyName     Field = "technology_name"
	FieldFormMessage        Field = "formMessage"
	FieldUserOtherPosition  Field = "UserTitle_OtherCompany"
	FieldCompanyIndustry    Field = "CompanyIndustry"
	FieldEmployeeRange      Field = "employee_range"
	FieldUserTags           Field = "UserTags"
	FieldCompanyTags        Field = "CompanyTags"
	FieldWebpageTags        Field = "WebPageTags"
	FieldWebpageInfo        Field = "WebPageInfo_Short"
	FieldCompetitorCaseTags Field = "PTECompetitorCaseStudyTags"
	FieldUserPhotoURL       Field = "Image_URL_userPhoto"
	FieldMentionName        Field = "mention_name"
	FieldMentionEmail       Field = "mention_email"
	FieldSourceURL          Field = "source_url"
)

type binding struct {
	field Field
	ref   func(*Record) *string
}

// bindings is the field catalogue in wire order; Decode walks it so the first
// offending field is reported deterministically.
var bindings = []binding{
	{FieldCompanyName, func(r *Record) *string { return &r.Company.Name }},
	{FieldCompanyInfo, func(r *Record) *string { return &r.Company.Info }},
	{FieldUserEmail, func(r *Record) *string { return &r.User.Email }},
	{FieldUserName, func(r *Record) *string { return &r.User.Name }},
	{FieldUserNote, func(r *Record) *string { return &r.User.Note }},
	{FieldUserPosition, func(r *Record) *string { return &r.User.Position }},
	{FieldUserPerspective, func(r *Record) *string { return &r.User.Perspective }},
	{FieldSimilarCustomers, func(r *Record) *string { return &r.Company.SimilarCustomers }},
	{FieldUserPhone, func(r *Record) *string { return &r.User.Phone }},
	{FieldCompanyLogoURL, func(r *Record) *string { return &r.Company.LogoURL }},
	{FieldLeadRating, func(r *Record) *string { return &r.Evaluation.LeadRating }},
	{FieldPositiveFactors, func(r *Record) *string { return &r.Evaluation.PositiveFactors }},
	{FieldNegativeFactors, func(r *Record) *string { return &r.Evaluation.NegativeFactors }},
	{FieldLastMonthPV, func(r *Record) *string { return &r.Evaluation.LastMonthPV }},
	{FieldEstimatedMRR, func(r *Record) *string { return &r.Evaluation.EstimatedMRR }},
	{FieldWebsite, func(r *Record) *string { return &r.Company.Website }},
	{FieldTechnologyName, func(r *Record) *string { return &r.Company.TechnologyName }},
	{FieldFormMessage, func(r *Record) *string { return &r.Company.FormMessage }},
	{FieldUserOtherPosition, func(r *Record) *string { return &r.User.OtherPosition }},
	{FieldCompanyIndustry, func(r *Record) *string { return &r.Company.Industry }},
	{FieldEmployeeRange, func(r *Record) *string { return &r.Company.EmployeeRange }},
	{FieldUserTags, func(r *Record) *string { return &r.User.Tags }},
	{FieldCompanyTags, func(r *Record) *string { return &r.Company.Tags }},
	{FieldWebpageTags, func(r *Record) *string { return &r.Company.WebpageTags }},
	{FieldWebpageInfo, func(r *Record) *string { return &r.Company.WebpageInfo }},
	{FieldCompetitorCaseTags, func(r *Record) *string { return &r.Company.CompetitorCaseTags }},
	{FieldUserPhotoURL, func(r *Record) *string { return &r.User.PhotoURL }},
	{FieldMentionName, func(r *Record) *string { return &r.Mention.Name }},
	{FieldMentionEmail, func(r *Record) *string { return &r.Mention.Key }},
	{FieldSourceURL, func(r *Record) *string { return &r.SourceURL }},
}

// urlFields have embedded spaces removed after decoding.
var urlFields = map[Field]bool{
	FieldCompanyLogoURL: true,
	FieldWebsite:        true,
	FieldUserPhotoURL:   true,
}

// Fields returns the catalogue of known wire names in canonical order.
func Fields() []Field {
	out := make([]Field, len(bindings))
	for i, b := range bindings {
		out[i] = b.field
	}
	return out
}
