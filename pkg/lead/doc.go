// Package lead models the research output describing a sales lead.
//
// A Record is a flat set of optional string fields grouped by concern (user,
// company, evaluation, media, mention). The inbound wire format is the map the
// research agent emits; an empty string means the field is absent.
package lead
