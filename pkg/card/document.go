package card

import (
	"bytes"
	"encoding/json"
)

const (
	MessageType        = "message"
	AdaptiveCardType   = "AdaptiveCard"
	AdaptiveCardMIME   = "application/vnd.microsoft.card.adaptive"
	AdaptiveCardSchema = "http://adaptivecards.io/schemas/adaptive-card.json"
	AdaptiveCardVer    = "1.2"
	MentionEntityType  = "mention"
)

// Document is the webhook envelope carrying a single Adaptive Card.
type Document struct {
	Type        string       `json:"type"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment wraps the card content.
type Attachment struct {
	ContentType string `json:"contentType"`
	Content     Card   `json:"content"`
}

// Card is the Adaptive Card itself.
type Card struct {
	Type    string    `json:"type"`
	Body    []Element `json:"body"`
	Actions []Action  `json:"actions"`
	Schema  string    `json:"$schema"`
	Version string    `json:"version"`
	MSTeams HostHints `json:"msteams"`
}

// HostHints carries Teams specific rendering hints and mention entities.
type HostHints struct {
	Width    string   `json:"width"`
	Entities []Entity `json:"entities"`
}

// Entity binds mention text to the identity the client notifies.
type Entity struct {
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	Mentioned Mentioned `json:"mentioned"`
}

// Mentioned identifies the mentioned user.
type Mentioned struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Action is an Action.OpenUrl button.
type Action struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Element is any body item: TextBlock, Image, ColumnSet or Container.
type Element interface {
	ElementType() string
}

// TextBlock renders text.
type TextBlock struct {
	Text     string `json:"text"`
	Size     string `json:"size,omitempty"`
	Weight   string `json:"weight,omitempty"`
	Wrap     bool   `json:"wrap,omitempty"`
	IsSubtle bool   `json:"isSubtle,omitempty"`
}

func (TextBlock) ElementType() string { return "TextBlock" }

func (t TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: t.ElementType(), alias: alias(t)})
}

// Image renders a picture by URL.
type Image struct {
	URL                 string `json:"url"`
	AltText             string `json:"altText,omitempty"`
	Size                string `json:"size,omitempty"`
	Style               string `json:"style,omitempty"`
	Width               string `json:"width,omitempty"`
	Height              string `json:"height,omitempty"`
	Spacing             string `json:"spacing,omitempty"`
	HorizontalAlignment string `json:"horizontalAlignment,omitempty"`
}

func (Image) ElementType() string { return "Image" }

func (i Image) MarshalJSON() ([]byte, error) {
	type alias Image
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: i.ElementType(), alias: alias(i)})
}

// Column is a cell of a ColumnSet.
type Column struct {
	Width                    string    `json:"width,omitempty"`
	Items                    []Element `json:"items"`
	HorizontalAlignment      string    `json:"horizontalAlignment,omitempty"`
	VerticalContentAlignment string    `json:"verticalContentAlignment,omitempty"`
}

func (c Column) MarshalJSON() ([]byte, error) {
	type alias Column
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "Column", alias: alias(c)})
}

// ColumnSet lays columns out horizontally; it is one row of the card.
type ColumnSet struct {
	Columns   []Column `json:"columns"`
	Style     string   `json:"style,omitempty"`
	Separator bool     `json:"separator,omitempty"`
}

func (ColumnSet) ElementType() string { return "ColumnSet" }

func (c ColumnSet) MarshalJSON() ([]byte, error) {
	type alias ColumnSet
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: c.ElementType(), alias: alias(c)})
}

// Container groups rows into a section.
type Container struct {
	Items []Element `json:"items"`
	Style string    `json:"style,omitempty"`
	Bleed bool      `json:"bleed,omitempty"`
}

func (Container) ElementType() string { return "Container" }

func (c Container) MarshalJSON() ([]byte, error) {
	type alias Container
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: c.ElementType(), alias: alias(c)})
}

// NewDocument wraps a card in the webhook envelope.
func NewDocument(c Card) Document {
	return Document{
		Type: MessageType,
		Attachments: []Attachment{{
			ContentType: AdaptiveCardMIME,
			Content:     c,
		}},
	}
}

// Card returns the first attached card.
func (d Document) Card() Card {
	if len(d.Attachments) == 0 {
		return Card{}
	}
	return d.Attachments[0].Content
}

// Body returns the card body sections in order.
func (d Document) Body() []Element { return d.Card().Body }

// Entities returns the mention bindings.
func (d Document) Entities() []Entity { return d.Card().MSTeams.Entities }

// Actions returns the card actions.
func (d Document) Actions() []Action { return d.Card().Actions }

// Marshal serializes the document for the wire. Mention markup is kept
// literal rather than HTML-escaped.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
