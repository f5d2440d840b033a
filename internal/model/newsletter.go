package model

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultOwner is the sentinel owner assigned when no owner identity is provided.
const DefaultOwner = "default@local"

// Newsletter represents a parsed newsletter stored in the database.
// Rows are created once at ingestion time and never updated; the
// retention sweeper is the only writer after that.
type Newsletter struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	ScopedID string `json:"scoped_id" gorm:"type:varchar(512);not null;uniqueIndex"`
	Owner    string `json:"owner" gorm:"type:varchar(255);not null;index"`

	SenderName  string    `json:"sender_name" gorm:"type:varchar(255);index"`
	SenderEmail string    `json:"sender_email" gorm:"type:varchar(255);index"`
	Subject     string    `json:"subject" gorm:"type:varchar(1024)"`
	RawDate     string    `json:"raw_date" gorm:"type:varchar(255)"`
	ReceivedAt  time.Time `json:"received_at" gorm:"index"`

	Platform string `json:"platform" gorm:"type:varchar(50);index"`
	Category string `json:"category" gorm:"type:varchar(100);index"`

	RawHTML       string `json:"-" gorm:"type:longtext"`
	ParsedContent string `json:"parsed_content" gorm:"type:longtext"`
	Title         string `json:"title" gorm:"type:varchar(1024)"`
	Sections      string `json:"-" gorm:"type:text"`
	Links         string `json:"-" gorm:"type:text"`
	Images        string `json:"-" gorm:"type:text"`
	ExtraMetadata string `json:"-" gorm:"type:text"`

	ParsingSucceeded bool `json:"parsing_succeeded" gorm:"default:true"`
	NeedsReview      bool `json:"needs_review" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Newsletter
func (Newsletter) TableName() string {
	return "newsletters"
}

// Section is one heading-to-heading span of a newsletter.
type Section struct {
	Heading string   `json:"heading"`
	Content string   `json:"content,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// Link is an outbound link collected from the newsletter body.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// NormalizeOwner lower-cases and trims an owner identity, substituting
// the default sentinel when the result is empty.
func NormalizeOwner(owner string) string {
	owner = strings.ToLower(strings.TrimSpace(owner))
	if owner == "" {
		return DefaultOwner
	}
	return owner
}

// ScopedID builds the dedup key for a message under an owner.
func ScopedID(owner, messageID string) string {
	return NormalizeOwner(owner) + ":" + messageID
}

// SetSections serializes sections into the JSON text column.
func (n *Newsletter) SetSections(sections []Section) {
	n.Sections = marshalJSON(sections)
}

// SetLinks serializes links into the JSON text column.
func (n *Newsletter) SetLinks(links []Link) {
	n.Links = marshalJSON(links)
}

// SetImages serializes image URLs into the JSON text column.
func (n *Newsletter) SetImages(images []string) {
	n.Images = marshalJSON(images)
}

// SetExtraMetadata serializes the open metadata map into the JSON text column.
func (n *Newsletter) SetExtraMetadata(meta map[string]string) {
	n.ExtraMetadata = marshalJSON(meta)
}

// GetSections deserializes the sections column.
func (n *Newsletter) GetSections() []Section {
	var sections []Section
	if n.Sections != "" {
		json.Unmarshal([]byte(n.Sections), &sections)
	}
	return sections
}

// GetLinks deserializes the links column.
func (n *Newsletter) GetLinks() []Link {
	var links []Link
	if n.Links != "" {
		json.Unmarshal([]byte(n.Links), &links)
	}
	return links
}

// GetImages deserializes the images column.
func (n *Newsletter) GetImages() []string {
	var images []string
	if n.Images != "" {
		json.Unmarshal([]byte(n.Images), &images)
	}
	return images
}

func marshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
