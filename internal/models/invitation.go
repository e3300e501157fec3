package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is one half of the couple.
type Person struct {
	Name     string `json:"name"`
	Parents  string `json:"parents,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Couple holds both parties of the wedding.
type Couple struct {
	Groom Person `json:"groom"`
	Bride Person `json:"bride"`
}

// Event is one scheduled part of the wedding (akad, resepsi, ...).
type Event struct {
	Title        string `json:"title"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	VenueName    string `json:"venueName"`
	VenueAddress string `json:"venueAddress"`
	VenueMapURL  string `json:"venueMapUrl,omitempty"`
}

// GalleryImage is one photo in the gallery block.
type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// StoryItem is one milestone of the couple's story.
type StoryItem struct {
	Year  string `json:"year"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// BankAccount is a gift transfer destination.
type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
}

// GiftSettings configures the gift section.
type GiftSettings struct {
	Enabled      bool          `json:"enabled"`
	Message      string        `json:"message,omitempty"`
	BankAccounts []BankAccount `json:"bankAccounts"`
}

// Content is the invitation body stored as a single JSON document.
type Content struct {
	MetaDescription string         `json:"metaDescription"`
	Couple          Couple         `json:"couple"`
	WeddingDate     *time.Time     `json:"weddingDate,omitempty"`
	Events          []Event        `json:"events"`
	DressCodeInfo   string         `json:"dressCodeInfo"`
	HeroQuote       string         `json:"heroQuote"`
	Hashtag         string         `json:"hashtag"`
	VenueMapURL     string         `json:"venueMapUrl"`
	Gallery         []GalleryImage `json:"gallery"`
	Story           []StoryItem    `json:"story"`
	Gift            GiftSettings   `json:"gift"`

	AudioURL     string `json:"audioUrl"`
	CoverImage   string `json:"coverImage"`
	HeroImage    string `json:"heroImage"`
	CoupleImage  string `json:"coupleImage"`
	StoryImage   string `json:"storyImage"`
	EventImage   string `json:"eventImage"`
	RSVPImage    string `json:"rsvpImage"`
	GiftImage    string `json:"giftImage"`
	FooterImage  string `json:"footerImage"`
	DesktopImage string `json:"desktopImage"`
}

// Invitation is a published wedding invitation. Content fields are flattened into the JSON form.
type Invitation struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	TemplateID     string    `json:"templateId"`
	OwnerAccountID uuid.UUID `json:"ownerAccountId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Content
}

// InvitationPatch is a partial update. Only non-nil fields are replaced; each one replaces the
// whole top-level field. Its JSON form contains exactly the fields being replaced.
type InvitationPatch struct {
	Slug       *string `json:"-"`
	TemplateID *string `json:"-"`

	MetaDescription *string         `json:"metaDescription,omitempty"`
	Couple          *Couple         `json:"couple,omitempty"`
	WeddingDate     *time.Time      `json:"weddingDate,omitempty"`
	Events          *[]Event        `json:"events,omitempty"`
	DressCodeInfo   *string         `json:"dressCodeInfo,omitempty"`
	HeroQuote       *string         `json:"heroQuote,omitempty"`
	Hashtag         *string         `json:"hashtag,omitempty"`
	VenueMapURL     *string         `json:"venueMapUrl,omitempty"`
	Gallery         *[]GalleryImage `json:"gallery,omitempty"`
	Story           *[]StoryItem    `json:"story,omitempty"`
	Gift            *GiftSettings   `json:"gift,omitempty"`

	AudioURL     *string `json:"audioUrl,omitempty"`
	CoverImage   *string `json:"coverImage,omitempty"`
	HeroImage    *string `json:"heroImage,omitempty"`
	CoupleImage  *string `json:"coupleImage,omitempty"`
	StoryImage   *string `json:"storyImage,omitempty"`
	EventImage   *string `json:"eventImage,omitempty"`
	RSVPImage    *string `json:"rsvpImage,omitempty"`
	GiftImage    *string `json:"giftImage,omitempty"`
	FooterImage  *string `json:"footerImage,omitempty"`
	DesktopImage *string `json:"desktopImage,omitempty"`
}

// Apply copies the patched fields onto inv.
func (p *InvitationPatch) Apply(inv *Invitation) {
	if p.Slug != nil {
		inv.Slug = *p.Slug
	}
	if p.TemplateID != nil {
		inv.TemplateID = *p.TemplateID
	}
	c := &inv.Content
	setString(&c.MetaDescription, p.MetaDescription)
	if p.Couple != nil {
		c.Couple = *p.Couple
	}
	if p.WeddingDate != nil {
		d := *p.WeddingDate
		c.WeddingDate = &d
	}
	if p.Events != nil {
		c.Events = *p.Events
	}
	setString(&c.DressCodeInfo, p.DressCodeInfo)
	setString(&c.HeroQuote, p.HeroQuote)
	setString(&c.Hashtag, p.Hashtag)
	setString(&c.VenueMapURL, p.VenueMapURL)
	if p.Gallery != nil {
		c.Gallery = *p.Gallery
	}
	if p.Story != nil {
		c.Story = *p.Story
	}
	if p.Gift != nil {
		c.Gift = *p.Gift
	}
	setString(&c.AudioURL, p.AudioURL)
	setString(&c.CoverImage, p.CoverImage)
	setString(&c.HeroImage, p.HeroImage)
	setString(&c.CoupleImage, p.CoupleImage)
	setString(&c.StoryImage, p.StoryImage)
	setString(&c.EventImage, p.EventImage)
	setString(&c.RSVPImage, p.RSVPImage)
	setString(&c.GiftImage, p.GiftImage)
	setString(&c.FooterImage, p.FooterImage)
	setString(&c.DesktopImage, p.DesktopImage)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
