// Package templates holds the fixed catalogue of invitation templates and the
// authoring-side shaping that clears fields a template does not render.
package templates

import (
	"strings"
	"time"

	"github.com/roemah-nenek/undangan/internal/models"
)

const (
	ModernJavanese = "modern-javanese"
	ListStyle      = "list-style"
	Sunda          = "sunda"

	// Default is used when an invitation is created without a template.
	Default = ModernJavanese
)

// Template describes one presentation variant.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// StaticImages is true for templates that render fixed section images
	// (heroImage, coupleImage, ...) instead of couple photos and events.
	StaticImages bool `json:"staticImages"`
}

var catalogue = []Template{
	{
		ID:          ModernJavanese,
		Name:        "Modern Javanese Wedding",
		Description: "Full invitation with couple photos, parents, events, gallery, story and gift section.",
	},
	{
		ID:          ListStyle,
		Name:        "Simple List Style",
		Description: "Compact single-column layout listing every section in order.",
	},
	{
		ID:           Sunda,
		Name:         "Sunda Wedding",
		Description:  "Static section images with names, RSVP and gift accounts.",
		StaticImages: true,
	},
}

// All returns the catalogue in display order.
func All() []Template {
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the template with the given id.
func Lookup(id string) (Template, bool) {
	for _, t := range catalogue {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Exists reports whether id names a catalogue template.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// ShapeContent clears the fields templateID does not render and drops incomplete events.
func ShapeContent(templateID string, c *models.Content) {
	if templateID == Sunda {
		c.Events = []models.Event{}
		c.Couple = stripCouple(c.Couple)
		c.HeroQuote = ""
		c.Hashtag = ""
		c.DressCodeInfo = ""
		c.Gift.Message = ""
		return
	}
	c.Events = completeEvents(c.Events)
}

// ShapePatch applies ShapeContent's rules to a partial update. Fields absent from the
// patch are left alone, except that a sunda patch always clears the sunda-unused scalars.
func ShapePatch(templateID string, p *models.InvitationPatch) {
	if templateID == Sunda {
		empty := []models.Event{}
		p.Events = &empty
		if p.Couple != nil {
			c := stripCouple(*p.Couple)
			p.Couple = &c
		}
		blank := ""
		p.HeroQuote = &blank
		p.Hashtag = &blank
		p.DressCodeInfo = &blank
		if p.Gift != nil {
			g := *p.Gift
			g.Message = ""
			p.Gift = &g
		}
		return
	}
	if p.Events != nil {
		events := completeEvents(*p.Events)
		p.Events = &events
	}
}

func stripCouple(c models.Couple) models.Couple {
	c.Groom.Parents, c.Groom.PhotoURL = "", ""
	c.Bride.Parents, c.Bride.PhotoURL = "", ""
	return c
}

func completeEvents(events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.VenueName) == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Preview returns the sample invitation rendered on the template preview page.
func Preview(templateID string) (models.Invitation, bool) {
	if !Exists(templateID) {
		return models.Invitation{}, false
	}
	wedding := time.Date(2025, time.December, 25, 10, 0, 0, 0, time.UTC)
	inv := models.Invitation{
		Slug:       "preview",
		TemplateID: templateID,
		Content: models.Content{
			MetaDescription: "Sarah & Michael are getting married",
			Couple: models.Couple{
				Groom: models.Person{Name: "Michael", Parents: "Son of Mr. & Mrs. Johnson"},
				Bride: models.Person{Name: "Sarah", Parents: "Daughter of Mr. & Mrs. Anderson"},
			},
			WeddingDate: &wedding,
			Events: []models.Event{
				{
					Title:        "Holy Matrimony",
					Date:         "Thursday, December 25, 2025",
					Time:         "10:00 AM",
					VenueName:    "St. Mary Church",
					VenueAddress: "123 Church Street, New York, NY 10001",
					VenueMapURL:  "https://maps.google.com",
				},
				{
					Title:        "Wedding Reception",
					Date:         "Thursday, December 25, 2025",
					Time:         "6:00 PM",
					VenueName:    "Grand Ballroom Hotel",
					VenueAddress: "456 Hotel Avenue, New York, NY 10002",
					VenueMapURL:  "https://maps.google.com",
				},
			},
			HeroQuote: "And of His signs is that He created for you from yourselves mates that you may find tranquillity in them.",
			Hashtag:   "#SarahMichaelForever",
			Gallery: []models.GalleryImage{
				{URL: "https://via.placeholder.com/400", Caption: "Our First Date"},
				{URL: "https://via.placeholder.com/400", Caption: "Proposal Day"},
			},
			Story: []models.StoryItem{
				{Year: "2020", Title: "First Met", Text: "We met at a coffee shop on a rainy day."},
				{Year: "2024", Title: "Engaged", Text: "He proposed on the beach at sunset."},
			},
			Gift: models.GiftSettings{
				Enabled: true,
				Message: "Your blessing is the greatest gift.",
				BankAccounts: []models.BankAccount{
					{BankName: "BCA", AccountHolder: "Sarah Anderson", AccountNumber: "1234567890"},
				},
			},
		},
	}
	ShapeContent(templateID, &inv.Content)
	return inv, true
}
