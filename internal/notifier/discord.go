package notifier

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/career-fair-api/internal/form"
	"github.com/gdg-garage/career-fair-api/internal/models"
)

// Notifier tells the organizers about a new registration.
type Notifier interface {
	NotifyRegistration(reg models.CompanyRegistration) error
}

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   messageSender
	channelID string
	catalog   *form.Catalog
}

// NewDiscordSession opens a bot session for token. The caller closes it.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return s, nil
}

func NewDiscordNotifier(session *discordgo.Session, channelID string, catalog *form.Catalog) *DiscordNotifier {
	n := &DiscordNotifier{channelID: channelID, catalog: catalog}
	if session != nil {
		n.session = session
	}
	return n
}

func (n *DiscordNotifier) NotifyRegistration(reg models.CompanyRegistration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, FormatRegistration(reg, n.catalog)); err != nil {
		return fmt.Errorf("sending discord message: %w", err)
	}
	return nil
}

// FormatRegistration renders the organizer announcement for reg. Track ids are
// resolved to their labels here, never stored as labels.
func FormatRegistration(reg models.CompanyRegistration, catalog *form.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 **New company registration**\n**Company:** %s (%s)\n**Contact:** %s, %s <%s>",
		reg.CompanyName, reg.Location, reg.ContactName, reg.Role, reg.Email)

	var tracks []string
	for _, id := range strings.Split(reg.Tracks, ",") {
		if id == "" {
			continue
		}
		if catalog != nil {
			tracks = append(tracks, catalog.Label(id))
		} else {
			tracks = append(tracks, id)
		}
	}
	fmt.Fprintf(&b, "\n**Vacancies:** %s\n**Tracks:** %s", reg.VacancyLevel, strings.Join(tracks, ", "))

	attendees := 1
	if reg.HasCompanion {
		attendees++
		fmt.Fprintf(&b, "\n**Companion:** %s", reg.CompanionName)
	}
	if reg.HasExtraAttendees {
		attendees += reg.ExtraAttendeeCount
		fmt.Fprintf(&b, "\n**Extra attendees:** %s", strings.Join(reg.ExtraAttendeeNames, ", "))
	}
	fmt.Fprintf(&b, "\n**People attending:** %d", attendees)

	if reg.WantsStand {
		fmt.Fprintf(&b, "\n**Stand:** %s", reg.StandDetails)
	}
	if reg.BringsItems {
		fmt.Fprintf(&b, "\n**Promotional items:** %s", reg.ItemDescription)
	}
	if reg.JoinsJobBoard {
		b.WriteString("\n**Job board:** yes")
	}
	return b.String()
}
