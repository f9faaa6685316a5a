package email

import (
	"testing"

	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	s := NewService(&Config{}, logger.Nop())
	data := EventEmailData{
		EventName: "Resume Workshop",
		Location:  "MU 202",
		Date:      "2026-10-20",
		Time:      "18:00",
		Hours:     "2",
		HoursType: "professional",
		EventURL:  "http://localhost:3000/events/7",
	}

	body, err := s.Render(TemplateEventAnnouncement, data)
	require.NoError(t, err)
	assert.Contains(t, body, "New Event: Resume Workshop")
	assert.Contains(t, body, "MU 202")
	assert.Contains(t, body, "2 professional")

	body, err = s.Render(TemplateEventReminder, data)
	require.NoError(t, err)
	assert.Contains(t, body, "Reminder: Resume Workshop is tomorrow")
	assert.Contains(t, body, `href="http://localhost:3000/events/7"`)

	_, err = s.Render("missing", data)
	assert.Error(t, err)
}

func TestSendWithoutHostIsSkipped(t *testing.T) {
	s := NewService(&Config{}, logger.Nop())
	assert.NoError(t, s.SendWithTemplate([]string{"a@example.edu"}, "hi", TemplateEventReminder, EventEmailData{}))
}
