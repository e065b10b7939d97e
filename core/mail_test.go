package core

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	data := struct {
		ParentName  string
		StudentName string
		Subject     string
		Date        string
		Attendance  float64
	}{"Ali", "Omar", "Mathematics", "2024-05-20", 94}

	t.Run("template", func(t *testing.T) {
		msg := &EmailMessage{
			To:           []mail.Address{{Name: "Ali", Address: "ali@example.com"}},
			Subject:      "Absence",
			TemplateName: "absence_notice",
			TemplateData: data,
		}
		require.NoError(t, msg.Render("SchoolLink"))
		assert.True(t, msg.HasRecipients())
		assert.True(t, msg.HasContent())
		assert.Contains(t, msg.TextContent, "Hello Ali,")
		assert.Contains(t, msg.TextContent, "Omar was marked absent from Mathematics on 2024-05-20.")
		assert.Contains(t, msg.TextContent, "SchoolLink")
		assert.Contains(t, msg.HTMLContent, "<strong>Omar</strong>")
	})

	t.Run("plain body", func(t *testing.T) {
		msg := &EmailMessage{BodyStr: "hi"}
		require.NoError(t, msg.Render("SchoolLink"))
		assert.Equal(t, "hi", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
		assert.False(t, msg.HasRecipients())
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := &EmailMessage{TemplateName: "nope"}
		assert.EqualError(t, msg.Render("SchoolLink"), `unknown email template "nope"`)
	})
}
