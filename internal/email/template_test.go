package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderVerificationEmail(t *testing.T) {
	url := "http://localhost:3000/verify-email?token=abc.def.ghi"
	html := RenderVerificationEmail(url)

	assert.Equal(t, 3, strings.Count(html, url))
	assert.Contains(t, html, "valid for 10 minutes")
	assert.Contains(t, html, "Verify Your Email")
}

func TestRenderWelcomeEmail(t *testing.T) {
	html := RenderWelcomeEmail("Ann")

	assert.Contains(t, html, "Hello Ann,")
	assert.Contains(t, html, "Welcome to Critique!")
}

func TestRenderWelcomeEmail_EscapesName(t *testing.T) {
	html := RenderWelcomeEmail("<script>alert(1)</script>")

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
