package validation

import (
	"io"
	"strings"
	"testing"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "site.lead@example.com", NormalizeEmail("  Site.Lead@Example.COM "))
	assert.Equal(t, NormalizeEmail("STRASSE@example.com"), NormalizeEmail("straße@example.com"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("pm@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-address"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct horse battery"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("myPassword-2024!"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestSniffAttachment(t *testing.T) {
	pdf := "%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"

	mime, r, err := SniffAttachment("drawing.PDF", strings.NewReader(pdf))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, pdf, string(body))

	_, _, err = SniffAttachment("drawing.png", strings.NewReader(pdf))
	assert.ErrorContains(t, err, "invalid attachment extension")

	_, _, err = SniffAttachment("notes.pdf", strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")

	_, _, err = SniffAttachment("setup.pdf", strings.NewReader("MZ\x90\x00\x03\x00\x00\x00"))
	assert.ErrorContains(t, err, "invalid attachment type")
}

func TestSniffAttachmentText(t *testing.T) {
	schedule := "item,qty\nrebar,40\nformwork,12\n"

	_, _, err := SniffAttachment("schedule.csv", strings.NewReader(schedule))
	assert.NoError(t, err)

	_, _, err = SniffAttachment("schedule.txt", strings.NewReader(schedule))
	assert.NoError(t, err)

	mime, _, err := SniffAttachment("notes.txt", strings.NewReader("Confirm slab depth at grid C4."))
	require.NoError(t, err)
	assert.Contains(t, mime, "text/plain")
}

func TestStruct(t *testing.T) {
	status := "pending"
	empty := ""

	err := Struct(model.RFIUpdate{Status: &status, Title: &empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of: open answered closed")
	assert.Contains(t, err.Error(), "title must be at least 1 characters")

	answered := model.RFIStatusAnswered
	assert.NoError(t, Struct(model.RFIUpdate{Status: &answered}))
}
