package googleDriveApi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/drive/v3"

	"github.com/KotFed0t/isin_resolver/config"
)

func TestNew_NoCredentials(t *testing.T) {
	_, err := New(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestExpiredFileIDs(t *testing.T) {
	cutoff := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	ids := expiredFileIDs(context.Background(), []*drive.File{
		{Id: "old", CreatedTime: "2024-03-01T08:00:00Z"},
		{Id: "fresh", CreatedTime: "2024-03-10T12:30:00Z"},
		{Id: "broken", CreatedTime: "yesterday"},
		{Id: "edge", CreatedTime: "2024-03-10T12:00:00Z"},
	}, cutoff)

	assert.Equal(t, []string{"old"}, ids)
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "application/octet-stream", mimeType("export"))
	assert.Contains(t, mimeType("report.html"), "text/html")
}
