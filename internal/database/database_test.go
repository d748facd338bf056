package database

import (
	"path/filepath"
	"testing"

	"folio/internal/config"
	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "nested", "folio.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestPersistentModels_IncludesContentTypes(t *testing.T) {
	want := map[string]bool{
		"*models.Project":      false,
		"*models.Testimonial":  false,
		"*models.Blog":         false,
		"*models.BlogComment":  false,
		"*models.TimelineItem": false,
	}
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.Project:
			want["*models.Project"] = true
		case *models.Testimonial:
			want["*models.Testimonial"] = true
		case *models.Blog:
			want["*models.Blog"] = true
		case *models.BlogComment:
			want["*models.BlogComment"] = true
		case *models.TimelineItem:
			want["*models.TimelineItem"] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "PersistentModels should include %s", name)
	}
}

func TestDialector_UnsupportedDriver(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
