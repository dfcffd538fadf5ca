package config

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"restaurant-api/models"

	"gorm.io/gorm"
)

func TestOpenDBLogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	db, err := OpenDB(DBConfig{Driver: "sqlite", DSN: ":memory:"}, log)
	if err != nil {
		t.Fatal(err)
	}

	var order models.Order
	if err := db.First(&order, 42).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("First error = %v, want ErrRecordNotFound", err)
	}
	if buf.Len() != 0 {
		t.Errorf("missing row was logged: %s", buf.String())
	}

	if err := db.Exec("SELECT * FROM no_such_table").Error; err == nil {
		t.Fatal("expected query error")
	}
	line := buf.String()
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"component":"gorm"`) {
		t.Errorf("query error not logged as JSON: %q", line)
	}
}
