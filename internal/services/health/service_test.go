package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusMemory(t *testing.T) {
	got := NewService(nil).Status(context.Background())
	if !got.OK || got.Storage != "memory" {
		t.Fatalf("unexpected status %+v", got)
	}
}

func TestStatusPostgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db)
	mock.ExpectPing()
	if got := svc.Status(context.Background()); !got.OK || got.Storage != "postgres" {
		t.Fatalf("unexpected status %+v", got)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	got := svc.Status(context.Background())
	if got.OK || got.Error == "" {
		t.Fatalf("expected unhealthy status, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
