package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/acorvin/shelf/internal/models"
)

func TestMapPostgresError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, models.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, models.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, models.ErrBadRequest},
		{"not null violation", &pgconn.PgError{Code: "23502"}, models.ErrBadRequest},
		{"malformed uuid literal", &pgconn.PgError{Code: "22P02"}, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapPostgresError(tt.err)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("MapPostgresError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapPostgresError_PassesThroughUnknown(t *testing.T) {
	unknown := fmt.Errorf("connection reset")
	if got := MapPostgresError(unknown); got != unknown {
		t.Errorf("MapPostgresError(%v) = %v, want the error unchanged", unknown, got)
	}
}
