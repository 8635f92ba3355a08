package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestEnvelopeWriters(t *testing.T) {
	tests := []struct {
		name        string
		write       func(c echo.Context) error
		wantCode    int
		wantStatus  string
		wantMessage string
		wantData    map[string]string
	}{
		{
			name:        "success defaults to 200",
			write:       func(c echo.Context) error { return Success(c, 0, "hello", map[string]string{"foo": "bar"}) },
			wantCode:    http.StatusOK,
			wantStatus:  StatusSuccess,
			wantMessage: "hello",
			wantData:    map[string]string{"foo": "bar"},
		},
		{
			name:        "success keeps explicit code",
			write:       func(c echo.Context) error { return Success(c, http.StatusCreated, "created", nil) },
			wantCode:    http.StatusCreated,
			wantStatus:  StatusSuccess,
			wantMessage: "created",
		},
		{
			name:        "error defaults to 500",
			write:       func(c echo.Context) error { return Error(c, 0, "boom") },
			wantCode:    http.StatusInternalServerError,
			wantStatus:  StatusError,
			wantMessage: "boom",
		},
		{
			name: "error with data",
			write: func(c echo.Context) error {
				return ErrorWithData(c, http.StatusUnprocessableEntity, "fix the form", map[string]string{"name": "Rainbow Diner"})
			},
			wantCode:    http.StatusUnprocessableEntity,
			wantStatus:  StatusError,
			wantMessage: "fix the form",
			wantData:    map[string]string{"name": "Rainbow Diner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := tt.write(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected code %d, got %d", tt.wantCode, rec.Code)
			}

			var data map[string]string
			payload := decodeEnvelope(t, rec, &data)
			if payload.Status != tt.wantStatus || payload.Message != tt.wantMessage {
				t.Fatalf("unexpected envelope: %+v", payload)
			}
			for key, want := range tt.wantData {
				if data[key] != want {
					t.Fatalf("expected data %v, got %v", tt.wantData, data)
				}
			}
		})
	}
}
