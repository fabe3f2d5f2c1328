package config

import (
	"testing"

	"github.com/gcbaptista/go-similarity-join/internal/errors"
)

func TestJoinSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings JoinSettings
		wantErr  error
	}{
		{"valid", JoinSettings{Name: "products", QGramLength: 2, MaxEditDistance: 2}, nil},
		{"zero tau is valid", JoinSettings{Name: "products", QGramLength: 3, MaxEditDistance: 0}, nil},
		{"empty name", JoinSettings{Name: "  ", QGramLength: 2, MaxEditDistance: 1}, errors.ErrInvalidInput},
		{"zero q", JoinSettings{Name: "products", QGramLength: 0, MaxEditDistance: 1}, errors.ErrInvalidParameter},
		{"negative q", JoinSettings{Name: "products", QGramLength: -1, MaxEditDistance: 1}, errors.ErrInvalidParameter},
		{"negative tau", JoinSettings{Name: "products", QGramLength: 2, MaxEditDistance: -1}, errors.ErrInvalidParameter},
		{"negative workers", JoinSettings{Name: "products", QGramLength: 2, MaxEditDistance: 1, NumWorkers: -2}, errors.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want error matching %v", err, tt.wantErr)
			}
		})
	}
}

func TestJoinSettingsPrefixLength(t *testing.T) {
	tests := []struct {
		q, tau, want int
	}{
		{2, 2, 5},
		{2, 0, 1},
		{3, 1, 4},
	}
	for _, tt := range tests {
		settings := JoinSettings{QGramLength: tt.q, MaxEditDistance: tt.tau}
		if got := settings.PrefixLength(); got != tt.want {
			t.Errorf("PrefixLength(q=%d, tau=%d) = %d, want %d", tt.q, tt.tau, got, tt.want)
		}
	}
}

func TestJoinSettingsApplyDefaults(t *testing.T) {
	settings := JoinSettings{Name: "products"}
	settings.ApplyDefaults()

	if settings.QGramLength != 2 {
		t.Errorf("default QGramLength = %d, want 2", settings.QGramLength)
	}
	if settings.NumWorkers <= 0 {
		t.Errorf("default NumWorkers = %d, want positive", settings.NumWorkers)
	}
}
