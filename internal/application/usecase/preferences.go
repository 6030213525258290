package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tesso57/sutra/internal/domain/curation"
)

var deliveryFrequencies = []string{"daily", "weekly", "custom"}

// PreferencesService reads and updates per-user delivery preferences.
type PreferencesService struct {
	Store SettingsStore
}

// NewPreferencesService constructs a PreferencesService.
func NewPreferencesService(store SettingsStore) PreferencesService {
	return PreferencesService{Store: store}
}

// Get returns the preferences of the signed-in user.
func (p PreferencesService) Get(ctx context.Context, s curation.Session) (curation.UserSettings, error) {
	if err := requireSession(s); err != nil {
		return curation.UserSettings{}, err
	}
	settings, err := p.Store.GetSettings(ctx, s.UserID)
	if err != nil {
		return curation.UserSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Update validates and stores the preferences of the signed-in user.
func (p PreferencesService) Update(ctx context.Context, s curation.Session, settings curation.UserSettings) (curation.UserSettings, error) {
	if err := requireSession(s); err != nil {
		return curation.UserSettings{}, err
	}
	settings.PeriodicFrequency = strings.ToLower(strings.TrimSpace(settings.PeriodicFrequency))
	if !slices.Contains(deliveryFrequencies, settings.PeriodicFrequency) {
		return curation.UserSettings{}, &curation.FormError{Field: "periodic_frequency", Message: "frequency must be daily, weekly or custom"}
	}
	languages := make([]string, 0, len(settings.PreferredLanguages))
	for _, lang := range settings.PreferredLanguages {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		return curation.UserSettings{}, &curation.FormError{Field: "preferred_languages", Message: "at least one language is required"}
	}
	settings.PreferredLanguages = languages
	settings.DeliveryTime = strings.TrimSpace(settings.DeliveryTime)
	if _, err := time.Parse("15:04", settings.DeliveryTime); err != nil {
		if _, err := time.Parse("15:04:05", settings.DeliveryTime); err != nil {
			return curation.UserSettings{}, &curation.FormError{Field: "delivery_time", Message: "delivery time must be HH:MM"}
		}
	}
	updated, err := p.Store.UpdateSettings(ctx, s.UserID, settings)
	if err != nil {
		return curation.UserSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return updated, nil
}
