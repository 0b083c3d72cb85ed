// Package calendar imports wake-up alarms from an iCal feed: weekly
// recurring events become weekly alarms, one-off future events become
// one-shot alarms.
package calendar

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// FetchAlarms downloads an iCal feed and converts its events into alarm
// definitions owned by userID. Events that can't map to an alarm are
// logged and skipped; they never fail the import.
func FetchAlarms(icalURL, userID string, defaults models.SnoozeConfig) ([]*models.Alarm, error) {
	events, err := fetchEvents(icalURL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var alarms []*models.Alarm
	for _, comp := range events {
		alarm, err := ConvertEvent(comp, userID, defaults, now)
		if err != nil {
			log.Printf("Skipping calendar event: %v", err)
			continue
		}
		alarms = append(alarms, alarm)
	}
	log.Printf("Imported %d alarms from %d calendar events", len(alarms), len(events))
	return alarms, nil
}

func fetchEvents(icalURL string) ([]*ical.Component, error) {
	resp, err := http.Get(icalURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := validateICalFormat(string(body)); err != nil {
		return nil, err
	}

	return decodeEvents(strings.NewReader(string(body)))
}

func decodeEvents(r io.Reader) ([]*ical.Component, error) {
	decoder := ical.NewDecoder(r)
	var events []*ical.Component
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		for _, comp := range cal.Children {
			if comp.Name == ical.CompEvent {
				events = append(events, comp)
			}
		}
	}
	return events, nil
}

func validateICalFormat(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}
	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", preview)
	}
	return nil
}
