// Package weather fetches current conditions from wttr.in, which needs no
// API key, and keeps the UI updated in the background.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://wttr.in"

// Report is the current weather at a location.
type Report struct {
	TempC     int
	TempF     int
	Condition string
	Glyph     string
	Location  string
	Humidity  int
	WindKph   float64
}

// DisplayTemp formats the temperature for the pill widget.
func (report Report) DisplayTemp() string {
	return fmt.Sprintf("%d°C", report.TempC)
}

// Client queries wttr.in's JSON endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client with a 10 second timeout.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	client := NewClient()
	client.baseURL = baseURL
	return client
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC         string `json:"temp_C"`
		TempF         string `json:"temp_F"`
		Humidity      string `json:"humidity"`
		WindspeedKmph string `json:"windspeedKmph"`
		WeatherCode   string `json:"weatherCode"`
		WeatherDesc   []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
	} `json:"nearest_area"`
}

// Fetch returns the current weather for location. An empty location lets
// wttr.in pick by IP.
func (client *Client) Fetch(ctx context.Context, location string) (Report, error) {
	endpoint := client.baseURL + "/" + url.PathEscape(location) + "?format=j1"
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Report{}, fmt.Errorf("build weather request: %w", err)
	}
	request.Header.Set("User-Agent", "Mozilla/5.0")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return Report{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("fetch weather: unexpected status %s", response.Status)
	}

	var payload wttrResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Report{}, fmt.Errorf("decode weather response: %w", err)
	}
	if len(payload.CurrentCondition) == 0 {
		return Report{}, fmt.Errorf("decode weather response: no current condition")
	}

	current := payload.CurrentCondition[0]
	report := Report{
		TempC:    atoi(current.TempC),
		TempF:    atoi(current.TempF),
		Glyph:    glyphForCode(atoiOr(current.WeatherCode, 113)),
		Humidity: atoi(current.Humidity),
	}
	report.WindKph, _ = strconv.ParseFloat(current.WindspeedKmph, 64)
	if len(current.WeatherDesc) > 0 {
		report.Condition = current.WeatherDesc[0].Value
	}
	if len(payload.NearestArea) > 0 && len(payload.NearestArea[0].AreaName) > 0 {
		report.Location = payload.NearestArea[0].AreaName[0].Value
	}
	return report, nil
}

// glyphForCode maps wttr.in weather codes to a display glyph.
func glyphForCode(code int) string {
	switch {
	case code == 113:
		return "☀️"
	case code == 116 || code == 119:
		return "⛅"
	case code == 122:
		return "☁️"
	case in(code, 143, 248, 260):
		return "🌫️"
	case in(code, 176, 263, 266, 293, 296, 299, 302, 305, 308, 311, 314, 353, 356, 359):
		return "🌧️"
	case in(code, 179, 182, 185, 281, 284, 317, 320, 350, 362, 365, 374, 377):
		return "🌨️"
	case in(code, 200, 386, 389, 392, 395):
		return "⛈️"
	case in(code, 227, 230, 323, 326, 329, 332, 335, 338, 368, 371):
		return "❄️"
	default:
		return "🌤️"
	}
}

func in(code int, values ...int) bool {
	for _, value := range values {
		if code == value {
			return true
		}
	}
	return false
}

func atoi(value string) int {
	parsed, _ := strconv.Atoi(value)
	return parsed
}

func atoiOr(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Poller fetches the weather on an interval and hands each successful
// report to onUpdate. Failures keep the previous report.
type Poller struct {
	client   *Client
	location string
	interval time.Duration
	onUpdate func(Report)
	logger   *slog.Logger
}

// NewPoller builds a Poller. A nil logger falls back to slog.Default.
func NewPoller(client *Client, location string, interval time.Duration, onUpdate func(Report), logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Poller{
		client:   client,
		location: location,
		interval: interval,
		onUpdate: onUpdate,
		logger:   logger,
	}
}

// Run fetches immediately and then on each tick until ctx is cancelled.
func (poller *Poller) Run(ctx context.Context) {
	poller.fetchOnce(ctx)

	ticker := time.NewTicker(poller.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poller.fetchOnce(ctx)
		}
	}
}

func (poller *Poller) fetchOnce(ctx context.Context) {
	report, err := poller.client.Fetch(ctx, poller.location)
	if err != nil {
		poller.logger.Warn("weather fetch failed", "error", err)
		return
	}
	poller.onUpdate(report)
}
