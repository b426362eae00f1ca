/*
weather.go - Canonical weather keys and the day-level weather cache

PURPOSE:
  Entries carry a weather tag that went through several shapes over the
  app's life (free text, emojis, legacy lowercase keys). Everything
  funnels through NormalizeWeather into five canonical keys; painters
  and exports only ever see those.

PRIORITY:
  When multiple events land on one day, the day's cached weather is the
  highest-priority key: extreme heat beats a cold snap beats rain beats
  wind beats optimal.
*/
package fcr

import (
	"context"
	"strings"
)

// Canonical weather keys.
const (
	WeatherExtremeHeat = "EXTREME_HEAT"
	WeatherTempDrop    = "TEMP_DROP"
	WeatherRainy       = "RAINY"
	WeatherWindy       = "WINDY"
	WeatherOptimal     = "OPTIMAL"
)

// WeatherBadge is the display info for one canonical key.
type WeatherBadge struct {
	Key   string `json:"key"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// WeatherBadges lists the canonical weather table in selection order.
var WeatherBadges = []WeatherBadge{
	{Key: WeatherExtremeHeat, Emoji: "🔥", Label: "Extreme Heat"},
	{Key: WeatherTempDrop, Emoji: "❄️", Label: "Temp Drop"},
	{Key: WeatherRainy, Emoji: "🌧️", Label: "Rainy"},
	{Key: WeatherWindy, Emoji: "💨", Label: "Windy"},
	{Key: WeatherOptimal, Emoji: "✅", Label: "Optimal"},
}

// weatherPriority ranks keys for the per-day cache; higher wins.
var weatherPriority = map[string]int{
	WeatherExtremeHeat: 5,
	WeatherTempDrop:    4,
	WeatherRainy:       3,
	WeatherWindy:       2,
	WeatherOptimal:     1,
}

// legacyWeather maps free-text, emoji, and legacy values to canonical keys.
var legacyWeather = map[string]string{
	"sunny": WeatherOptimal, "sun": WeatherOptimal, "clear": WeatherOptimal,
	"mild": WeatherOptimal, "ok": WeatherOptimal, "normal": WeatherOptimal,
	"optimal": WeatherOptimal, "✅": WeatherOptimal,

	"hot": WeatherExtremeHeat, "heat": WeatherExtremeHeat,
	"heat wave": WeatherExtremeHeat, "heatwave": WeatherExtremeHeat,
	"extreme heat": WeatherExtremeHeat, "🔥": WeatherExtremeHeat,

	"cold": WeatherTempDrop, "cold snap": WeatherTempDrop,
	"freeze": WeatherTempDrop, "freezing": WeatherTempDrop,
	"temp drop": WeatherTempDrop, "❄️": WeatherTempDrop,

	"rain": WeatherRainy, "rainy": WeatherRainy, "wet": WeatherRainy,
	"🌧️": WeatherRainy,

	"wind": WeatherWindy, "windy": WeatherWindy, "storm": WeatherWindy,
	"💨": WeatherWindy,
}

// NormalizeWeather maps any historical weather value to a canonical key.
// Unknown values are uppercased and passed through; empty stays empty.
func NormalizeWeather(val string) string {
	s := strings.ToLower(strings.TrimSpace(val))
	if s == "" {
		return ""
	}
	if k, ok := legacyWeather[s]; ok {
		return k
	}
	return strings.ToUpper(s)
}

// WeatherLabel returns the human label for a (possibly legacy) value,
// empty when the value has no canonical badge.
func WeatherLabel(val string) string {
	k := NormalizeWeather(val)
	for _, b := range WeatherBadges {
		if b.Key == k {
			return b.Label
		}
	}
	return ""
}

// WeatherWins reports whether candidate outranks current in the per-day
// cache. Unknown keys never win.
func WeatherWins(candidate, current string) bool {
	return weatherPriority[NormalizeWeather(candidate)] > weatherPriority[NormalizeWeather(current)]
}

// CacheDayWeather folds one event's weather into the day cache, keeping
// the highest-priority key per day.
func CacheDayWeather(ctx context.Context, cache DayWeatherStore, date Day, weather string) error {
	key := NormalizeWeather(weather)
	if weatherPriority[key] == 0 {
		return nil
	}
	existing, err := cache.DayWeather(ctx)
	if err != nil {
		return err
	}
	if cur, ok := existing[date]; ok && !WeatherWins(key, cur) {
		return nil
	}
	return cache.SetDayWeather(ctx, date, key)
}
