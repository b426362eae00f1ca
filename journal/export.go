/*
export.go - CSV export of the full history

One row per record, newest first, with display metrics exported as the
strings the app shows ("-" when undefined) so the sheet matches the UI.
*/
package journal

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/farmstead/fcr-engine/fcr"
)

var csvHeader = []string{
	"Flock Name",
	"Date",
	"Feed Amount (kg)",
	"Egg Count",
	"Bird Count",
	"Egg Weight (g)",
	"Weather",
	"Notes",
	"FCR",
	"Performance Category",
	"Feed per Bird (kg)",
	"Laying Percentage (%)",
	"Feed Price per kg",
	"Currency",
	"Today's Feed Cost",
	"Cost per Egg",
	"Alt Feed (kg)",
	"Alt Feed Name",
}

// ExportCSV renders every record as CSV, newest date first.
func (j *Journal) ExportCSV(ctx context.Context) ([]byte, error) {
	recs, err := j.Records.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(a, b int) bool { return recs[a].Date.After(recs[b].Date) })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range recs {
		if err := w.Write(csvRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportRecordCSV renders a single record as CSV (header + one row).
func (j *Journal) ExportRecordCSV(ctx context.Context, id fcr.RecordID) ([]byte, error) {
	rec, err := j.Records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	if err := w.Write(csvRow(*rec)); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRow(r fcr.Record) []string {
	return []string{
		r.FlockName,
		r.Date.String(),
		num(r.FeedAmount),
		strconv.Itoa(r.EggCount),
		strconv.Itoa(r.BirdCount),
		num(r.EggWeight),
		fcr.WeatherLabel(r.Weather),
		r.Notes,
		r.FCRValue,
		r.PerformanceCategory,
		r.FeedPerBird,
		r.LayingPercentage,
		num(r.FeedPricePerKg),
		r.CurrencyCode,
		money(r.CostFeedTotal),
		money(r.CostPerEgg),
		num(r.AltFeedKg),
		r.AltFeedName,
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}
