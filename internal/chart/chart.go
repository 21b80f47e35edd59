// Package chart converts labeled-series input (parallel arrays of category
// labels and named numeric series) into the row-oriented records charting
// collaborators consume, with deterministic series-to-channel routing and
// deterministic color assignment.
package chart

import (
	"fmt"
	"strings"

	"github.com/policydesk/policydesk/internal/errors"
)

// Dataset is one named numeric series. Data is index-aligned with the
// owning LabeledSeries' Labels. Color is optional; when empty a palette
// color is assigned deterministically by dataset index.
type Dataset struct {
	Name  string    `json:"name" yaml:"name"`
	Data  []float64 `json:"data" yaml:"data"`
	Color string    `json:"color,omitempty" yaml:"color,omitempty"`
}

// LabeledSeries is the parallel-array representation of multi-series chart
// data: shared category labels plus one or more named series.
type LabeledSeries struct {
	Labels   []string  `json:"labels" yaml:"labels"`
	Datasets []Dataset `json:"datasets" yaml:"datasets"`
}

// Row is one reshaped record: a "category" key holding the label, plus one
// key per dataset name holding that dataset's value at the label's index.
type Row map[string]any

// categoryKey is the reserved row key for the label.
const categoryKey = "category"

// Channel identifies the visual channel a series is routed to.
type Channel string

const (
	// ChannelPrimary is the default axis/stack group.
	ChannelPrimary Channel = "primary"
	// ChannelSecondary is the distinct axis/stack group for series that the
	// classifier singles out.
	ChannelSecondary Channel = "secondary"
)

// Classifier decides which visual channel a dataset is routed to. Routing
// is a policy decision; callers inject it so the rule is explicit and
// testable rather than buried in the reshaping step.
type Classifier func(Dataset) Channel

// DefaultClassifier routes series whose name contains "Revenue" to the
// secondary channel and everything else to the primary channel. This
// preserves the dashboard's long-standing convention of charting revenue
// against its own axis.
func DefaultClassifier(d Dataset) Channel {
	if strings.Contains(d.Name, "Revenue") {
		return ChannelSecondary
	}
	return ChannelPrimary
}

// palette is cycled deterministically for datasets without an explicit
// color. Values are chart-theme tokens, resolved by the rendering layer.
var palette = []string{
	"chart-1",
	"chart-2",
	"chart-3",
	"chart-4",
	"chart-5",
	"chart-6",
}

// PaletteColor returns the deterministic fallback color for the dataset at
// the given index.
func PaletteColor(index int) string {
	return palette[index%len(palette)]
}

// validate checks the structural invariants of a labeled series: every
// dataset the same length as the labels, no duplicate names, no name
// colliding with the reserved category key.
func validate(in LabeledSeries) error {
	seen := make(map[string]struct{}, len(in.Datasets))
	for _, d := range in.Datasets {
		if d.Name == categoryKey {
			return fmt.Errorf("dataset %q: %w", d.Name, errors.ErrDuplicateSeries)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("dataset %q: %w", d.Name, errors.ErrDuplicateSeries)
		}
		seen[d.Name] = struct{}{}

		if len(d.Data) != len(in.Labels) {
			return fmt.Errorf("dataset %q has %d values for %d labels: %w",
				d.Name, len(d.Data), len(in.Labels), errors.ErrLengthMismatch)
		}
	}
	return nil
}

// Reshape converts a labeled series into one row per label, preserving
// label order. Duplicate dataset names and label/data length mismatches are
// rejected rather than silently overwriting.
func Reshape(in LabeledSeries) ([]Row, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	rows := make([]Row, len(in.Labels))
	for i, label := range in.Labels {
		row := make(Row, len(in.Datasets)+1)
		row[categoryKey] = label
		for _, d := range in.Datasets {
			row[d.Name] = d.Data[i]
		}
		rows[i] = row
	}
	return rows, nil
}

// Series is the per-series metadata a charting collaborator needs alongside
// the rows: the row key, its visual channel, and its resolved color.
type Series struct {
	Name    string  `json:"name"`
	Channel Channel `json:"channel"`
	Color   string  `json:"color"`
}

// Chart is the complete reshaped payload: rows plus series metadata in
// dataset order.
type Chart struct {
	Rows   []Row    `json:"rows"`
	Series []Series `json:"series"`
}

// Build reshapes the input and resolves per-series routing and colors. A
// nil classifier falls back to DefaultClassifier. Explicit dataset colors
// win over the palette.
func Build(in LabeledSeries, classify Classifier) (Chart, error) {
	if classify == nil {
		classify = DefaultClassifier
	}

	rows, err := Reshape(in)
	if err != nil {
		return Chart{}, err
	}

	series := make([]Series, len(in.Datasets))
	for i, d := range in.Datasets {
		color := d.Color
		if color == "" {
			color = PaletteColor(i)
		}
		series[i] = Series{
			Name:    d.Name,
			Channel: classify(d),
			Color:   color,
		}
	}
	return Chart{Rows: rows, Series: series}, nil
}
