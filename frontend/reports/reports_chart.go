package reports

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SeriesChartOption is the ECharts option for the close line over volume bars.
// Tooltip and axis label formatters are attached in the page script.
func SeriesChartOption(s Series) map[string]any {
	rotate := 0
	if len(s.Points) > 10 {
		rotate = 45
	}
	return map[string]any{
		"grid":    map[string]any{"top": 50, "bottom": 50, "left": 60, "right": 60, "containLabel": true},
		"tooltip": map[string]any{"trigger": "axis", "axisPointer": map[string]any{"type": "line", "snap": true}},
		"legend":  map[string]any{"data": []string{"Close", "Volume"}, "top": 10},
		"xAxis": map[string]any{
			"type":      "category",
			"data":      s.Dates(),
			"axisTick":  map[string]any{"show": false},
			"axisLabel": map[string]any{"rotate": rotate},
		},
		"yAxis": []map[string]any{
			{"type": "value", "name": "Close", "position": "left", "min": 0, "max": s.CloseAxisMax().InexactFloat64()},
			{"type": "value", "name": "Volume", "position": "right", "min": 0, "max": s.VolumeAxisMax().InexactFloat64(), "splitLine": map[string]any{"show": false}},
		},
		"series": []map[string]any{
			{"name": "Close", "type": "line", "smooth": true, "data": floats(s.Closes()), "areaStyle": map[string]any{"opacity": 0.2}},
			{"name": "Volume", "type": "bar", "yAxisIndex": 1, "data": floats(s.Volumes()), "itemStyle": map[string]any{"opacity": 0.7}},
		},
	}
}

// BreakdownChartOption is the ECharts doughnut for one record's prices.
func BreakdownChartOption(slices []Slice) map[string]any {
	data := make([]map[string]any, len(slices))
	for i, sl := range slices {
		data[i] = map[string]any{"id": sl.ID, "name": sl.Name, "value": sl.Value.InexactFloat64()}
	}
	return map[string]any{
		"tooltip": map[string]any{"trigger": "item"},
		"legend":  map[string]any{"bottom": 0},
		"series": []map[string]any{
			{"type": "pie", "radius": []string{"45%", "70%"}, "avoidLabelOverlap": true, "data": data},
		},
	}
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

func marshalOption(option map[string]any) (string, error) {
	raw, err := json.Marshal(option)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
