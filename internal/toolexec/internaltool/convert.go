package internaltool

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// fileConversion translates between JSON, CSV and YAML. The "auto"
// conversion sniffs the source format instead of requiring the caller
// to name it.
func fileConversion(inputs map[string]any) domain.ToolResult {
	data, _ := inputs["data"].(string)
	if data == "" {
		return failure("MISSING_INPUT", "No data provided")
	}
	conversion, _ := inputs["conversion"].(string)
	if conversion == "" {
		conversion = "auto"
	}

	switch conversion {
	case "json_to_csv":
		return jsonToCSV(data)
	case "csv_to_json":
		return csvToJSON(data)
	case "json_to_yaml":
		return jsonToYAML(data)
	case "yaml_to_json":
		return yamlToJSON(data)
	case "auto":
		return autoConvert(data, inputs)
	default:
		return failure("UNKNOWN_CONVERSION", fmt.Sprintf("Unknown conversion: %s", conversion))
	}
}

// autoConvert detects the source format and picks a sensible target
// when the caller names none: JSON flips to YAML, everything else
// lands on JSON.
func autoConvert(data string, inputs map[string]any) domain.ToolResult {
	src := detectFormat(data)
	target, _ := inputs["target"].(string)
	if target == "" {
		if src == "json" {
			target = "yaml"
		} else {
			target = "json"
		}
	}

	switch src + "_to_" + target {
	case "json_to_csv":
		return jsonToCSV(data)
	case "csv_to_json":
		return csvToJSON(data)
	case "json_to_yaml":
		return jsonToYAML(data)
	case "yaml_to_json":
		return yamlToJSON(data)
	default:
		return failure("UNKNOWN_CONVERSION", fmt.Sprintf("Unsupported conversion: %s to %s", src, target))
	}
}

// detectFormat sniffs the payload. YAML has no magic bytes, so it is
// the fallback for anything that is neither JSON nor CSV.
func detectFormat(data string) string {
	mtype := mimetype.Detect([]byte(data))
	switch {
	case mtype.Is("application/json"):
		return "json"
	case mtype.Is("text/csv"):
		return "csv"
	default:
		return "yaml"
	}
}

// jsonToCSV writes one row per object with a header of the first
// object's keys, sorted so output is stable.
func jsonToCSV(data string) domain.ToolResult {
	var parsed any
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		return failure("CONVERSION_ERROR", fmt.Sprintf("Conversion failed: %v", err))
	}
	list, ok := parsed.([]any)
	if !ok || len(list) == 0 {
		return failure("INVALID_DATA", "Data must be a non-empty list of objects")
	}
	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, isObj := item.(map[string]any)
		if !isObj {
			return failure("INVALID_DATA", "Data must be a non-empty list of objects")
		}
		rows = append(rows, obj)
	}

	headers := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(headers)
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = formatCell(row[h])
		}
		_ = w.Write(record)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return failure("CONVERSION_ERROR", fmt.Sprintf("Conversion failed: %v", err))
	}
	return success(map[string]any{"csv": buf.String(), "rows": len(rows)})
}

func csvToJSON(data string) domain.ToolResult {
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return failure("CONVERSION_ERROR", fmt.Sprintf("Conversion failed: %v", err))
	}
	if len(records) == 0 {
		return failure("INVALID_DATA", "Data must contain a header row")
	}
	headers := records[0]
	rows := make([]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		obj := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				obj[h] = rec[i]
			}
		}
		rows = append(rows, obj)
	}
	return success(map[string]any{"json": rows, "rows": len(rows)})
}

func jsonToYAML(data string) domain.ToolResult {
	var parsed any
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		return failure("CONVERSION_ERROR", fmt.Sprintf("Conversion failed: %v", err))
	}
	out, err := yaml.Marshal(parsed)
	if err != nil {
		return failure("CONVERSION_ERROR", fmt.Sprintf("Conversion failed: %v", err))
	}
	return success(map[string]any{"yaml": string(out)})
}

func yamlToJSON(data string) domain.ToolResult {
	var parsed any
	if err := yaml.Unmarshal([]byte(data), &parsed); err != nil {
		return failure("CONVERSION_ERROR", fmt.Sprintf("Conversion failed: %v", err))
	}
	return success(map[string]any{"json": parsed})
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
