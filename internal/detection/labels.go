package detection

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// symbolClasses maps class index to P&ID symbol name. It is the label
// vocabulary of the heuristic strategy and the default label table for
// models shipped without one.
var symbolClasses = [...]string{
	"pipe_coupling",
	"gate_valve",
	"globe_valve",
	"ball_valve",
	"check_valve",
	"butterfly_valve",
	"control_valve",
	"relief_valve",
	"needle_valve",
	"three_way_valve",
	"instrument_field",
	"instrument_panel",
	"instrument_dcs",
	"instrument_plc",
	"equipment_tag",
	"line_number_tag",
	"pump",
	"compressor",
	"heat_exchanger",
	"vessel",
	"reducer",
	"flange",
	"blind_flange",
	"strainer",
	"off_page_connector",
}

// NumClasses returns the size of the fixed symbol vocabulary.
func NumClasses() int {
	return len(symbolClasses)
}

// ClassName returns the symbol name for a class index.
// ok is false when index is outside the vocabulary.
func ClassName(index int) (name string, ok bool) {
	if index < 0 || index >= len(symbolClasses) {
		return "", false
	}
	return symbolClasses[index], true
}

// SymbolClasses returns a copy of the fixed vocabulary in index order.
func SymbolClasses() []string {
	out := make([]string, len(symbolClasses))
	copy(out, symbolClasses[:])
	return out
}

// LoadLabels reads a label table with one class name per line. Blank lines
// and lines starting with '#' are skipped. An empty path yields the fixed
// symbol vocabulary.
func LoadLabels(path string) ([]string, error) {
	if path == "" {
		return SymbolClasses(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label table: %w", err)
	}
	defer f.Close()

	labels := make([]string, 0, 80)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label table: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label table %s is empty", path)
	}

	return labels, nil
}

// labelFor resolves a class index against a label table, falling back to
// "class_<n>" when the model emits an index the table does not cover.
func labelFor(labels []string, index int) string {
	if index >= 0 && index < len(labels) {
		return labels[index]
	}
	return fmt.Sprintf("class_%d", index)
}
