package output

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	json2 "github.com/json-iterator/go"
	"github.com/touchgrass/cli/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	format := config.GetString("output.format")
	switch format {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Print outputs data in the configured format with optional title
func Print(title string, data interface{}) error {
	format := GetOutputFormat()

	switch format {
	case FormatJSON:
		return printJSON(title, data)
	default:
		return printText(title, data)
	}
}

// PrintList outputs a list/array in the configured format
func PrintList(title string, items interface{}, columns []string) error {
	format := GetOutputFormat()

	switch format {
	case FormatJSON:
		return printJSON(title, items)
	case FormatTable:
		if rows, ok := items.([][]string); ok {
			printTable(columns, rows)
			return nil
		}
		return printJSON(title, items)
	default:
		return printText(title, items)
	}
}

// PrintRecord outputs a single record (map/object) in the configured format
func PrintRecord(title string, record map[string]interface{}) error {
	format := GetOutputFormat()

	switch format {
	case FormatJSON:
		return printJSON(title, record)
	case FormatTable:
		headers := []string{"Field", "Value"}
		rows := make([][]string, 0, len(record))
		for k, v := range record {
			rows = append(rows, []string{k, fmt.Sprintf("%v", v)})
		}
		printTable(headers, rows)
		return nil
	default:
		if title != "" {
			fmt.Printf("%s:\n", title)
		}
		bold := color.New(color.Bold)
		for key, value := range record {
			bold.Print(key + ": ")
			fmt.Printf("%v\n", value)
		}
		return nil
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	colored := color.New(color.FgGreen)
	colored.Printf(msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	colored := color.New(color.FgRed)
	colored.Printf("Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	colored := color.New(color.FgCyan)
	colored.Printf(msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	colored := color.New(color.FgYellow)
	colored.Printf("Warning: "+msg+"\n", args...)
}

// Helper functions

func printJSON(title string, data interface{}) error {
	jsonStr, err := formatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	if title != "" {
		fmt.Printf("%s:\n", title)
	}
	fmt.Println(jsonStr)
	return nil
}

func printText(title string, data interface{}) error {
	if title != "" {
		fmt.Printf("%s:\n", title)
	}
	jsonStr, err := formatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	fmt.Println(jsonStr)
	return nil
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(color.Output, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

func formatAsPrettyJSON(data interface{}) (string, error) {
	marshaler := json2.ConfigDefault
	jsonData, err := marshaler.Marshal(data)
	if err != nil {
		return "", err
	}

	// Unmarshal and remarshal for pretty printing
	var obj interface{}
	if err := json.Unmarshal(jsonData, &obj); err != nil {
		return "", err
	}

	prettyJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", err
	}

	return string(prettyJSON), nil
}

// FormatAsJSON converts data to JSON string (convenience function)
func FormatAsJSON(data interface{}) (string, error) {
	marshaler := json2.ConfigDefault
	jsonData, err := marshaler.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// FormatAsPrettyJSON converts data to pretty JSON string (convenience function)
func FormatAsPrettyJSON(data interface{}) (string, error) {
	return formatAsPrettyJSON(data)
}
