package output

import "encoding/json"

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format renders a tool result as JSON.
func (f *JSONFormatter) Format(result any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
