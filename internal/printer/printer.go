package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const indent = "    "

// JSONPrinter writes values as indented JSON with sorted object keys.
type JSONPrinter struct {
	out io.Writer
}

func NewJSONPrinter(out io.Writer) *JSONPrinter {
	return &JSONPrinter{out: out}
}

func NewStdoutPrinter() *JSONPrinter {
	return NewJSONPrinter(os.Stdout)
}

func (p *JSONPrinter) Print(object interface{}) error {
	data, err := json.MarshalIndent(object, "", indent)
	if err != nil {
		return fmt.Errorf("while marshaling object: %w", err)
	}

	data = append(data, '\n')
	if _, err = p.out.Write(data); err != nil {
		return fmt.Errorf("while writing %d bytes: %w", len(data), err)
	}
	return nil
}
