// Command arucolite-dictgen turns a YAML marker table into Go source
// defining a tinygo.org/x/arucolite/dict.Dictionary, so a deployment
// can compile its real marker set in rather than loading it at
// runtime, the same way the frame dimensions are fixed at build time.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// sourceEntry describes one entry's four rotations as bit-grid strings,
// row-major, one character per cell ('0' or '1'), bits*bits characters
// each.
type sourceEntry struct {
	Name      string    `yaml:"name"`
	Rotations [4]string `yaml:"rotations"`
}

type sourceFile struct {
	Package string        `yaml:"package"`
	Bits    int           `yaml:"bits"`
	Entries []sourceEntry `yaml:"entries"`
}

func main() {
	in := flag.String("in", "", "input YAML dictionary table")
	out := flag.String("out", "", "output Go source path")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "arucolite-dictgen: -in and -out are required")
		os.Exit(2)
	}

	if err := run(*in, *out); err != nil {
		fmt.Fprintln(os.Stderr, "arucolite-dictgen:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	var sf sourceFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parsing %s: %w", inPath, err)
	}
	if sf.Package == "" {
		sf.Package = "main"
	}

	entries, err := toByteEntries(sf)
	if err != nil {
		return err
	}

	src, err := renderSource(sf.Package, sf.Bits, entries)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, src, 0o644)
}

// byteEntry is one dictionary entry's four rotations, already packed
// to bytes, ready to render as a Go byte-slice literal.
type byteEntry struct {
	Name      string
	Rotations [4][]byte
}

func toByteEntries(sf sourceFile) ([]byteEntry, error) {
	want := sf.Bits * sf.Bits
	out := make([]byteEntry, 0, len(sf.Entries))
	for _, e := range sf.Entries {
		var be byteEntry
		be.Name = e.Name
		for r, bits := range e.Rotations {
			if len(bits) != want {
				return nil, fmt.Errorf("entry %q rotation %d: want %d bits, got %d", e.Name, r, want, len(bits))
			}
			packed, err := packBitString(bits)
			if err != nil {
				return nil, fmt.Errorf("entry %q rotation %d: %w", e.Name, r, err)
			}
			be.Rotations[r] = packed
		}
		out = append(out, be)
	}
	return out, nil
}

func packBitString(bits string) ([]byte, error) {
	out := make([]byte, (len(bits)+7)/8)
	for i, c := range bits {
		var bit byte
		switch c {
		case '0':
			bit = 0
		case '1':
			bit = 1
		default:
			return nil, fmt.Errorf("bit %d: expected '0' or '1', got %q", i, c)
		}
		out[i/8] |= bit << uint(7-i%8)
	}
	return out, nil
}

const sourceTemplate = `// Code generated by arucolite-dictgen. DO NOT EDIT.

package {{.Package}}

import "tinygo.org/x/arucolite/dict"

// Dictionary is the generated marker table.
var Dictionary = dict.New({{.Bits}}, []dict.Entry{
{{- range .Entries}}
	{ // {{.Name}}
		{{- range .Rotations}}
		{ {{bytesLiteral .}} },
		{{- end}}
	},
{{- end}}
})
`

func renderSource(pkg string, bits int, entries []byteEntry) ([]byte, error) {
	tmpl := template.Must(template.New("dict").Funcs(template.FuncMap{
		"bytesLiteral": bytesLiteral,
	}).Parse(sourceTemplate))

	var buf bytes.Buffer
	data := struct {
		Package string
		Bits    int
		Entries []byteEntry
	}{pkg, bits, entries}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}

func bytesLiteral(b []byte) string {
	var buf bytes.Buffer
	for i, v := range b {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "0x%02x", v)
	}
	return buf.String()
}
