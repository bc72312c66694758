package abacfile

import (
	"fmt"
	"io"
	"os"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// ReadFile reads a system from path.
func ReadFile(path string) (*System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sys, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sys, nil
}

// Read reads a system from r.
func Read(r io.Reader) (*System, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// WriteFile writes s to path as indented JSON.
func WriteFile(path string, s *System) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes s to w as indented JSON.
func Write(w io.Writer, s *System) error {
	data, err := ToJSON(s, true)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadModelFile reads a single-chart document from path.
func ReadModelFile(path string) (*abac.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteModelFile writes a single-chart document to path.
func WriteModelFile(path string, m *abac.Model) error {
	data, err := ModelToJSON(m, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
