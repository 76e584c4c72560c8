// Package output renders command results for the cfgchain CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sagarc03/cfgchain"
)

// Entry is one resolved name in a listing. Err is set when resolution failed.
type Entry struct {
	Resolution cfgchain.Resolution
	Err        error
}

// Change describes a write made by set, unset, or a profile edit.
type Change struct {
	// Scope is "session" for instance variables or the profile name.
	Scope   string
	Name    string
	Value   any
	Removed bool
}

// Formatter formats results for output.
type Formatter interface {
	FormatValue(w io.Writer, name string, value any) error
	FormatList(w io.Writer, entries []Entry) error
	FormatExplain(w io.Writer, res cfgchain.Resolution) error
	FormatChange(w io.Writer, change Change) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, names []string, active string) error
	FormatProfileShow(w io.Writer, name string, settings map[string]any, active, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatValue prints the bare value so it can be captured by scripts.
func (f *HumanFormatter) FormatValue(w io.Writer, _ string, value any) error {
	_, err := fmt.Fprintln(w, FormatAny(value))
	return err
}

// FormatList prints a NAME VALUE SOURCE table.
func (f *HumanFormatter) FormatList(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No variables defined")
		return nil
	}

	maxNameLen := 4 // "NAME"
	maxValueLen := 5
	values := make([]string, len(entries))
	for i := range entries {
		e := &entries[i]
		maxNameLen = max(maxNameLen, len(e.Resolution.Name))
		switch {
		case e.Err != nil:
			values[i] = "(error)"
		case !e.Resolution.Present:
			values[i] = "-"
		default:
			values[i] = truncate(FormatAny(e.Resolution.Value), 40)
		}
		maxValueLen = max(maxValueLen, len(values[i]))
	}

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", maxNameLen, "NAME", maxValueLen, "VALUE", "SOURCE")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxValueLen), strings.Repeat("-", 20))

	for i := range entries {
		e := &entries[i]
		source := e.Resolution.Source
		if e.Err != nil {
			source = e.Err.Error()
		}
		_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", maxNameLen, e.Resolution.Name, maxValueLen, values[i], source)
	}

	return nil
}

// FormatExplain shows the value and the provider that supplied it.
func (f *HumanFormatter) FormatExplain(w io.Writer, res cfgchain.Resolution) error {
	_, _ = fmt.Fprintf(w, "Name:   %s\n", res.Name)
	if !res.Present {
		_, _ = fmt.Fprintln(w, "Value:  (not set)")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Value:  %s\n", FormatAny(res.Value))
	_, _ = fmt.Fprintf(w, "Source: %s\n", res.Source)
	if res.Stage >= 0 {
		_, _ = fmt.Fprintf(w, "Stage:  %d\n", res.Stage)
	}
	return nil
}

func (f *HumanFormatter) FormatChange(w io.Writer, change Change) error {
	if f.Quiet {
		return nil
	}
	if change.Removed {
		_, _ = fmt.Fprintf(w, "Unset %s (%s)\n", change.Name, change.Scope)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Set %s = %s (%s)\n", change.Name, FormatAny(change.Value), change.Scope)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList lists profile names, marking the active one with an asterisk.
func (f *HumanFormatter) FormatProfileList(w io.Writer, names []string, active string) error {
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured.")
		return nil
	}
	for _, name := range names {
		marker := " "
		if name == active {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", marker, name)
	}
	return nil
}

// FormatProfileShow prints a profile's settings sorted by key.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, name string, settings map[string]any, active, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Profile: %s", name)
	if active {
		_, _ = fmt.Fprintf(w, " (active)")
	}
	_, _ = fmt.Fprintln(w)

	keys := sortedKeys(settings)
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %-*s  %s\n", width, k, maskSetting(k, FormatAny(settings[k]), showSecrets))
	}
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatValue(w io.Writer, name string, value any) error {
	return writeJSON(w, struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}{Name: name, Value: value})
}

// FormatList formats entries as JSON, with errors as strings.
func (f *JSONFormatter) FormatList(w io.Writer, entries []Entry) error {
	type jsonEntry struct {
		cfgchain.Resolution
		Error string `json:"error,omitempty"`
	}

	output := struct {
		Variables []jsonEntry `json:"variables"`
	}{
		Variables: make([]jsonEntry, len(entries)),
	}
	for i := range entries {
		je := jsonEntry{Resolution: entries[i].Resolution}
		if entries[i].Err != nil {
			je.Error = entries[i].Err.Error()
		}
		output.Variables[i] = je
	}

	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatExplain(w io.Writer, res cfgchain.Resolution) error {
	return writeJSON(w, res)
}

func (f *JSONFormatter) FormatChange(w io.Writer, change Change) error {
	output := struct {
		Scope   string `json:"scope"`
		Name    string `json:"name"`
		Value   any    `json:"value,omitempty"`
		Removed bool   `json:"removed"`
	}{
		Scope:   change.Scope,
		Name:    change.Name,
		Value:   change.Value,
		Removed: change.Removed,
	}
	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatProfileList(w io.Writer, names []string, active string) error {
	type jsonProfile struct {
		Name   string `json:"name"`
		Active bool   `json:"active,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(names)),
	}
	for i, name := range names {
		output.Profiles[i] = jsonProfile{Name: name, Active: name == active}
	}

	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatProfileShow(w io.Writer, name string, settings map[string]any, active, showSecrets bool) error {
	masked := make(map[string]any, len(settings))
	for k, v := range settings {
		if isSecretKey(k) && !showSecrets {
			masked[k] = maskSecret(FormatAny(v))
			continue
		}
		masked[k] = v
	}

	output := struct {
		Name     string         `json:"name"`
		Active   bool           `json:"active"`
		Settings map[string]any `json:"settings"`
	}{
		Name:     name,
		Active:   active,
		Settings: masked,
	}
	return writeJSON(w, output)
}

// FormatAny renders a value on one line: strings verbatim, nil as "null",
// maps and slices as compact JSON.
func FormatAny(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case map[string]any, []any, []string:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "secret") || strings.Contains(key, "token") || strings.Contains(key, "password")
}

func maskSetting(key, value string, showSecrets bool) string {
	if showSecrets || !isSecretKey(key) {
		return value
	}
	return maskSecret(value)
}

// maskSecret shows only the first and last 4 characters of a secret.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
