package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/outage-log/internal/config"
	"github.com/pfrederiksen/outage-log/internal/eventstore"
	"github.com/pfrederiksen/outage-log/internal/storage"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command tree against an isolated data directory
func runCLI(t *testing.T, dataDir, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--data-dir", dataDir}, args...)
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{config.EnvDataDir, config.EnvLogLevel, config.EnvEncryptionKey, config.EnvFormat, config.EnvBackend} {
		t.Setenv(key, "")
	}
	return t.TempDir()
}

func listJSON(t *testing.T, dataDir string, args ...string) OutputResult {
	t.Helper()
	res := runCLI(t, dataDir, "", append([]string{"list", "--format", "json"}, args...)...)
	if res.code != ExitSuccess {
		t.Fatalf("list exit code = %d, stderr: %s", res.code, res.stderr)
	}
	var out OutputResult
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, res.stdout)
	}
	return out
}

func recordFlags(city, damages string, extra ...string) []string {
	args := []string{"record", "--city", city, "--started-at", "01/06/2025 14:30", "--ended-at", "01/06/2025 18:00", "--damages", damages}
	return append(args, extra...)
}

func TestRecord_Interactive(t *testing.T) {
	dir := isolateEnv(t)

	answers := strings.Join([]string{
		"Downtown",
		"Springfield",
		"12345678",
		"01/06/2025 14:30",
		"n",
		"01/06/2025 18:00",
		"2 hours",
		"Fridge stopped",
	}, "\n") + "\n"

	res := runCLI(t, dir, answers, "record")
	if res.code != ExitSuccess {
		t.Fatalf("record exit code = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Success: Power outage event recorded.") {
		t.Errorf("missing success message, got %q", res.stdout)
	}

	out := listJSON(t, dir)
	if out.EventCount != 1 {
		t.Fatalf("EventCount = %d, want 1", out.EventCount)
	}
	evt := out.Events[0]
	if evt.Location.City != "Springfield" || evt.Location.Neighborhood != "Downtown" {
		t.Errorf("Location = %+v", evt.Location)
	}
	if evt.Location.PostalCode != "12345-678" {
		t.Errorf("PostalCode = %q, want 12345-678", evt.Location.PostalCode)
	}
	if evt.Window.Ongoing || evt.Window.EndedAt != "01/06/2025 18:00" {
		t.Errorf("Window = %+v", evt.Window)
	}
	if evt.Damages.Description != "Fridge stopped" {
		t.Errorf("Damages = %q", evt.Damages.Description)
	}
}

func TestRecord_InteractiveRepromptsMissingCity(t *testing.T) {
	dir := isolateEnv(t)

	answers := strings.Join([]string{
		"", "", "", // first location attempt, no city
		"", "Springfield", "",
		"22/06/2025 09:00", "y", "",
		"None",
	}, "\n") + "\n"

	res := runCLI(t, dir, answers, "record")
	if res.code != ExitSuccess {
		t.Fatalf("record exit code = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Required field: Please enter the affected city.") {
		t.Errorf("missing required-field notice, got %q", res.stdout)
	}

	out := listJSON(t, dir)
	if out.EventCount != 1 || !out.Events[0].Window.Ongoing {
		t.Fatalf("want one ongoing event, got %+v", out.Events)
	}
}

func TestRecord_InteractiveAbortedSavesNothing(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "Downtown\nSpringfield\n", "record")
	if res.code != ExitError {
		t.Fatalf("exit code = %d, want %d", res.code, ExitError)
	}
	if out := listJSON(t, dir); out.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", out.EventCount)
	}
}

func TestRecord_FromFlags(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "", recordFlags("Springfield", "Lost freezer contents", "--postal-code", "12345")...)
	if res.code != ExitSuccess {
		t.Fatalf("record exit code = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Recorded outage") {
		t.Errorf("stdout = %q", res.stdout)
	}

	out := listJSON(t, dir)
	if out.EventCount != 1 || out.Events[0].Location.PostalCode != "12345" {
		t.Fatalf("unexpected events: %+v", out.Events)
	}
}

func TestRecord_FromFlagsValidation(t *testing.T) {
	dir := isolateEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"blank city", recordFlags("  ", "None"), "Please enter the affected city."},
		{"no damages", []string{"record", "--city", "Springfield", "--ongoing", "--started-at", "now"}, "Please describe the damages"},
		{"no end while restored", []string{"record", "--city", "Springfield", "--started-at", "x", "--damages", "None"}, "Please enter the end date/time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, dir, "", tt.args...)
			if res.code != ExitError {
				t.Fatalf("exit code = %d, want %d", res.code, ExitError)
			}
			if !strings.Contains(res.stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", res.stderr, tt.want)
			}
		})
	}

	if out := listJSON(t, dir); out.EventCount != 0 {
		t.Errorf("invalid records were saved: %+v", out.Events)
	}
}

func TestList_Empty(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "", "list")
	if res.code != ExitSuccess {
		t.Fatalf("exit code = %d", res.code)
	}
	if !strings.Contains(res.stdout, "No outage events recorded yet.") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestList_TextAndFilter(t *testing.T) {
	dir := isolateEnv(t)

	for _, args := range [][]string{
		recordFlags("Springfield", "Roof damage", "--neighborhood", "Downtown"),
		recordFlags("Shelbyville", "None"),
	} {
		if res := runCLI(t, dir, "", args...); res.code != ExitSuccess {
			t.Fatalf("record failed: %s", res.stderr)
		}
	}

	res := runCLI(t, dir, "", "list")
	for _, want := range []string{
		"Power outage summary",
		"Location: Springfield, Downtown",
		"Location: Shelbyville",
		"End: 01/06/2025 18:00",
		"Damages: Roof damage",
		"Total: 2 events",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("list output missing %q:\n%s", want, res.stdout)
		}
	}

	out := listJSON(t, dir, "--filter", "city:springfield")
	if out.EventCount != 1 || out.Events[0].Location.City != "Springfield" {
		t.Errorf("filtered events = %+v", out.Events)
	}
	if out.Filter == "" {
		t.Error("Filter description should be set when filtering")
	}

	res = runCLI(t, dir, "", "list", "--filter", "city:Ogdenville")
	if !strings.Contains(res.stdout, "No outage events match the filter") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestList_InvalidOptions(t *testing.T) {
	dir := isolateEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"list", "--format", "xml"}, "invalid format"},
		{"sort", []string{"list", "--sort", "size"}, "invalid sort"},
		{"filter", []string{"list", "--filter", "colour:red"}, "parsing filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, dir, "", tt.args...)
			if res.code != ExitError {
				t.Fatalf("exit code = %d, want %d", res.code, ExitError)
			}
			if !strings.Contains(res.stderr, tt.want) {
				t.Errorf("stderr = %q, want %q", res.stderr, tt.want)
			}
		})
	}
}

func TestList_ICS(t *testing.T) {
	dir := isolateEnv(t)
	runCLI(t, dir, "", recordFlags("Springfield", "None")...)

	res := runCLI(t, dir, "", "list", "--format", "ics")
	if res.code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "BEGIN:VCALENDAR") || !strings.Contains(res.stdout, "DTSTART:20250601T143000Z") {
		t.Errorf("unexpected ICS:\n%s", res.stdout)
	}
}

func TestUpdate(t *testing.T) {
	dir := isolateEnv(t)
	runCLI(t, dir, "", "record", "--city", "Springfield", "--started-at", "01/06/2025 14:30", "--ongoing", "--damages", "None")

	before := listJSON(t, dir).Events[0]

	res := runCLI(t, dir, "", "update", "--id", before.ID, "--ongoing=false", "--ended-at", "01/06/2025 20:00", "--damages", "Spoiled food")
	if res.code != ExitSuccess {
		t.Fatalf("update exit code = %d, stderr: %s", res.code, res.stderr)
	}

	after := listJSON(t, dir).Events[0]
	if after.ID != before.ID || after.RecordedAt != before.RecordedAt {
		t.Errorf("identity changed: before %s/%s after %s/%s", before.ID, before.RecordedAt, after.ID, after.RecordedAt)
	}
	if after.Window.Ongoing || after.Window.EndedAt != "01/06/2025 20:00" {
		t.Errorf("Window = %+v", after.Window)
	}
	if after.Damages.Description != "Spoiled food" {
		t.Errorf("Damages = %q", after.Damages.Description)
	}
	if after.Location.City != "Springfield" {
		t.Errorf("unchanged field modified: %+v", after.Location)
	}
}

func TestUpdate_Failures(t *testing.T) {
	dir := isolateEnv(t)
	runCLI(t, dir, "", recordFlags("Springfield", "None")...)
	id := listJSON(t, dir).Events[0].ID

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown id", []string{"update", "--id", "missing", "--city", "X"}, "no outage event with id missing"},
		{"invalid result", []string{"update", "--id", id, "--city", " "}, "city"},
		{"missing id flag", []string{"update", "--city", "X"}, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, dir, "", tt.args...)
			if res.code != ExitError {
				t.Fatalf("exit code = %d, want %d", res.code, ExitError)
			}
			if !strings.Contains(res.stderr, tt.want) {
				t.Errorf("stderr = %q, want %q", res.stderr, tt.want)
			}
		})
	}

	if got := listJSON(t, dir).Events[0].Location.City; got != "Springfield" {
		t.Errorf("failed update modified the event: city = %q", got)
	}
}

func TestDeleteAndClear(t *testing.T) {
	dir := isolateEnv(t)
	runCLI(t, dir, "", recordFlags("Springfield", "None")...)
	runCLI(t, dir, "", recordFlags("Shelbyville", "None")...)

	events := listJSON(t, dir).Events
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}

	if res := runCLI(t, dir, "", "delete", "--id", events[0].ID); res.code != ExitSuccess {
		t.Fatalf("delete failed: %s", res.stderr)
	}
	if res := runCLI(t, dir, "", "delete", "--id", "not-there"); res.code != ExitSuccess {
		t.Errorf("deleting a missing id should succeed, stderr: %s", res.stderr)
	}
	if got := listJSON(t, dir).EventCount; got != 1 {
		t.Errorf("EventCount after delete = %d, want 1", got)
	}

	res := runCLI(t, dir, "", "clear")
	if res.code != ExitError || !strings.Contains(res.stderr, "--yes") {
		t.Errorf("clear without --yes: code %d, stderr %q", res.code, res.stderr)
	}

	if res := runCLI(t, dir, "", "clear", "--yes"); res.code != ExitSuccess {
		t.Fatalf("clear failed: %s", res.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, eventstore.StorageKey+".json")); !os.IsNotExist(err) {
		t.Errorf("storage file should be removed after clear, stat err = %v", err)
	}
	if got := listJSON(t, dir).EventCount; got != 0 {
		t.Errorf("EventCount after clear = %d, want 0", got)
	}
}

func TestEncryptionAtRest(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "", recordFlags("Springfield", "None", "--encryption-key", "correct horse")...)
	if res.code != ExitSuccess {
		t.Fatalf("record failed: %s", res.stderr)
	}

	raw, err := os.ReadFile(filepath.Join(dir, eventstore.StorageKey+".json"))
	if err != nil {
		t.Fatalf("reading storage file: %v", err)
	}
	if strings.Contains(string(raw), "Springfield") {
		t.Error("storage file contains plaintext with an encryption key set")
	}

	if got := listJSON(t, dir, "--encryption-key", "correct horse").EventCount; got != 1 {
		t.Errorf("EventCount with key = %d, want 1", got)
	}

	// Without the key the value cannot be decoded; list degrades to empty.
	if got := listJSON(t, dir).EventCount; got != 0 {
		t.Errorf("EventCount without key = %d, want 0", got)
	}
}

func TestSQLiteBackend(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "", recordFlags("Springfield", "None", "--backend", "sqlite")...)
	if res.code != ExitSuccess {
		t.Fatalf("record failed: %s", res.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, storage.SQLiteFile)); err != nil {
		t.Fatalf("sqlite database not created: %v", err)
	}

	if got := listJSON(t, dir, "--backend", "sqlite").EventCount; got != 1 {
		t.Errorf("EventCount on sqlite = %d, want 1", got)
	}
	// The file backend is a separate store.
	if got := listJSON(t, dir).EventCount; got != 0 {
		t.Errorf("EventCount on file backend = %d, want 0", got)
	}

	res = runCLI(t, dir, "", "list", "--backend", "redis")
	if res.code != ExitError || !strings.Contains(res.stderr, "invalid backend") {
		t.Errorf("unknown backend: code %d, stderr %q", res.code, res.stderr)
	}
}

func TestEnvironmentDefaults(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv(config.EnvFormat, "json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"list", "--data-dir", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(stdout.String()), "{") {
		t.Errorf("format from environment not applied: %q", stdout.String())
	}

	t.Setenv(config.EnvLogLevel, "loud")
	if code := run([]string{"list", "--data-dir", dir}, strings.NewReader(""), &stdout, &stderr); code != ExitError {
		t.Errorf("invalid env log level: exit code = %d, want %d", code, ExitError)
	}
}

func TestVerbosePrintsMetrics(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "", "--verbose", "list")
	if res.code != ExitSuccess {
		t.Fatalf("exit code = %d", res.code)
	}
	if !strings.Contains(res.stderr, `"message":"metrics"`) {
		t.Errorf("verbose run did not log metrics: %q", res.stderr)
	}
	if strings.Contains(res.stdout, `"level"`) {
		t.Error("log lines leaked into stdout")
	}
}

func TestTips(t *testing.T) {
	dir := isolateEnv(t)

	res := runCLI(t, dir, "", "tips")
	if res.code != ExitSuccess {
		t.Fatalf("exit code = %d", res.code)
	}
	for _, section := range tipSections {
		if !strings.Contains(res.stdout, section.Title) {
			t.Errorf("tips output missing section %q", section.Title)
		}
	}
}
