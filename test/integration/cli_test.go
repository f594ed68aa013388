package integration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

// cefrtagBin is the path to the compiled binary, set by TestMain.
var cefrtagBin string

func TestMain(m *testing.M) {
	// Build binary once for all tests.
	tmp, err := os.MkdirTemp("", "cefrtag-integration-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	cefrtagBin = filepath.Join(tmp, "cefrtag")
	cmd := exec.Command("go", "build", "-o", cefrtagBin, "./cmd/cefrtag/")
	cmd.Dir = findModuleRoot()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.RemoveAll(tmp)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// =============================================================================
// Helpers
// =============================================================================

const vocabularyJSON = `{
  "A1": ["a/an", "apple", "car", "turn off"],
  "A2": ["stick (piece of wood)"],
  "B1": ["car", "doctor / Dr"]
}`

// findModuleRoot walks up from cwd to find go.mod.
func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("go.mod not found")
		}
		dir = parent
	}
}

// setupProject creates a temp dir holding vocabulary.json, the default file source.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vocabulary.json"), vocabularyJSON)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func command(dir string, args ...string) *exec.Cmd {
	cmd := exec.Command(cefrtagBin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "CEFRTAG_CONFIG=")
	return cmd
}

// runCLI executes the binary in dir with args, returns stdout, stderr, exit code.
func runCLI(t *testing.T, dir, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := command(dir, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("exec error (not ExitError): %v", err)
		}
	}
	return
}

type report struct {
	Text        string              `json:"text"`
	TaggedWords map[string][]string `json:"tagged_words"`
	Stats       struct {
		TotalTagged int            `json:"total_tagged"`
		ByLevel     map[string]int `json:"by_level"`
	} `json:"stats"`
}

func decodeReport(t *testing.T, stdout string) report {
	t.Helper()
	var r report
	if err := json.Unmarshal([]byte(stdout), &r); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	return r
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// One-shot commands
// =============================================================================

func TestTag_Args(t *testing.T) {
	dir := setupProject(t)
	stdout, stderr, exit := runCLI(t, dir, "", "tag", "--json", "An apple and a stick by the car.")
	if exit != 0 {
		t.Fatalf("exit %d: %s", exit, stderr)
	}

	r := decodeReport(t, stdout)
	if want := []string{"An -> a/an", "a -> a/an", "apple", "car"}; !equalStrings(r.TaggedWords["A1"], want) {
		t.Errorf("A1 = %v, want %v", r.TaggedWords["A1"], want)
	}
	if want := []string{"stick -> stick (piece of wood)"}; !equalStrings(r.TaggedWords["A2"], want) {
		t.Errorf("A2 = %v, want %v", r.TaggedWords["A2"], want)
	}
	if r.Stats.TotalTagged != 6 {
		t.Errorf("total_tagged = %d, want 6", r.Stats.TotalTagged)
	}
}

func TestTag_Stdin(t *testing.T) {
	dir := setupProject(t)
	stdout, stderr, exit := runCLI(t, dir, "The doctor drove the car.\n", "tag")
	if exit != 0 {
		t.Fatalf("exit %d: %s", exit, stderr)
	}
	for _, want := range []string{"3 tagged", "A1  car", "B1  doctor -> doctor / Dr, car"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestTag_Phrases(t *testing.T) {
	dir := setupProject(t)

	stdout, _, _ := runCLI(t, dir, "", "tag", "--json", "Please turn off the light.")
	if r := decodeReport(t, stdout); r.Stats.TotalTagged != 0 {
		t.Errorf("phrases should be off by default, got %v", r.TaggedWords)
	}

	stdout, _, _ = runCLI(t, dir, "", "tag", "--json", "--phrases", "Please turn off the light.")
	r := decodeReport(t, stdout)
	if want := []string{"turn off"}; !equalStrings(r.TaggedWords["A1"], want) {
		t.Errorf("A1 = %v, want %v", r.TaggedWords["A1"], want)
	}
}

func TestTag_MissingVocabularyDegrades(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, exit := runCLI(t, dir, "", "tag", "an apple")
	if exit != 0 {
		t.Fatalf("missing vocabulary should not fail, exit %d: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "0 tagged") {
		t.Errorf("expected nothing tagged:\n%s", stdout)
	}
	if !strings.Contains(stderr, "vocab.source_unavailable") {
		t.Errorf("expected a source warning on stderr:\n%s", stderr)
	}
}

func TestTag_NoInput(t *testing.T) {
	dir := setupProject(t)
	cmd := command(dir, "tag")
	devnull, err := os.Open(os.DevNull)
	if err != nil {
		t.Skip("no /dev/null")
	}
	defer devnull.Close()
	cmd.Stdin = devnull // a character device, like a terminal
	if err := cmd.Run(); err == nil {
		t.Error("tag without text should fail")
	}
}

func TestStats_JSON(t *testing.T) {
	dir := setupProject(t)
	stdout, stderr, exit := runCLI(t, dir, "", "stats", "--json")
	if exit != 0 {
		t.Fatalf("exit %d: %s", exit, stderr)
	}

	var st struct {
		VocabularyStats map[string]int `json:"vocabulary_stats"`
		Levels          []string       `json:"levels"`
		TotalWords      int            `json:"total_words"`
	}
	if err := json.Unmarshal([]byte(stdout), &st); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if st.TotalWords != 7 || st.VocabularyStats["total"] != 7 {
		t.Errorf("total = %d / %d, want 7", st.TotalWords, st.VocabularyStats["total"])
	}
	if !equalStrings(st.Levels, []string{"A1", "A2", "B1"}) {
		t.Errorf("levels = %v", st.Levels)
	}
}

func TestCheck_SlashAndParenthetical(t *testing.T) {
	dir := setupProject(t)

	stdout, _, exit := runCLI(t, dir, "", "check", "Dr")
	if exit != 0 || !strings.Contains(stdout, "B1  doctor / Dr") {
		t.Errorf("check Dr: exit %d\n%s", exit, stdout)
	}

	stdout, _, _ = runCLI(t, dir, "", "check", "stick")
	if !strings.Contains(stdout, "A2  stick (piece of wood)") {
		t.Errorf("check stick:\n%s", stdout)
	}

	stdout, _, _ = runCLI(t, dir, "", "check", "zebra")
	if !strings.Contains(stdout, "not in vocabulary") {
		t.Errorf("check zebra:\n%s", stdout)
	}
}

func TestLevel(t *testing.T) {
	dir := setupProject(t)

	stdout, _, exit := runCLI(t, dir, "", "level", "a1", "--limit", "2")
	if exit != 0 {
		t.Fatalf("exit %d", exit)
	}
	for _, want := range []string{"A1 │ 4 entries", "a/an", "apple", "… 2 more"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	_, stderr, exit := runCLI(t, dir, "", "level", "C2")
	if exit == 0 {
		t.Error("unknown level should fail")
	}
	if !strings.Contains(stderr, "unknown level") {
		t.Errorf("stderr should name the error:\n%s", stderr)
	}
}

func TestBuiltinSource(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, exit := runCLI(t, dir, "", "--source", "builtin", "check", "car")
	if exit != 0 {
		t.Fatalf("exit %d: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "found 2 time(s)") {
		t.Errorf("builtin sample has car at A1 and B1:\n%s", stdout)
	}
}

func TestConfig_Show(t *testing.T) {
	dir := setupProject(t)
	stdout, _, exit := runCLI(t, dir, "", "--db", "other.db", "config")
	if exit != 0 {
		t.Fatalf("exit %d", exit)
	}
	for _, want := range []string{"kind: file", "db_path: other.db", "port: 8080"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config missing %q:\n%s", want, stdout)
		}
	}
}

// =============================================================================
// bbolt import
// =============================================================================

func TestImport_ThenServeFromBolt(t *testing.T) {
	dir := setupProject(t)

	stdout, stderr, exit := runCLI(t, dir, "", "import", "vocabulary.json", "--db", "v.db", "--name", "core")
	if exit != 0 {
		t.Fatalf("import exit %d: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "3 levels │ 7 entries") {
		t.Errorf("import summary:\n%s", stdout)
	}

	// The file is no longer needed once imported.
	os.Remove(filepath.Join(dir, "vocabulary.json"))

	stdout, stderr, exit = runCLI(t, dir, "", "--source", "bolt", "--db", "v.db", "--name", "core", "tag", "--json", "a car")
	if exit != 0 {
		t.Fatalf("tag exit %d: %s", exit, stderr)
	}
	r := decodeReport(t, stdout)
	if !equalStrings(r.TaggedWords["B1"], []string{"car"}) {
		t.Errorf("B1 = %v", r.TaggedWords["B1"])
	}

	stdout, _, _ = runCLI(t, dir, "", "sources", "--db", "v.db")
	if !strings.Contains(stdout, "core") || !strings.Contains(stdout, "7 entries") {
		t.Errorf("sources:\n%s", stdout)
	}

	runCLI(t, dir, "", "sources", "--db", "v.db", "--delete", "core")
	stdout, _, _ = runCLI(t, dir, "", "sources", "--db", "v.db")
	if !strings.Contains(stdout, "no vocabularies") {
		t.Errorf("sources after delete:\n%s", stdout)
	}
}

// =============================================================================
// HTTP service
// =============================================================================

// startServe runs `cefrtag serve` on a free port and returns its base URL.
func startServe(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := command(dir, append([]string{"serve", "--port", "0"}, args...)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cmd.Process.Signal(syscall.SIGINT)
		done := make(chan struct{})
		go func() { cmd.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			cmd.Process.Kill()
		}
	})

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(stdout)
		if sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	select {
	case line, ok := <-lines:
		if !ok {
			t.Fatal("serve exited before announcing its address")
		}
		start := strings.Index(line, "http://")
		if start < 0 {
			t.Fatalf("no URL in %q", line)
		}
		return strings.Fields(line[start:])[0]
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not start in time")
	}
	return ""
}

func TestServe_HealthAndTag(t *testing.T) {
	dir := setupProject(t)
	base := startServe(t, dir)

	resp, err := http.Get(base + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	var h struct {
		Status  string `json:"status"`
		Entries int    `json:"entries"`
	}
	json.NewDecoder(resp.Body).Decode(&h)
	resp.Body.Close()
	if h.Status != "ok" || h.Entries != 7 {
		t.Errorf("health = %+v", h)
	}

	resp, err = http.Post(base+"/api/v1/vocabulary/tag", "application/json", strings.NewReader(`{"text":"An apple"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}
	var r report
	json.NewDecoder(resp.Body).Decode(&r)
	if !equalStrings(r.TaggedWords["A1"], []string{"An -> a/an", "apple"}) {
		t.Errorf("A1 = %v", r.TaggedWords["A1"])
	}
}

func TestServe_WatchPicksUpEdits(t *testing.T) {
	dir := setupProject(t)
	base := startServe(t, dir, "--watch")

	check := func() bool {
		resp, err := http.Post(base+"/api/v1/vocabulary/check-word?word=pear", "application/json", nil)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var res struct {
			Found bool `json:"found"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		return res.Found
	}
	if check() {
		t.Fatal("pear should not be known yet")
	}

	writeFile(t, filepath.Join(dir, "vocabulary.json"), `{"A1": ["apple", "pear"]}`)

	deadline := time.Now().Add(5 * time.Second)
	for !check() {
		if time.Now().After(deadline) {
			t.Fatal("edit was not picked up")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
