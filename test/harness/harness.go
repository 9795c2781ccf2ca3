package harness

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const binaryName = "teams-cache-clear"

// the binary is built once per test package and shared by every harness
var build struct {
	once sync.Once
	path string
	out  []byte
	err  error
}

// Harness runs the built binary against a private set of app-data folders.
type Harness struct {
	t        *testing.T
	tempDir  string
	fixtures *Fixtures
}

// Result is what one invocation printed and how it exited.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Messages []Message
}

func New(t *testing.T) *Harness {
	t.Helper()

	binary := binaryPath(t)

	tempDir, err := os.MkdirTemp("", binaryName+"-test-*")
	if err != nil {
		t.Fatalf("Could not make temp dir: %v", err)
	}
	t.Logf("Using %s (%s)", binary, tempDir)

	return &Harness{
		t:        t,
		tempDir:  tempDir,
		fixtures: NewFixtures(t, tempDir),
	}
}

func binaryPath(t *testing.T) string {
	t.Helper()

	build.once.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			build.err = err
			return
		}

		outDir, err := os.MkdirTemp("", binaryName+"-bin-*")
		if err != nil {
			build.err = err
			return
		}
		build.path = filepath.Join(outDir, binaryName)

		cmd := exec.Command("go", "build", "-o", build.path, ".")
		cmd.Dir = root
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		build.out, build.err = cmd.CombinedOutput()
	})

	if build.err != nil {
		t.Fatalf("Building %s failed: %v\n%s", binaryName, build.err, build.out)
	}
	return build.path
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func (h *Harness) TempDir() string {
	return h.tempDir
}

// Join builds a path inside the harness temp dir.
func (h *Harness) Join(elem ...string) string {
	return filepath.Join(append([]string{h.tempDir}, elem...)...)
}

func (h *Harness) Fixtures() *Fixtures {
	return h.fixtures
}

// LogPath is where the binary logs during tests.
func (h *Harness) LogPath() string {
	return h.Join("logs", binaryName+".log")
}

// Run executes a headless JSON run. --no-relaunch is always passed so
// nothing gets started on the test machine.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	res := h.exec(append([]string{"--json", "--no-relaunch"}, args...))
	res.Messages = ParseMessages(res.Stdout)
	return res
}

// RunPlain executes the binary for commands that print text.
func (h *Harness) RunPlain(args ...string) *Result {
	h.t.Helper()
	return h.exec(args)
}

func (h *Harness) exec(args []string) *Result {
	h.t.Helper()

	cmd := exec.Command(build.path, append([]string{"--log-file", h.LogPath()}, args...)...)
	cmd.Env = h.env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := &Result{}
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if exitErr, ok := err.(*exec.ExitError); ok {
		res.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		h.t.Logf("Could not run %s: %v", binaryName, err)
		res.ExitCode = -1
	}
	return res
}

// the binary only sees the fixture folders
func (h *Harness) env() []string {
	env := []string{
		"HOME=" + h.tempDir,
		"APPDATA=" + h.fixtures.RoamingAppData(),
		"LOCALAPPDATA=" + h.fixtures.LocalAppData(),
		"LANG=en_US.UTF-8",
	}
	if p, ok := os.LookupEnv("PATH"); ok {
		env = append(env, "PATH="+p)
	}
	return env
}

// ParseMessages picks the JSON lines out of stdout.
func ParseMessages(stdout string) []Message {
	var messages []Message

	sc := bufio.NewScanner(strings.NewReader(stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if msg, ok := ParseMessage(sc.Text()); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func (h *Harness) Cleanup() {
	os.RemoveAll(h.tempDir)
}
