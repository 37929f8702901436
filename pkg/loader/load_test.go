package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/strata-config/strata/pkg/protocol"
)

// writeFiles writes the given name-to-content map into a fresh temp dir
// and returns the dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func isolated() *Options {
	return &Options{Snapshot: emptySnapshot()}
}

func TestLoad_FileLayering(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json":            `{"db": {"host": "base", "port": 5432}, "name": "app"}`,
		"app-production.json": `{"db": {"host": "prod-db"}}`,
		"app-local.json":      `{"db": {"port": 6543}}`,
	})

	opts := isolated()
	opts.Environment = "production"
	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := map[string]any{
		"db":   map[string]any{"host": "prod-db", "port": float64(6543)},
		"name": "app",
	}
	if !reflect.DeepEqual(cfg.Map(), want) {
		t.Errorf("expected %v, got %v", want, cfg.Map())
	}
}

func TestLoad_MissingFilesContributeNothing(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"a": 1}`,
	})

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), isolated())
	if err != nil {
		t.Fatalf("missing environment/local files must not fail the load: %v", err)
	}
	if got, _ := cfg.Get("a"); got != float64(1) {
		t.Errorf("expected base file value, got %v", got)
	}
}

func TestLoad_EntirelyMissingFiles(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), isolated())
	if err != nil {
		t.Fatalf("expected empty config for missing files, got error: %v", err)
	}
	if len(cfg.Map()) != 0 {
		t.Errorf("expected empty config, got %v", cfg.Map())
	}
}

func TestLoad_LaterSourcesWin(t *testing.T) {
	opts := isolated()
	opts.Defaults = []Source{
		Inline(map[string]any{"x": 1}),
		Inline(map[string]any{"x": 2, "y": 3}),
	}

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := map[string]any{"x": 2, "y": 3}
	if !reflect.DeepEqual(cfg.Map(), want) {
		t.Errorf("expected %v, got %v", want, cfg.Map())
	}
}

func TestLoad_ProviderAndListSources(t *testing.T) {
	opts := isolated()
	opts.Defaults = []Source{
		Provider(func(ctx context.Context) (map[string]any, error) {
			return map[string]any{"from": "provider", "p": true}, nil
		}),
		List(
			Inline(map[string]any{"from": "list-1"}),
			nil,
			Inline(map[string]any{"from": "list-2", "l": true}),
		),
	}

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got, _ := cfg.Get("from"); got != "list-2" {
		t.Errorf("expected later list entry to win, got %v", got)
	}
	if got, _ := cfg.Get("p"); got != true {
		t.Error("expected provider contribution to survive")
	}
	if got, _ := cfg.Get("l"); got != true {
		t.Error("expected list contribution to survive")
	}
}

func TestLoad_ProviderFailureIsFatal(t *testing.T) {
	boom := errors.New("provider exploded")
	opts := isolated()
	opts.Defaults = []Source{
		Provider(func(ctx context.Context) (map[string]any, error) {
			return nil, boom
		}),
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "app.json"), opts)
	if !errors.Is(err, boom) {
		t.Errorf("expected provider error to propagate, got %v", err)
	}
}

func TestLoad_ProviderNilResultContributesNothing(t *testing.T) {
	opts := isolated()
	opts.Defaults = []Source{
		Inline(map[string]any{"kept": 1}),
		Provider(func(ctx context.Context) (map[string]any, error) {
			return nil, nil
		}),
	}

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := cfg.Get("kept"); got != 1 {
		t.Errorf("expected earlier contribution kept, got %v", got)
	}
}

type bogusSource struct{}

func (bogusSource) configSource() {}

func TestLoad_InvalidSourceShape(t *testing.T) {
	opts := isolated()
	opts.Defaults = []Source{bogusSource{}}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "app.json"), opts)
	var invalidErr *InvalidSourceError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidSourceError, got %v", err)
	}
}

func TestLoad_MalformedJSONNamesPath(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"a": `,
	})
	path := filepath.Join(dir, "app.json")

	_, err := Load(context.Background(), path, isolated())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Source != path {
		t.Errorf("expected error to name %q, got %q", path, parseErr.Source)
	}
}

func TestLoad_JSONCommentsStripped(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{
			// base settings
			"a": 1, /* inline */
			"b": 2,
		}`,
	})

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), isolated())
	if err != nil {
		t.Fatalf("commented JSON must parse: %v", err)
	}
	if got, _ := cfg.Get("b"); got != float64(2) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestLoad_YAMLSources(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.yaml":         "db:\n  host: base\n  port: 5432\n",
		"app-staging.yaml": "db:\n  host: staging-db\n",
	})

	opts := isolated()
	opts.Environment = "staging"
	cfg, err := Load(context.Background(), filepath.Join(dir, "app.yaml"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got, _ := cfg.Get("db.host"); got != "staging-db" {
		t.Errorf("expected staging override, got %v", got)
	}
	if got, _ := cfg.Get("db.port"); got != 5432 {
		t.Errorf("expected base port, got %v", got)
	}
}

func TestLoad_EnvAndCommandLineOverrides(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"from": "file", "keep": true}`,
	})

	opts := &Options{
		Snapshot: NewSnapshot(
			[]string{"app", `--STRATA_CONFIG={"from": "flag"}`},
			envRuntime(map[string]string{"STRATA_CONFIG": `{"from": "env", "env_only": 1}`}),
		),
	}

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Command line wins over env, which wins over files.
	if got, _ := cfg.Get("from"); got != "flag" {
		t.Errorf("expected command-line override to win, got %v", got)
	}
	if got, _ := cfg.Get("env_only"); got != float64(1) {
		t.Errorf("expected env override merged, got %v", got)
	}
	if got, _ := cfg.Get("keep"); got != true {
		t.Error("expected unshadowed file value to survive")
	}
}

func TestLoad_ExcludeCommandLine(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"from": "file"}`,
	})

	opts := &Options{
		Snapshot: NewSnapshot([]string{"app", `--STRATA_CONFIG={"from": "flag"}`}, envRuntime(nil)),
		Exclude:  Exclude{CommandLine: true},
	}

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := cfg.Get("from"); got != "file" {
		t.Errorf("expected flag to be excluded, got %v", got)
	}
}

func TestLoad_ExplicitOverridesComeLast(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"from": "file"}`,
	})

	opts := &Options{
		Snapshot:  NewSnapshot([]string{"app", `--STRATA_CONFIG={"from": "flag"}`}, envRuntime(nil)),
		Overrides: []Source{Inline(map[string]any{"from": "override"})},
	}

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := cfg.Get("from"); got != "override" {
		t.Errorf("expected explicit overrides after the flag, got %v", got)
	}
}

func TestLoad_InlineSourceNotAliased(t *testing.T) {
	caller := map[string]any{"nested": map[string]any{"a": 1}}
	opts := isolated()
	opts.Defaults = []Source{
		Inline(caller),
		Inline(map[string]any{"nested": map[string]any{"a": 2}}),
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if caller["nested"].(map[string]any)["a"] != 1 {
		t.Error("caller-supplied map was mutated by the merge")
	}
}

func TestLoad_PathProtocol(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"cert": "path:../x"}`,
	})

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), isolated())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, _ := cfg.Get("cert")
	path, ok := got.(string)
	if !ok || !filepath.IsAbs(path) || !strings.HasSuffix(path, "/x") {
		t.Errorf("expected absolute path ending in /x, got %v", got)
	}
	if path != filepath.Join(filepath.Dir(dir), "x") {
		t.Errorf("expected path relative to the config dir, got %q", path)
	}
}

func TestLoad_UserProtocolOverridesBuiltin(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"v": "path:ignored", "w": "shout:hey"}`,
	})

	opts := isolated()
	opts.Protocols = map[string]protocol.Handler{
		"path": func(ctx context.Context, payload, dir string) (any, error) {
			return "overridden", nil
		},
		"shout": func(ctx context.Context, payload, dir string) (any, error) {
			return strings.ToUpper(payload), nil
		},
	}

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := cfg.Get("v"); got != "overridden" {
		t.Errorf("expected user handler to override built-in, got %v", got)
	}
	if got, _ := cfg.Get("w"); got != "HEY" {
		t.Errorf("expected additional user handler, got %v", got)
	}
}

func TestLoad_FinalizeReplaces(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"original": true}`,
	})

	replacement := map[string]any{"replaced": true}
	opts := isolated()
	opts.Finalize = func(ctx context.Context, cfg map[string]any) (map[string]any, error) {
		if cfg["original"] != true {
			t.Error("finalize expected the resolved config")
		}
		return replacement, nil
	}

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Map(), replacement) {
		t.Errorf("expected finalize replacement, got %v", cfg.Map())
	}
}

func TestLoad_FinalizeNilKeepsMutations(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"a": 1}`,
	})

	opts := isolated()
	opts.Finalize = func(ctx context.Context, cfg map[string]any) (map[string]any, error) {
		cfg["added"] = true
		return nil, nil
	}

	cfg, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := cfg.Get("added"); got != true {
		t.Error("expected hook mutation to be kept on nil return")
	}
}

func TestLoad_FinalizeFailureIsFatal(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{}`,
	})

	boom := errors.New("finalize failed")
	opts := isolated()
	opts.Finalize = func(ctx context.Context, cfg map[string]any) (map[string]any, error) {
		return nil, boom
	}

	_, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if !errors.Is(err, boom) {
		t.Errorf("expected finalize error, got %v", err)
	}
}

func TestLoadMap_ReturnsPlainData(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"a": 1}`,
	})

	data, err := LoadMap(context.Background(), filepath.Join(dir, "app.json"), isolated())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data["a"] != float64(1) {
		t.Errorf("expected plain map result, got %v", data)
	}
}

type recordingObserver struct {
	started   int
	finished  int
	sources   map[string]int
	protocols map[string]int
}

func (r *recordingObserver) LoadStarted(path, environment string) { r.started++ }

func (r *recordingObserver) LoadFinished(path string, duration time.Duration, err error) {
	r.finished++
}

func (r *recordingObserver) SourceResolved(kind string) {
	if r.sources == nil {
		r.sources = map[string]int{}
	}
	r.sources[kind]++
}

func (r *recordingObserver) ProtocolResolved(name string) {
	if r.protocols == nil {
		r.protocols = map[string]int{}
	}
	r.protocols[name]++
}

func TestLoad_ObserverCallbacks(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.json": `{"p": "path:x"}`,
	})

	obs := &recordingObserver{}
	opts := isolated()
	opts.Observer = obs

	_, err := Load(context.Background(), filepath.Join(dir, "app.json"), opts)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if obs.started != 1 || obs.finished != 1 {
		t.Errorf("expected one start/finish, got %d/%d", obs.started, obs.finished)
	}
	if obs.sources["file"] != 1 {
		t.Errorf("expected one file source observation, got %v", obs.sources)
	}
	if obs.protocols["path"] != 1 {
		t.Errorf("expected one path protocol observation, got %v", obs.protocols)
	}
}
