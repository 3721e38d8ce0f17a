package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/config/data"
	"github.com/a1s/ntable/internal/dao"
	"github.com/a1s/ntable/internal/params"
)

const sample = `ntable:
  binding: users with userCols
  ui:
    enableMouse: true
  logger:
    level: debug
params:
  users:
    page: 2
    count: 5
    counts: [5, 10]
    sorting:
      - column: name
        dir: desc
    filter:
      name: jo
    filterDelay: 300ms
    defaultSort: desc
    data:
      - name: joe
      - name: john
  logs:
    source: s3:bucket/logs/
columns:
  userCols:
    - field: name
      title: Name
      sortable: name
      filter:
        name: text
    - field: age
      show: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ntable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigLoad(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Load(writeConfig(t, sample), true))

	assert.Equal(t, "users with userCols", cfg.Ntable.Binding)
	assert.True(t, cfg.Ntable.UI.EnableMouse)
	assert.Equal(t, data.DefaultMaxPageButtons, cfg.Ntable.UI.MaxPageButtons)
	assert.Equal(t, "debug", cfg.Ntable.Logger.Level)

	timeout, err := cfg.Ntable.GetAPITimeout()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPITimeout, timeout)

	p := cfg.Params["users"]
	require.NotNil(t, p)
	assert.Equal(t, params.Sorting{{Column: "name", Dir: params.Desc}}, p.Sorting)
	assert.Equal(t, params.Filter{"name": "jo"}, p.Filter)

	s := p.Settings(nil)
	assert.Equal(t, 300*time.Millisecond, s.FilterDelay)
	assert.Equal(t, []int{5, 10}, s.Counts)
	assert.Equal(t, params.Desc, s.DefaultSort)
	assert.Len(t, s.Data, 2)

	pp := params.New(s, p.Options()...)
	assert.Equal(t, 2, pp.Page())
	assert.Equal(t, 5, pp.Count())
	assert.Equal(t, "jo", pp.Filter()["name"])

	cols := cfg.Columns["userCols"]
	require.Len(t, cols, 2)
	assert.Equal(t, column.Decl{"field": "name", "title": "Name", "sortable": "name", "filter": map[string]any{"name": "text"}}, cols[0])
}

func TestConfigLoadMissing(t *testing.T) {
	cfg := NewConfig()
	path := filepath.Join(t.TempDir(), "nope.yaml")
	require.NoError(t, cfg.Load(path, false))

	err := cfg.Load(path, true)
	assert.True(t, errdefs.IsNotFound(err))
}

func TestConfigValidate(t *testing.T) {
	uu := map[string]struct {
		preset string
	}{
		"delay":   {preset: "filterDelay: soon"},
		"sort":    {preset: "defaultSort: up"},
		"sorting": {preset: "sorting: [{column: name, dir: sideways}]"},
		"counts":  {preset: "counts: [0]"},
		"source":  {preset: "source: ftp:x"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			cfg := NewConfig()
			err := cfg.Load(writeConfig(t, "params:\n  bad:\n    "+u.preset+"\n"), true)
			require.Error(t, err)
			assert.True(t, errdefs.IsInvalidArgument(err), err.Error())
			assert.Contains(t, err.Error(), `params "bad"`)
		})
	}
}

func TestConfigResolve(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Load(writeConfig(t, sample), true))

	tb, err := cfg.Resolve("users with userCols")
	require.NoError(t, err)
	assert.Equal(t, "users", tb.Binding.Params)
	assert.Len(t, tb.Columns, 2)

	tb.Preset.Page = 9
	assert.Equal(t, 2, cfg.Params["users"].Page, "resolved preset is a copy")

	for _, expr := range []string{"users", "nope with userCols", "users with nope"} {
		_, err := cfg.Resolve(expr)
		assert.True(t, errdefs.IsInvalidArgument(err), expr)
	}
}

func TestConfigRefine(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Load(writeConfig(t, sample), true))

	aliases := NewAliases()
	aliases.Alias["u"] = "users with userCols"

	flags := NewFlags()
	*flags.Binding = "u"
	*flags.Count = 10
	*flags.Headless = true

	tb, err := cfg.Refine(flags, aliases, aws.ProfileFiles{})
	require.NoError(t, err)
	assert.Equal(t, 10, tb.Preset.Count)
	assert.Equal(t, 2, tb.Preset.Page)
	assert.True(t, cfg.Ntable.IsHeadless())

	src, err := tb.Preset.SourceSpec()
	require.NoError(t, err)
	assert.Equal(t, dao.InlineSource, src.Kind)
}

func TestConfigRefineS3Profile(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Load(writeConfig(t, sample+"  logCols:\n    - field: key\n"), true))

	dir := t.TempDir()
	conf := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(conf, []byte("[profile ops]\nregion = eu-west-3\n"), 0o600))
	files := aws.ProfileFiles{ConfigPath: conf}

	flags := NewFlags()
	*flags.Binding = "logs with logCols"
	*flags.Profile = "ops"
	_, err := cfg.Refine(flags, nil, files)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-3", cfg.Ntable.AWSSettings().Region)

	*flags.Profile = "ghost"
	_, err = cfg.Refine(flags, nil, files)
	assert.ErrorIs(t, err, aws.ErrInvalidProfile)
}

func TestAliasesAndHotKeys(t *testing.T) {
	dir := t.TempDir()
	ap := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(ap, []byte("aliases:\n  u: users with userCols\n"), 0o600))

	a := NewAliases()
	require.NoError(t, a.LoadFrom(ap))
	require.NoError(t, a.LoadFrom(filepath.Join(dir, "missing.yaml")))
	assert.Equal(t, "users with userCols", a.Get("u"))
	assert.Equal(t, "x with y", a.Get("x with y"))

	hp := filepath.Join(dir, "hotkeys.yaml")
	require.NoError(t, os.WriteFile(hp, []byte("hotKeys:\n  filter:\n    shortCut: f\n"), 0o600))
	h := NewHotKeys()
	require.NoError(t, h.LoadFrom(hp))
	assert.Equal(t, "f", h.Get(ActionFilter).ShortCut)
	assert.Equal(t, "n", h.Get(ActionNextPage).ShortCut)
	assert.Nil(t, h.Get("bogus"))
	assert.Contains(t, h.Names(), ActionQuit)
}

func TestInitLogLoc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "ntable", "ntable.log")

	require.NoError(t, InitLogLoc(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
