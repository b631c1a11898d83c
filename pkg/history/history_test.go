package history

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/sealcal/pkg/calib"
	"github.com/gwillem/sealcal/pkg/seal"
)

const templateText = `1280 720
11.613286 4.421379
162 110
4 -80
1412.553101 1411.874512 651.228333 372.902405 -0.071338 0.231207 -0.000409 0.000612 -0.297815 0 0 0 1.25 0.5 0.125
2815.004639 2813.339111 628.516479 361.884888 -0.116352 0.491034 0.000322 -0.000187 -1.101223 0 0 0 28.377724 0.011272 1.662601
2800.0 2477.0 542.0 353.0 -0.22 -0.295 -0.000011 -0.000875 4.029662 -0.007206 -0.133619 -0.003511 28.377724 0.011272 1.662601
0 1 2 3
GRAY 1 1
2 7 16 3
***DevID:JMS1006207***CalibrateDate:2023-05-17_10-21-44***Type:Factory***SoftVersion:3.0.0.1116
`

func stereoResult(t *testing.T) *calib.Result {
	t.Helper()
	res, err := calib.FromArrays("test", map[string][]float64{
		calib.KeyKLeft:     {850.2, 0, 640, 0, 849.7, 360, 0, 0, 1},
		calib.KeyDistLeft:  {-0.12, 0.05, 0.0001, -0.0002, 0.3},
		calib.KeyKRight:    {851, 0, 641.5, 0, 850.4, 359.2, 0, 0, 1},
		calib.KeyDistRight: {-0.11, 0.04, 0.0002, -0.0001, 0.2},
		calib.KeyR:         {1, 0, 0, 0, 1, 0, 0, 0, 1},
		calib.KeyT:         {-60.5, 0, 0},
		calib.KeyImgSize:   {1280, 720},
		calib.KeyRMSError:  {0.42},
	})
	require.NoError(t, err)
	return res
}

func export(t *testing.T, tmpl *seal.Template) (*seal.Document, *calib.Result) {
	t.Helper()
	e, err := seal.NewExporter(*seal.DefaultConfig(), nil)
	require.NoError(t, err)
	res := stereoResult(t)
	doc, err := e.Export(res, tmpl)
	require.NoError(t, err)
	return doc, res
}

func TestNewRecord_Templated(t *testing.T) {
	tmpl, err := seal.ParseTemplate(strings.NewReader(templateText), nil)
	require.NoError(t, err)
	tmpl.Path = "factory.txt"

	doc, res := export(t, tmpl)
	rec := NewRecord("out/JMS1006207.txt", doc, res)

	sum := sha256.Sum256([]byte(templateText))
	assert.Equal(t, hex.EncodeToString(sum[:]), rec.TemplateSHA256)
	assert.Equal(t, "factory.txt", rec.TemplatePath)
	assert.False(t, rec.NonProduction)
	assert.Equal(t, "JMS1006207", rec.DevID)
	assert.Equal(t, "1280x720", rec.Resolution)
	assert.Equal(t, string(calib.VerdictExcellent), rec.Verdict)
	assert.True(t, rec.Stereo)
	assert.InDelta(t, 60.5, rec.BaselineMM, 1e-9)
	assert.Len(t, rec.RunID, 36)
}

func TestNewRecord_Untemplated(t *testing.T) {
	doc, res := export(t, nil)
	rec := NewRecord("out.txt", doc, res)
	assert.True(t, rec.NonProduction)
	assert.Empty(t, rec.TemplatePath)
	assert.Empty(t, rec.TemplateSHA256)
	assert.Equal(t, seal.UnknownDevID, rec.DevID)

	other := NewRecord("out.txt", doc, res)
	assert.NotEqual(t, rec.RunID, other.RunID)
}

func TestManifest_WriteRead(t *testing.T) {
	doc, res := export(t, nil)
	out := filepath.Join(t.TempDir(), "seal.txt")
	rec := NewRecord(out, doc, res)

	require.NoError(t, WriteManifest(rec))
	_, err := os.Stat(out + ".manifest.json")
	require.NoError(t, err)

	got, err := ReadManifest(ManifestPath(out))
	require.NoError(t, err)
	assert.Equal(t, rec.RunID, got.RunID)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.RMSError, got.RMSError)
	assert.True(t, got.NonProduction)

	_, err = ReadManifest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_InsertListGet(t *testing.T) {
	s := openTestStore(t)
	doc, res := export(t, nil)

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, dev := range []string{"A", "B", "A"} {
		rec := NewRecord("out.txt", doc, res)
		rec.DevID = dev
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Insert(rec))
		ids = append(ids, rec.RunID)
	}

	all, err := s.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].RunID, "newest first")

	onlyA, err := s.List("A", 0)
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	limited, err := s.List("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	got, err := s.Get(ids[1])
	require.NoError(t, err)
	assert.Equal(t, "B", got.DevID)
	assert.True(t, got.NonProduction)
	assert.True(t, got.Stereo)
	assert.True(t, base.Add(time.Minute).Equal(got.CreatedAt))

	_, err = s.Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Run ids are unique.
	dup := *got
	assert.Error(t, s.Insert(&dup))
}
