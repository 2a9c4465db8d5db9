package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/core"
)

func newLoader(t *testing.T, opts Options) *CSVLoader {
	t.Helper()
	l, err := NewCSVLoader(opts, zap.NewNop())
	require.NoError(t, err)
	return l
}

func TestCSVLoader_SMSLayout(t *testing.T) {
	req := require.New(t)

	data := "v1,v2,,,\n" +
		"ham,\"Go until jurong point, crazy..\",,,\n" +
		"spam,Free entry in 2 a wkly comp,,,\n" +
		"ham,Ok lar... Joking wif u oni\n"

	l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2", Encoding: "latin-1"})
	ds, err := l.Read(context.Background(), strings.NewReader(data), "sms.csv")
	req.NoError(err)

	req.Len(ds.Records, 3)
	req.Equal(core.Ham, ds.Records[0].Label)
	req.Equal("Go until jurong point, crazy..", ds.Records[0].Text)
	req.Equal(2, ds.Records[0].Line)
	req.Equal(core.Spam, ds.Records[1].Label)
	req.Equal([]int{0, 1, 0}, ds.Labels())
	req.Equal("sms.csv", ds.Source)
}

func TestCSVLoader_Latin1(t *testing.T) {
	req := require.New(t)

	// "caf\xe9" is latin-1 for "café" and invalid as UTF-8.
	data := []byte("v1,v2\nham,caf\xe9 at noon\nspam,win \xa3100 now\n")

	l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2", Encoding: "latin-1"})
	ds, err := l.Read(context.Background(), bytes.NewReader(data), "latin1.csv")
	req.NoError(err)
	req.Equal("café at noon", ds.Records[0].Text)
	req.Equal("win £100 now", ds.Records[1].Text)
}

func TestCSVLoader_UTF8ReplacesInvalidBytes(t *testing.T) {
	req := require.New(t)

	data := []byte("label,text\nham,caf\xe9\n")
	l := newLoader(t, Options{Encoding: "utf-8"})
	ds, err := l.Read(context.Background(), bytes.NewReader(data), "bad.csv")
	req.NoError(err)
	req.Equal("caf\ufffd", ds.Records[0].Text)
}

func TestCSVLoader_FallbackColumns(t *testing.T) {
	req := require.New(t)

	data := "id,Category,Message\n1,spam,claim now\n2,ham,see you\n"
	l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2"})
	ds, err := l.Read(context.Background(), strings.NewReader(data), "alt.csv")
	req.NoError(err)
	req.Len(ds.Records, 2)
	req.Equal("claim now", ds.Records[0].Text)
	req.Equal(core.Spam, ds.Records[0].Label)
}

func TestCSVLoader_NumericLabels(t *testing.T) {
	req := require.New(t)

	data := "label,text\n1,buy now\n0,hello\n"
	ds, err := newLoader(t, Options{}).Read(context.Background(), strings.NewReader(data), "num.csv")
	req.NoError(err)
	req.Equal([]int{1, 0}, ds.Labels())
}

func TestCSVLoader_UnknownLabels(t *testing.T) {
	data := "v1,v2\nham,hello\nmaybe,what is this\nspam,win\n"

	t.Run("reject", func(t *testing.T) {
		l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2"})
		_, err := l.Read(context.Background(), strings.NewReader(data), "x.csv")
		require.ErrorIs(t, err, core.ErrUnknownLabel)
		require.Contains(t, err.Error(), "line 3")
		require.Contains(t, err.Error(), "maybe")
	})

	t.Run("drop", func(t *testing.T) {
		l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2", UnknownLabels: DropUnknownLabels})
		ds, err := l.Read(context.Background(), strings.NewReader(data), "x.csv")
		require.NoError(t, err)
		require.Len(t, ds.Records, 2)
		require.Equal(t, 1, ds.Dropped)
	})
}

func TestCSVLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantIs  error
		wantMsg string
	}{
		{name: "empty file", data: "", wantIs: core.ErrEmptyDataset},
		{name: "header only", data: "v1,v2\n", wantIs: core.ErrEmptyDataset},
		{name: "missing text column", data: "v1,other\nham,x\n", wantMsg: "text column"},
		{name: "short row", data: "v1,v2\nham\n", wantMsg: "expected at least 2 columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2"})
			_, err := l.Read(context.Background(), strings.NewReader(tt.data), "x.csv")
			require.Error(t, err)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				require.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCSVLoader_Load(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "spam.csv")
	req.NoError(os.WriteFile(path, []byte("v1,v2\nspam,free cash\nham,lunch?\n"), 0o644))

	l := newLoader(t, Options{LabelColumn: "v1", TextColumn: "v2", Encoding: "latin-1"})
	ds, err := l.Load(context.Background(), path)
	req.NoError(err)
	req.Len(ds.Records, 2)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	req.ErrorIs(err, os.ErrNotExist)
}

func TestCSVLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newLoader(t, Options{})
	_, err := l.Read(ctx, strings.NewReader("label,text\nham,x\n"), "x.csv")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewCSVLoader_Invalid(t *testing.T) {
	_, err := NewCSVLoader(Options{Encoding: "no-such-charset"}, zap.NewNop())
	require.Error(t, err)

	_, err = NewCSVLoader(Options{UnknownLabels: "ignore"}, zap.NewNop())
	require.Error(t, err)
}
