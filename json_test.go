package img2json

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

const two_frame_json = `{"dimensions":[2,1],"length":2,"frames":[` +
	`{"delay_ratio":[10,1],"pixels":[[255,0,0],[0,255,0]]},` +
	`{"delay_ratio":[20,1],"pixels":[[0,0,255],[255,255,0]]}]}`

func TestMarshalDocumentShape(t *testing.T) {
	d, err := Build(two_frame_rgb(t), RGB)
	require.NoError(t, err)
	b, err := Marshal(d)
	require.NoError(t, err)
	require.Equal(t, two_frame_json, string(b))

	d, err = Build(two_frame_rgb(t), RGBA)
	require.NoError(t, err)
	b, err = Marshal(d)
	require.NoError(t, err)
	require.Contains(t, string(b), `"pixels":[[255,0,0,255],[0,255,0,255]]`)
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	src := []RawFrame{
		{Image: random_nrgba(r, 5, 9), Delay: Ratio{10, 1}},
		{Image: random_nrgba(r, 5, 9), Delay: Ratio{4294967295, 7}},
		{Image: random_nrgba(r, 5, 9), Delay: Ratio{0, 1}},
	}
	for _, mode := range []ChannelMode{RGB, RGBA} {
		t.Run(mode.String(), func(t *testing.T) {
			d, err := Build(src, mode)
			require.NoError(t, err)
			for _, opts := range [][]EncodeOption{nil, {Indent("", "  ")}} {
				b, err := Marshal(d, opts...)
				require.NoError(t, err)
				back, err := Unmarshal(b)
				require.NoError(t, err)
				require.True(t, d.Equal(back))
				require.Equal(t, d, back)
			}
		})
	}
}

func TestEncodingJSONInterop(t *testing.T) {
	d, err := Build(two_frame_rgb(t), RGB)
	require.NoError(t, err)
	wrapped := map[string]*ImageData{"animation": d}
	b, err := json.Marshal(wrapped)
	require.NoError(t, err)
	var back map[string]*ImageData
	require.NoError(t, json.Unmarshal(b, &back))
	require.True(t, d.Equal(back["animation"]))
}

func TestUnmarshalRejectsInvalidDocuments(t *testing.T) {
	testCases := []struct {
		name, doc string
	}{
		{"not json", `{"dimensions":`},
		{"wrong top level type", `[1,2,3]`},
		{"trailing data", two_frame_json + ` {}`},
		{"trailing brackets", two_frame_json + `}]]`},
		{"missing dimensions", `{"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3]]}]}`},
		{"missing length", `{"dimensions":[1,1],"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3]]}]}`},
		{"no frames", `{"dimensions":[1,1],"length":0,"frames":[]}`},
		{"dimensions arity", `{"dimensions":[1,1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3]]}]}`},
		{"negative dimension", `{"dimensions":[-1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3]]}]}`},
		{"delay arity", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1],"pixels":[[1,2,3]]}]}`},
		{"missing delay", `{"dimensions":[1,1],"length":1,"frames":[{"pixels":[[1,2,3]]}]}`},
		{"zero denominator", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,0],"pixels":[[1,2,3]]}]}`},
		{"missing pixels", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,1]}]}`},
		{"length mismatch", `{"dimensions":[1,1],"length":2,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3]]}]}`},
		{"channel out of range", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,256]]}]}`},
		{"negative channel", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,-2,3]]}]}`},
		{"base64 pixel", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":["AQID"]}]}`},
		{"two channels",`{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2]]}]}`},
		{"mixed arity in frame", `{"dimensions":[2,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3],[1,2,3,4]]}]}`},
		{"mixed arity across frames", `{"dimensions":[1,1],"length":2,"frames":[` +
			`{"delay_ratio":[1,1],"pixels":[[1,2,3]]},{"delay_ratio":[1,1],"pixels":[[1,2,3,4]]}]}`},
		{"too few pixels", `{"dimensions":[2,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[[1,2,3]]}]}`},
		{"second frame too small", `{"dimensions":[1,1],"length":2,"frames":[` +
			`{"delay_ratio":[1,1],"pixels":[[1,2,3]]},{"delay_ratio":[1,1],"pixels":[]}]}`},
		{"zero area", `{"dimensions":[0,3],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[]}]}`},
		{"no pixels anywhere", `{"dimensions":[1,1],"length":1,"frames":[{"delay_ratio":[1,1],"pixels":[]}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Unmarshal([]byte(tc.doc))
			require.ErrorIs(t, err, ErrFormat)
			require.Nil(t, d)
		})
	}
}

func TestUnmarshalJSONLeavesTargetOnError(t *testing.T) {
	d, err := Build(two_frame_rgb(t), RGB)
	require.NoError(t, err)
	before, err := Marshal(d)
	require.NoError(t, err)
	bad := strings.Replace(two_frame_json, `"length":2`, `"length":3`, 1)
	require.ErrorIs(t, json.Unmarshal([]byte(bad), d), ErrFormat)
	after, err := Marshal(d)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}
