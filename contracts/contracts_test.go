package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, "", KindOf(nil))
	assert.Equal(t, "io", KindOf(fmt.Errorf("%w: open", ErrIO)))
	assert.Equal(t, "format", KindOf(fmt.Errorf("wrapped: %w", fmt.Errorf("%w: bits", ErrFormat))))
	assert.Equal(t, "encode", KindOf(ErrEncode))
	assert.Equal(t, "config", KindOf(ErrConfig))
	assert.Equal(t, "unknown", KindOf(errors.New("boom")))
}

func TestElementType(t *testing.T) {
	sizes := map[ElementType]int{
		Int8: 1, Uint8: 1, Int16: 2, Uint16: 2, Int32: 4, Uint32: 4, Float32: 4, Float64: 8, ElementUnknown: 0,
	}
	for typ, want := range sizes {
		assert.Equal(t, want, typ.Size(), typ.String())
	}
	assert.True(t, Float32.Supported())
	assert.True(t, Int8.Supported())
	assert.False(t, Float64.Supported())
	assert.False(t, ElementUnknown.Supported())
	assert.True(t, Int16.Signed())
	assert.False(t, Uint32.Signed())
	assert.Equal(t, "unknown(42)", ElementType(42).String())
	assert.Equal(t, ElementType(3), Uint16)
}

func TestParseElementType(t *testing.T) {
	for _, name := range []string{"", "auto", " AUTO "} {
		got, err := ParseElementType(name)
		require.NoError(t, err)
		assert.Equal(t, ElementUnknown, got)
	}
	got, err := ParseElementType("Float32")
	require.NoError(t, err)
	assert.Equal(t, Float32, got)

	_, err = ParseElementType("complex64")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRasterBufferGeometry(t *testing.T) {
	r := &RasterBuffer{Pixels: make([]byte, 24), Width: 2, Height: 2, Bands: 3, Type: Uint16}
	assert.Equal(t, 24, r.ExpectedLen())
	assert.Equal(t, 24, r.ByteLen())
	assert.Equal(t, 2, r.Rows())
	r.Planar = true
	assert.Equal(t, 6, r.Rows())
}

func TestInputFlagsValidate(t *testing.T) {
	cases := []struct {
		name  string
		flags InputFlags
		ok    bool
		dir   bool
	}{
		{name: "file to file", flags: InputFlags{InputPath: "a.tif", OutputPath: "a.lerc"}, ok: true},
		{name: "dir to dir", flags: InputFlags{InputPath: "in/", OutputPath: "out/"}, ok: true, dir: true},
		{name: "dir to file", flags: InputFlags{InputPath: "in/", OutputPath: "out"}, dir: true},
		{name: "file to dir", flags: InputFlags{InputPath: "a.tif", OutputPath: "out/"}},
		{name: "missing input", flags: InputFlags{OutputPath: "out"}},
		{name: "missing output", flags: InputFlags{InputPath: "a.tif"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.flags.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrConfig)
			}
			assert.Equal(t, tc.dir, tc.flags.DirectoryMode())
		})
	}
}

func TestHasTrailingSeparator(t *testing.T) {
	assert.False(t, HasTrailingSeparator(""))
	assert.False(t, HasTrailingSeparator("dir"))
	assert.True(t, HasTrailingSeparator("dir/"))
	assert.True(t, HasTrailingSeparator("/"))
}

func TestBatchReportTotal(t *testing.T) {
	r := BatchReport{Converted: []string{"a", "b"}, Failed: []FileFailure{{Path: "c"}}}
	assert.Equal(t, 3, r.Total())
}
