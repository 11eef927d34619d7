package tbx_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbxmanager/tbx"
)

func TestArchiveName(t *testing.T) {
	tt := []struct {
		Name     string
		Package  string
		Version  string
		Platform string
		Format   string
		Want     string
	}{
		{Name: "space replaced", Package: "mpt v2", Version: "1.0", Platform: "all", Format: "zip", Want: "mpt_v2_1.0_all.zip"},
		{Name: "default format", Package: "mpt", Version: "3.1.0", Platform: "win64", Want: "mpt_3.1.0_win64.zip"},
		{Name: "punctuation replaced", Package: "a/b:c", Version: "1.0-rc1", Platform: "all", Format: "zip", Want: "a_b_c_1.0-rc1_all.zip"},
		{Name: "non ascii replaced", Package: "pâte", Version: "1", Platform: "all", Format: "zip", Want: "p_te_1_all.zip"},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, tbx.ArchiveName(tc.Package, tc.Version, tc.Platform, tc.Format))
		})
	}
}

func TestIsValidTableName(t *testing.T) {
	tt := []struct {
		Name  string
		Table string
		Want  bool
	}{
		{Name: "simple", Table: "tbx_defaults", Want: true},
		{Name: "leading underscore", Table: "_defaults", Want: true},
		{Name: "uppercase", Table: "Defaults", Want: false},
		{Name: "leading digit", Table: "1defaults", Want: false},
		{Name: "quote", Table: `x"; drop table y`, Want: false},
		{Name: "empty", Table: "", Want: false},
		{Name: "too long", Table: strings.Repeat("a", 64), Want: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, tbx.IsValidTableName(tc.Table))
		})
	}
}

func TestIsUserError(t *testing.T) {
	assert.True(t, tbx.IsUserError(fmt.Errorf("wrap: %w", tbx.ErrBadCommand)))
	assert.True(t, tbx.IsUserError(tbx.ErrFileNotFound))
	assert.False(t, tbx.IsUserError(fmt.Errorf("boom")))
}
