package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareChou/wireshark/config"
	"github.com/ShareChou/wireshark/internal/selection"
)

func TestAddRangeSingleAndBounded(t *testing.T) {
	sel := selection.NewSet(false)
	require.NoError(t, addRange(sel, "3"))
	require.NoError(t, addRange(sel, "10-20"))
	assert.True(t, sel.Selected(3))
	assert.True(t, sel.Selected(15))
	assert.False(t, sel.Selected(21))
}

func TestAddRangeUnboundedTrailingDash(t *testing.T) {
	sel := selection.NewSet(false)
	require.NoError(t, addRange(sel, "5-"))
	assert.True(t, sel.Selected(5))
	assert.True(t, sel.Selected(1_000_000))
}

func TestAddRangeInvalid(t *testing.T) {
	sel := selection.NewSet(false)
	assert.Error(t, addRange(sel, "abc"))
	assert.Error(t, addRange(sel, "1-abc"))
}

func TestParseChopFlagBeginAndEnd(t *testing.T) {
	choplen, chopoff, err := parseChopFlag("4")
	require.NoError(t, err)
	assert.Equal(t, 4, choplen)
	assert.Equal(t, 0, chopoff)

	choplen, chopoff, err = parseChopFlag("2:-3")
	require.NoError(t, err)
	assert.Equal(t, -3, choplen)
	assert.Equal(t, 2, chopoff)
}

func TestParseCommentFlag(t *testing.T) {
	idx, comment, err := parseCommentFlag("7:hello world")
	require.NoError(t, err)
	assert.EqualValues(t, 7, idx)
	assert.Equal(t, "hello world", comment)

	_, _, err = parseCommentFlag("no-colon")
	assert.Error(t, err)
}

func TestBuildPipelineConfigSplitConflict(t *testing.T) {
	cfg := &config.Config{}
	_, err := buildPipelineConfig(cfg, pipelineFlags{
		splitCount: 2, splitInterval: 5, outPath: "out.pcap",
	})
	assert.Error(t, err)
}

func TestBuildPipelineConfigDedupDefaults(t *testing.T) {
	cfg := &config.Config{}
	pcfg, err := buildPipelineConfig(cfg, pipelineFlags{
		dedupOn: true, outPath: "out.pcap",
	})
	require.NoError(t, err)
	require.NotNil(t, pcfg.DedupContent)
}

func TestSplitOutPathUsesDefaultDirOnlyWhenBare(t *testing.T) {
	cfg := &config.Config{}
	cfg.Editcap.DefaultSplitDir = "/var/split"

	assert.Equal(t, "/var/split/out.pcap", splitOutPath(cfg, "out.pcap"))
	assert.Equal(t, "/tmp/out.pcap", splitOutPath(cfg, "/tmp/out.pcap"))

	cfg.Editcap.DefaultSplitDir = ""
	assert.Equal(t, "out.pcap", splitOutPath(cfg, "out.pcap"))
}

func TestBuildPipelineConfigComments(t *testing.T) {
	cfg := &config.Config{}
	pcfg, err := buildPipelineConfig(cfg, pipelineFlags{
		commentFlags: []string{"1:first", "2:second"},
		outPath:      "out.pcap",
	})
	require.NoError(t, err)
	require.NotNil(t, pcfg.Comments)
	c, ok := pcfg.Comments.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "first", c)
}
