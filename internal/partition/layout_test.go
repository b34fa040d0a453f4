package partition_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/flashlens/flashlens/internal/model"
	"github.com/flashlens/flashlens/internal/partition"
)

var nrf52Specs = []partition.Spec{
	{Name: "mcuboot", Size: 0x1B800},
	{Name: "slot0", Size: 0x67000},
	{Name: "slot1", Size: 0x67000},
	{Name: "scratch", Size: 0x400},
	{Name: "storage", Size: 0x13000},
}

func TestLayout(t *testing.T) {
	regions, err := partition.Layout(0x100000, nrf52Specs)
	require.NoError(t, err)
	require.Len(t, regions, 5)

	// partitions are packed back to back from address 0
	require.Equal(t, partition.Region{Name: "mcuboot", Start: 0, End: 0x1B800, Size: 0x1B800}, regions[0])
	require.Equal(t, uint32(0x1B800), regions[1].Start)
	for i := 1; i < len(regions); i++ {
		require.Equal(t, regions[i-1].End, regions[i].Start)
	}
	require.LessOrEqual(t, regions[len(regions)-1].End, uint32(0x100000))
}

func TestLayoutOverflow(t *testing.T) {
	_, err := partition.Layout(0x10000, []partition.Spec{
		{Name: "mcuboot", Size: 0xC000},
		{Name: "slot0", Size: 0x8000},
	})
	require.ErrorContains(t, err, `partition "slot0" exceeds flash size`)
}

func TestFromConfig(t *testing.T) {
	cfg := &model.LayoutConfig{
		FlashSize: "0x100000",
		Partitions: []model.PartitionConfig{
			{Name: "mcuboot", Size: "0x1b800"},
			{Name: "slot0", Size: "458752"}, // decimal works too
		},
	}

	flashSize, specs, err := partition.FromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, uint32(0x100000), flashSize)
	require.Equal(t, []partition.Spec{
		{Name: "mcuboot", Size: 0x1B800},
		{Name: "slot0", Size: 0x70000},
	}, specs)
}

func TestFromConfigErrors(t *testing.T) {
	var ce model.ConfigError

	_, _, err := partition.FromConfig(nil)
	require.ErrorAs(t, err, &ce)

	_, _, err = partition.FromConfig(&model.LayoutConfig{
		FlashSize:  "0x100000",
		Partitions: []model.PartitionConfig{{Name: "mcuboot", Size: "huge"}},
	})
	require.ErrorAs(t, err, &ce)
}

func TestRenderShowsUnused(t *testing.T) {
	regions, err := partition.Layout(0x100000, nrf52Specs[:2])
	require.NoError(t, err)

	var buf bytes.Buffer
	partition.Render(&buf, regions, 0x100000)
	out := buf.String()

	require.Contains(t, out, "Flash Size: 0x100000 (1.0 MiB)")
	require.Contains(t, out, "mcuboot")
	require.Contains(t, out, "UNUSED")
}

func TestWritePMStatic(t *testing.T) {
	regions, err := partition.Layout(0x100000, nrf52Specs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, partition.WritePMStatic(&buf, regions))

	type pmEntry struct {
		Address    uint32 `yaml:"address"`
		EndAddress uint32 `yaml:"end_address"`
		Region     string `yaml:"region"`
		Size       uint32 `yaml:"size"`
	}
	var parsed map[string]pmEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))

	// slot names are mapped to the Nordic partition manager ones
	require.Contains(t, parsed, "mcuboot_primary")
	require.Contains(t, parsed, "mcuboot_secondary")
	require.Contains(t, parsed, "mcuboot_scratch")
	require.Contains(t, parsed, "settings_storage")

	primary := parsed["mcuboot_primary"]
	require.Equal(t, uint32(0x1B800), primary.Address)
	require.Equal(t, uint32(0x1B800+0x67000), primary.EndAddress)
	require.Equal(t, "flash_primary", primary.Region)
	require.Equal(t, uint32(0x67000), primary.Size)

	// addresses are spelled in hex
	require.Contains(t, buf.String(), "address: 0x1b800")
}

func TestWriteOverlay(t *testing.T) {
	regions, err := partition.Layout(0x100000, nrf52Specs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, partition.WriteOverlay(&buf, regions))
	out := buf.String()

	require.Contains(t, out, `compatible = "fixed-partitions";`)
	require.Contains(t, out, "slot0_partition: partition@1b800 {")
	require.Contains(t, out, `label = "image-0";`)
	require.Contains(t, out, `label = "image-1";`)
	require.Contains(t, out, "read-only;")
	require.Contains(t, out, "zephyr,code-partition = &slot0_partition;")
}
