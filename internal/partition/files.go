package partition

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Nordic Partition Manager names for the usual MCUboot partitions.
var pmStaticNames = map[string]string{
	"mcuboot": "mcuboot",
	"slot0":   "mcuboot_primary",
	"slot1":   "mcuboot_secondary",
	"scratch": "mcuboot_scratch",
	"storage": "settings_storage",
}

// Devicetree labels for the usual MCUboot partitions.
var overlayLabels = map[string]string{
	"mcuboot": "mcuboot",
	"slot0":   "image-0",
	"slot1":   "image-1",
	"scratch": "image-scratch",
	"storage": "storage",
}

func pmStaticName(name string) string {
	if mapped, ok := pmStaticNames[name]; ok {
		return mapped
	}
	return name
}

func overlayLabel(name string) string {
	if mapped, ok := overlayLabels[name]; ok {
		return mapped
	}
	return name
}

func hexNode(v uint32) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: fmt.Sprintf("%#x", v),
	}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: s,
	}
}

// WritePMStatic emits a pm_static.yml for the layout. Partition order and
// the hex spelling of addresses are preserved, which plain map marshalling
// would lose.
func WritePMStatic(w io.Writer, regions []Region) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range regions {
		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content,
			strNode("address"), hexNode(r.Start),
			strNode("end_address"), hexNode(r.End),
			strNode("region"), strNode("flash_primary"),
			strNode("size"), hexNode(r.Size),
		)
		root.Content = append(root.Content, strNode(pmStaticName(r.Name)), entry)
	}

	if _, err := fmt.Fprintln(w, "# Static partition layout generated by flashlens"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

// WriteOverlay emits a devicetree overlay declaring the layout as
// fixed-partitions of flash0, with the MCUboot node marked read-only.
func WriteOverlay(w io.Writer, regions []Region) error {
	var err error
	p := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	p("// Partition overlay generated by flashlens\n\n")
	p("/ {\n\tchosen {\n\t\tzephyr,code-partition = &slot0_partition;\n\t};\n};\n\n")
	p("&flash0 {\n\tpartitions {\n")
	p("\t\tcompatible = \"fixed-partitions\";\n")
	p("\t\t#address-cells = <1>;\n")
	p("\t\t#size-cells = <1>;\n\n")

	for _, r := range regions {
		p("\t\t%s_partition: partition@%x {\n", r.Name, r.Start)
		p("\t\t\tlabel = %q;\n", overlayLabel(r.Name))
		p("\t\t\treg = <%#010x %#010x>;\n", r.Start, r.Size)
		if r.Name == "mcuboot" {
			p("\t\t\tread-only;\n")
		}
		p("\t\t};\n\n")
	}

	p("\t};\n};\n")
	return err
}
