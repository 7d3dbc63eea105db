package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

var allowedRootKeys = map[string]bool{
	"mappings": true,
}

var allowedMappingKeys = map[string]bool{
	"dto":    true,
	"entity": true,
	"fields": true,
}

var allowedFieldKeys = map[string]bool{
	"source":  true,
	"targets": true,
	"invert":  true,
}

func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, "root"); err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		var allowedKeys map[string]bool
		switch context {
		case "root":
			allowedKeys = allowedRootKeys
		case "mapping":
			allowedKeys = allowedMappingKeys
		case "field":
			allowedKeys = allowedFieldKeys
		default:
			return fmt.Errorf("unexpected mapping node in %s (line %d)", context, node.Line)
		}

		for i := 0; i < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			key := keyNode.Value

			if !allowedKeys[key] {
				return fmt.Errorf("unknown key '%s' in %s (line %d)", key, context, keyNode.Line)
			}

			nextContext := "scalar"
			switch {
			case context == "root" && key == "mappings":
				nextContext = "mappings-seq"
			case context == "mapping" && key == "fields":
				nextContext = "fields-seq"
			case context == "field" && key == "targets":
				nextContext = "targets-seq"
			}

			if err := validateYAMLNode(valNode, nextContext); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		var itemContext string
		switch context {
		case "mappings-seq":
			itemContext = "mapping"
		case "fields-seq":
			itemContext = "field"
		case "targets-seq":
			itemContext = "scalar"
		default:
			return fmt.Errorf("unexpected sequence in %s (line %d)", context, node.Line)
		}
		for _, item := range node.Content {
			if err := validateYAMLNode(item, itemContext); err != nil {
				return err
			}
		}

	case yaml.ScalarNode:
		if context != "scalar" {
			return fmt.Errorf("unexpected scalar %q in %s (line %d)", node.Value, context, node.Line)
		}
	}

	return nil
}
