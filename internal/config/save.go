// Package config provides configuration types, defaults, and persistence for taglet.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveTriggers updates the triggers configuration in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveTriggers(configPath string, triggers []TriggerConfig) error {
	return saveTopLevelKey(configPath, "triggers", buildTriggersNode(triggers))
}

// SaveDirectoryPath updates the candidate directory path in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveDirectoryPath(configPath, path string) error {
	node := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "path"},
			{Kind: yaml.ScalarNode, Value: path},
		},
	}
	return saveTopLevelKey(configPath, "directory", node)
}

// AddTrigger appends a new trigger to the config and saves it.
func AddTrigger(configPath string, newTrigger TriggerConfig, existingTriggers []TriggerConfig) error {
	triggers := append(existingTriggers, newTrigger)
	if err := ValidateTriggers(triggers); err != nil {
		return err
	}
	return SaveTriggers(configPath, triggers)
}

// DeleteTrigger removes a trigger at the given index and saves.
// Returns error if index is out of range or if it's the last trigger.
func DeleteTrigger(configPath string, index int, allTriggers []TriggerConfig) error {
	if len(allTriggers) <= 1 {
		return fmt.Errorf("cannot delete the only trigger")
	}
	if index < 0 || index >= len(allTriggers) {
		return fmt.Errorf("trigger index %d out of range (have %d triggers)", index, len(allTriggers))
	}

	// Create new slice without the deleted trigger
	updated := make([]TriggerConfig, 0, len(allTriggers)-1)
	for i, trig := range allTriggers {
		if i != index {
			updated = append(updated, trig)
		}
	}

	return SaveTriggers(configPath, updated)
}

// saveTopLevelKey replaces one top-level key in the config file and writes the
// result atomically. Other sections keep their comments and formatting.
func saveTopLevelKey(configPath, key string, value *yaml.Node) error {
	// Read existing file content
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	// Update or create the section
	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						value,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			// Find and replace the key, or append it
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == key {
					root.Content[i+1] = value
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: key},
					value,
				)
			}
		}
	}

	// Marshal back to YAML
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".taglet.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// buildTriggersNode creates a yaml.Node representing the triggers array.
func buildTriggersNode(triggers []TriggerConfig) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(triggers)),
	}

	for _, trig := range triggers {
		trigNode := &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: make([]*yaml.Node, 0),
		}

		// Always include rune
		trigNode.Content = append(trigNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "rune"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: trig.Rune},
		)

		if trig.Label != "" {
			trigNode.Content = append(trigNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: "label"},
				&yaml.Node{Kind: yaml.ScalarNode, Value: trig.Label},
			)
		}

		if trig.Color != "" {
			trigNode.Content = append(trigNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: "color"},
				&yaml.Node{Kind: yaml.ScalarNode, Value: trig.Color},
			)
		}

		node.Content = append(node.Content, trigNode)
	}

	return node
}
