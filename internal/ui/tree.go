package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// treeNode represents a node in the file tree
type treeNode struct {
	name     string
	isFile   bool
	change   *models.FileChange
	children map[string]*treeNode
}

// PrintFileTree prints the files touched by a pull request as a directory tree.
func PrintFileTree(w io.Writer, header string, files []models.FileChange) {
	if len(files) == 0 {
		return
	}
	if header != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", header)
	}
	printTree(w, buildFileTree(files), "", true)
}

// buildFileTree builds a directory tree
func buildFileTree(changes []models.FileChange) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for i := range changes {
		change := &changes[i]
		parts := strings.Split(strings.Trim(change.Filename, "/"), "/")
		current := root

		for j, part := range parts {
			isFile := j == len(parts)-1
			child := current.children[part]
			if child == nil {
				child = &treeNode{
					name:     part,
					isFile:   isFile,
					children: make(map[string]*treeNode),
				}
				current.children[part] = child
			}
			if isFile {
				child.isFile = true
				child.change = change
			}
			current = child
		}
	}
	return root
}

// printTree prints the tree recursively
func printTree(w io.Writer, node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		if !node.isFile {
			name = Info.Sprint(name + "/")
		}

		stats := ""
		if node.isFile && node.change != nil {
			statsColor := color.New(color.FgGreen)
			if node.change.Deletions > node.change.Additions {
				statsColor = color.New(color.FgRed)
			}
			stats = statsColor.Sprintf(" (+%d, -%d)", node.change.Additions, node.change.Deletions)
		}

		_, _ = fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, stats)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := sortedKeys(node.children)
	for i, key := range keys {
		printTree(w, node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortedKeys orders directories first, then files, each alphabetically.
func sortedKeys(nodes map[string]*treeNode) []string {
	keys := make([]string, 0, len(nodes))
	for key := range nodes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := nodes[keys[i]], nodes[keys[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return keys[i] < keys[j]
	})
	return keys
}
