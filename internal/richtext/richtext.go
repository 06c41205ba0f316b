// Package richtext 只做对编辑器文档结构的最小探测，
// 不实现任何文档模型：内容按 Lexical 的序列化 JSON 原样存取。
package richtext

import (
	"encoding/json"
	"fmt"
)

type node struct {
	Type     string `json:"type"`
	Children []node `json:"children"`
}

type document struct {
	Root node `json:"root"`
}

// IsEmpty 判断文档是否为空。
// root 下只有一个无子节点的 paragraph 也算空（编辑器的初始状态）。
func IsEmpty(raw []byte) (bool, error) {
	if len(raw) == 0 {
		return true, nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("parse document: %w", err)
	}

	if len(doc.Root.Children) == 0 {
		return true, nil
	}
	if len(doc.Root.Children) == 1 {
		first := doc.Root.Children[0]
		if first.Type == "paragraph" && len(first.Children) == 0 {
			return true, nil
		}
	}
	return false, nil
}
